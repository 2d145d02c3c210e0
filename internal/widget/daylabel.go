package widget

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/naka-gawa/commit-streaks/internal/config"
	"github.com/naka-gawa/commit-streaks/internal/domain"
	"github.com/sirupsen/logrus"
)

// TodayLabel is shown for the current calendar day.
const TodayLabel = "today"

// ErrInvalidDateInput is returned when a day label is requested for a
// string that is not a YYYY-MM-DD calendar date.
var ErrInvalidDateInput = errors.New("invalid date input")

// dayMagnitudes are day-granular: the formatter only ever compares
// midnights, so sub-day magnitudes would never match.
var dayMagnitudes = []humanize.RelTimeMagnitude{
	{D: 2 * humanize.Day, Format: "a day %s", DivBy: 1},
	{D: 26 * humanize.Day, Format: "%d days %s", DivBy: humanize.Day},
	{D: 2 * humanize.Month, Format: "a month %s", DivBy: 1},
	{D: humanize.Year, Format: "%d months %s", DivBy: humanize.Month},
	{D: 2 * humanize.Year, Format: "a year %s", DivBy: 1},
	{D: math.MaxInt64, Format: "%d years %s", DivBy: humanize.Year},
}

// RenderDayLabel returns "today" when day is the same calendar day as now
// (compared in now's location), and a relative phrase such as
// "3 days ago" otherwise.
func RenderDayLabel(day string, now time.Time) (string, error) {
	d, err := time.Parse(domain.DateLayout, day)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDateInput, day)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if d.Year() == today.Year() && d.YearDay() == today.YearDay() {
		return TodayLabel, nil
	}
	return humanize.CustomRelTime(d, today, "ago", "from now", dayMagnitudes), nil
}

// Formatter renders day labels against a clock.
type Formatter struct {
	opts   config.UIOptions
	logger logrus.FieldLogger
	now    func() time.Time
}

// NewFormatter creates a Formatter that reads the wall clock.
func NewFormatter(opts config.UIOptions, logger logrus.FieldLogger) *Formatter {
	return &Formatter{opts: opts, logger: logger, now: time.Now}
}

// WithClock returns a copy of f that uses now instead of the wall clock.
func (f *Formatter) WithClock(now func() time.Time) *Formatter {
	cp := *f
	cp.now = now
	return &cp
}

// Label renders the label for day at the current time.
func (f *Formatter) Label(day string) (string, error) {
	label, err := RenderDayLabel(day, f.now())
	if err != nil {
		return "", err
	}
	if f.opts.VerboseLogging {
		f.logger.WithFields(logrus.Fields{"day": day, "label": label}).Debug("rendered day label")
	}
	return label, nil
}
