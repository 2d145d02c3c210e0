// Package page renders group pages, mounts their widgets and loads
// already rendered pages back into a document tree.
package page

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/commit-streaks/internal/domain"
	"github.com/naka-gawa/commit-streaks/internal/route"
	"github.com/naka-gawa/commit-streaks/internal/widget"
)

// Mount point selectors.
const (
	BadgeMountSelector = "[data-component='changes']"
	DayMountSelector   = "[data-component='day-bar']"
	TooltipSelector    = "[data-toggle='tooltip']"
	GroupURLSelector   = "#group-url"
	RefreshSelector    = "#refresh"
)

// InvalidDatePlaceholder replaces a day label whose date cannot be parsed.
const InvalidDatePlaceholder = "invalid date"

var groupTemplate = template.Must(template.New("group").Parse(tmplGroup))

// View is everything needed to render a group page.
type View struct {
	GroupID int
	BaseURL string
	Days    []domain.DayGroup
}

// ShareURL is the absolute URL of the group page.
func (v View) ShareURL() string {
	return strings.TrimSuffix(v.BaseURL, "/") + route.GroupPath(v.GroupID)
}

type dayView struct {
	domain.DayGroup
	Heat int
}

type templateVars struct {
	GroupID  int
	ShareURL string
	Days     []dayView
}

// Render writes the server-side markup for v. Widgets are left unmounted.
func Render(w io.Writer, v View) error {
	heat := HeatLevels(v.Days)
	vars := templateVars{GroupID: v.GroupID, ShareURL: v.ShareURL()}
	for i, d := range v.Days {
		vars.Days = append(vars.Days, dayView{DayGroup: d, Heat: heat[i]})
	}
	if err := groupTemplate.Execute(w, vars); err != nil {
		return fmt.Errorf("failed to render group page: %w", err)
	}
	return nil
}

// DayLabeler produces the text of a day label.
type DayLabeler interface {
	Label(day string) (string, error)
}

// Mount fills every widget mount point in doc. Missing badge counts
// render as zero and unreadable ones as written. Day labels that fail get
// a visible placeholder, and their errors are returned joined once every
// mount point is filled.
func Mount(doc *goquery.Document, labeler DayLabeler) error {
	doc.Find(BadgeMountSelector).Each(func(_ int, s *goquery.Selection) {
		additionsText := s.AttrOr("data-additions", "0")
		deletionsText := s.AttrOr("data-deletions", "0")
		additions, errA := strconv.Atoi(additionsText)
		deletions, errD := strconv.Atoi(deletionsText)
		if errA != nil || errD != nil {
			s.SetHtml(string(widget.RenderBadgeText(additionsText, deletionsText)))
			return
		}
		s.SetHtml(string(widget.RenderBadge(additions, deletions)))
	})

	var errs []error
	doc.Find(DayMountSelector).Each(func(_ int, s *goquery.Selection) {
		label, err := labeler.Label(s.AttrOr("data-day", ""))
		if err != nil {
			errs = append(errs, err)
			s.SetHtml(`<span class="day-link day-error">` + template.HTMLEscapeString(InvalidDatePlaceholder) + `</span>`)
			return
		}
		s.SetHtml(`<span class="day-link">` + template.HTMLEscapeString(label) + `</span>`)
	})
	return errors.Join(errs...)
}

// Initializer applies the initial collapse policy to a document.
type Initializer interface {
	Init(doc *goquery.Document) int
}

// Build renders v, mounts its widgets and applies the collapse policy.
// A non-nil document is returned alongside mount errors so the page can
// still be shown with placeholders.
func Build(v View, labeler DayLabeler, initializer Initializer) (*goquery.Document, error) {
	var buf bytes.Buffer
	if err := Render(&buf, v); err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered page: %w", err)
	}
	mountErr := Mount(doc, labeler)
	initializer.Init(doc)
	return doc, mountErr
}

// WriteHTML writes the whole document as HTML.
func WriteHTML(w io.Writer, doc *goquery.Document) error {
	html, err := goquery.OuterHtml(doc.Selection)
	if err != nil {
		return fmt.Errorf("failed to serialize page: %w", err)
	}
	if _, err := io.WriteString(w, html); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}
	return nil
}

// heatWindow is the number of calendar days, ending at the newest day,
// whose commit counts set the quartiles.
const heatWindow = 40

// HeatLevels grades each day's commit count from 0 to 4 against the
// quartiles of the daily counts in the window: the level is the number of
// the boundaries 0, Q1, Q2 and Q3 that the count exceeds. Days in the
// window without commits count as zero.
func HeatLevels(days []domain.DayGroup) []int {
	levels := make([]int, len(days))
	counts := windowCounts(days)
	if len(counts) == 0 {
		return levels
	}
	q, err := stats.Quartile(counts)
	if err != nil {
		return levels
	}
	boundaries := []float64{0, q.Q1, q.Q2, q.Q3}
	for i, d := range days {
		c := float64(d.CommitCount())
		for _, b := range boundaries {
			if c > b {
				levels[i]++
			}
		}
	}
	return levels
}

// windowCounts returns one count per calendar day from the oldest day, or
// heatWindow days before the newest, up to the newest. Days whose date does
// not parse are left out.
func windowCounts(days []domain.DayGroup) stats.Float64Data {
	byDate := make(map[string]int, len(days))
	var oldest, newest time.Time
	for _, d := range days {
		t, err := time.Parse(domain.DateLayout, d.Date)
		if err != nil {
			continue
		}
		byDate[d.Date] += d.CommitCount()
		if newest.IsZero() || t.After(newest) {
			newest = t
		}
		if oldest.IsZero() || t.Before(oldest) {
			oldest = t
		}
	}
	if newest.IsZero() {
		return nil
	}
	start := newest.AddDate(0, 0, -(heatWindow - 1))
	if oldest.After(start) {
		start = oldest
	}
	var counts stats.Float64Data
	for t := start; !t.After(newest); t = t.AddDate(0, 0, 1) {
		counts = append(counts, float64(byDate[t.Format(domain.DateLayout)]))
	}
	return counts
}
