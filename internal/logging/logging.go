// Package logging builds the logger handed to every component.
package logging

import (
	"io"

	"github.com/naka-gawa/commit-streaks/internal/config"
	"github.com/sirupsen/logrus"
)

// New returns a text logger writing to w. Debug entries are only emitted
// when opts.VerboseLogging is set.
func New(opts config.UIOptions, w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(logrus.InfoLevel)
	if opts.VerboseLogging {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}
