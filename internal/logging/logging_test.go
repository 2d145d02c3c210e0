package logging

import (
	"bytes"
	"testing"

	"github.com/naka-gawa/commit-streaks/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		name          string
		verbose       bool
		expectedLevel logrus.Level
		expectDebug   bool
	}{
		{name: "quiet by default", verbose: false, expectedLevel: logrus.InfoLevel, expectDebug: false},
		{name: "verbose enables debug", verbose: true, expectedLevel: logrus.DebugLevel, expectDebug: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(config.UIOptions{VerboseLogging: tc.verbose}, &buf)

			logger.Debug("toggle fired")

			assert.Equal(t, tc.expectedLevel, logger.GetLevel())
			assert.Equal(t, tc.expectDebug, bytes.Contains(buf.Bytes(), []byte("toggle fired")))
		})
	}
}
