package logging

import (
	"errors"
	"os"
	"testing"

	"github.com/2beens/gymprogress/pkg"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"gopkg.in/natefinch/lumberjack.v2"
)

func TestGetLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"ERROR":   logrus.ErrorLevel,
		"fatal":   logrus.FatalLevel,
		"info":    logrus.InfoLevel,
		"trace":   logrus.TraceLevel,
		"warn":    logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		"":        logrus.TraceLevel,
		"loud":    logrus.TraceLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, GetLevel(in), in)
	}
}

func TestSentryHook(t *testing.T) {
	levels := []logrus.Level{logrus.PanicLevel, logrus.ErrorLevel}
	hook := NewSentryHook(levels)
	assert.Equal(t, levels, hook.Levels())

	// without sentry.Init the hub has no client and capturing is a no-op
	entry := logrus.NewEntry(logrus.New()).WithError(errors.New("boom")).WithField("owner", "u1")
	entry.Level = logrus.ErrorLevel
	entry.Message = "finish workout"
	assert.NoError(t, hook.Fire(entry))

	assert.Equal(t, "fatal", string(sentryLevel(logrus.PanicLevel)))
	assert.Equal(t, "warning", string(sentryLevel(logrus.WarnLevel)))
	assert.Equal(t, "debug", string(sentryLevel(logrus.TraceLevel)))
}

func TestOutput(t *testing.T) {
	assert.Same(t, os.Stdout, output("", true))

	rotated, ok := output("/tmp/gymprogress", false).(*lumberjack.Logger)
	assert.True(t, ok)
	assert.Equal(t, "/tmp/gymprogress.log", rotated.Filename)

	_, ok = output("/tmp/gymprogress.log", true).(*pkg.CombinedWriter)
	assert.True(t, ok)
}
