package logging

import (
	"io"
	"os"
	"strings"

	"github.com/2beens/gymprogress/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerSetupParams struct {
	LogFileName      string
	LogToStdout      bool
	LogLevel         string
	LogFormatJSON    bool
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

// Setup configures the global logrus logger. Errors and worse go to sentry
// when it is enabled.
func Setup(params LoggerSetupParams) {
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	if params.SentryEnabled {
		setupSentry(params)
	}
	logrus.SetLevel(GetLevel(params.LogLevel))
	logrus.SetOutput(output(params.LogFileName, params.LogToStdout))
}

func setupSentry(params LoggerSetupParams) {
	err := sentry.Init(sentry.ClientOptions{
		Environment:      params.Environment,
		Dsn:              params.SentryDSN,
		TracesSampleRate: 1.0,
		ServerName:       params.SentryServerName,
	})
	if err != nil {
		logrus.Errorf("sentry.Init: %s", err)
		return
	}
	logrus.AddHook(NewSentryHook([]logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
	}))
	logrus.Infoln("Sentry set up successfully")
}

// output picks stdout, a rotated log file, or both.
func output(fileName string, alsoStdout bool) io.Writer {
	if fileName == "" {
		logrus.Println("writing logs only to STDOUT")
		return os.Stdout
	}
	if !strings.HasSuffix(fileName, ".log") {
		fileName += ".log"
	}

	rotated := &lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    50, // megabytes
		MaxBackups: 20,
		LocalTime:  false,
		Compress:   true,
	}
	if !alsoStdout {
		return rotated
	}
	logrus.Println("writing logs to file and STDOUT")
	return pkg.NewCombinedWriter(os.Stdout, rotated)
}

// GetLevel parses a level name; unknown names mean trace.
func GetLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.TraceLevel
	}
	return parsed
}
