package helpers

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger. Development gets colored text at
// debug level, everything else JSON at the configured level. The test
// environment only logs warnings and above.
func NewLogger(appName, env, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	switch env {
	case "development":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		if level == "" {
			lvl = logrus.DebugLevel
		}
	case "test":
		logger.SetFormatter(&logrus.JSONFormatter{})
		lvl = logrus.WarnLevel
	default:
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.SetLevel(lvl)

	logger.WithFields(logrus.Fields{"app": appName, "env": env, "level": lvl.String()}).Debug("logger initialized")
	return logger
}

// NewDiscardLogger returns a logger that drops everything.
func NewDiscardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// LogError logs msg at error level with err and fields. A nil logger is ignored.
func LogError(logger *logrus.Logger, msg string, err error, fields logrus.Fields) {
	logWith(logger, logrus.ErrorLevel, msg, err, fields)
}

// LogWarn is LogError at warning level, for failures that do not fail the request.
func LogWarn(logger *logrus.Logger, msg string, err error, fields logrus.Fields) {
	logWith(logger, logrus.WarnLevel, msg, err, fields)
}

func LogInfo(logger *logrus.Logger, msg string, fields logrus.Fields) {
	logWith(logger, logrus.InfoLevel, msg, nil, fields)
}

func logWith(logger *logrus.Logger, lvl logrus.Level, msg string, err error, fields logrus.Fields) {
	if logger == nil {
		return
	}
	entry := logger.WithFields(fields)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Log(lvl, msg)
}
