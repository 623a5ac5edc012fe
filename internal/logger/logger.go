// Package logger holds the process-wide logrus logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the global logger. It is usable before Init with logrus defaults.
var Log = logrus.New()

// Init configures the global logger. level is a logrus level name and falls
// back to "info" when empty or unknown; format "json" selects the JSON
// formatter, anything else the text formatter. It should be called once at
// startup.
func Init(level, format string) {
	Log = New(level, format, os.Stdout)
}

// New builds a logger writing to out with the given level and format.
func New(level, format string, out io.Writer) *logrus.Logger {
	l := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	if strings.ToLower(format) == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	l.SetOutput(out)
	return l
}
