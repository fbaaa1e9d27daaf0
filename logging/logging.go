package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup configures the package-level logrus logger. Development gets a
// human-readable text formatter, every other environment gets JSON.
func Setup(level, environment string) {
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(ParseLevel(level))

	if strings.EqualFold(environment, "development") {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
		return
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})
}

// ParseLevel maps a config string to a logrus level, defaulting to info.
func ParseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
