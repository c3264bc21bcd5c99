package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the process logger. Release mode logs JSON, everything else logs text.
func New(level, ginMode string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if ginMode == "release" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		log.WithField("level", level).Warn("unknown LOG_LEVEL, using info")
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log
}
