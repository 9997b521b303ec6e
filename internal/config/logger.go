package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

func NewLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("LOG_LEVEL %q tidak valid, pakai info", level)
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	return logger
}
