package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogrusLogger backs the command line tooling, which wants plain text
// output rather than the service's structured zap stream.
func NewLogrusLogger(env string) *logrus.Logger {
	logger := logrus.New()
	switch env {
	case "production":
		logger.SetFormatter(&logrus.JSONFormatter{})
		file, err := os.OpenFile("logrus.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			logger.SetOutput(file)
		} else {
			logger.Info("Failed to log to file, using default stderr")
		}
	default:
		logger.SetFormatter(&logrus.TextFormatter{})
	}
	return logger
}
