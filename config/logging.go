package config

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// LogWriter is the writer used for application and database logs.
var LogWriter io.Writer = os.Stdout

// LogFilePath returns the path to the backend log file.
func LogFilePath() string {
	return filepath.Join("logs", "grants-api.log")
}

// InitLogging prepares the log file and configures the standard logger and
// logrus outputs.
func InitLogging() (*os.File, io.Writer) {
	logPath := filepath.Dir(LogFilePath())
	if err := os.MkdirAll(logPath, os.ModePerm); err != nil {
		log.Printf("Warning: Failed to create logs directory: %v", err)
	}

	logFile, err := os.OpenFile(LogFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("Warning: Failed to open log file: %v", err)
		LogWriter = os.Stdout
		configureLoggers(LogWriter)
		return nil, LogWriter
	}

	LogWriter = io.MultiWriter(os.Stdout, logFile)
	configureLoggers(LogWriter)
	return logFile, LogWriter
}

func configureLoggers(w io.Writer) {
	log.SetOutput(w)
	logrus.SetOutput(w)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if level, err := logrus.ParseLevel(lvl); err == nil {
			logrus.SetLevel(level)
		}
	}
}
