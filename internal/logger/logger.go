package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the application logger. With file set, output is mirrored to a
// rotating log file.
func New(level, file string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	log := logrus.New()
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if file == "" {
		log.SetOutput(os.Stderr)
		return log, nil
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, fmt.Errorf("logger: create log dir: %w", err)
	}
	log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     30, // дней
		Compress:   true,
	}))
	return log, nil
}

// Discard returns a logger that writes nowhere; used in tests.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
