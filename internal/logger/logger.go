package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"embydebug/internal/config"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps logrus.Logger
type Logger struct {
	*logrus.Logger
}

// New creates a logger from cfg. Standard output is reserved for JSON
// payloads, so console logging always goes to stderr.
func New(cfg config.LogConfig) *Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	case "nested":
		logger.SetFormatter(&nested.Formatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FieldsOrder:     []string{"case", "library", "user_id"},
			NoColors:        cfg.Output == "file",
		})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FullTimestamp:   true,
		})
	}

	switch cfg.Output {
	case "discard":
		logger.SetOutput(io.Discard)
	case "file":
		logDir := filepath.Dir(cfg.FilePath)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "cannot create log directory %s, logging to stderr: %v\n", logDir, err)
			logger.SetOutput(os.Stderr)
			break
		}

		rotator := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}

		if level >= logrus.DebugLevel {
			logger.SetOutput(io.MultiWriter(os.Stderr, rotator))
		} else {
			logger.SetOutput(rotator)
		}
	default:
		logger.SetOutput(os.Stderr)
	}

	return &Logger{logger}
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *Logger {
	return New(config.LogConfig{Output: "discard"})
}

// WithField adds a field to the log entry
func (l *Logger) WithField(key string, value interface{}) *logrus.Entry {
	return l.Logger.WithField(key, value)
}

// WithFields adds several fields to the log entry
func (l *Logger) WithFields(fields logrus.Fields) *logrus.Entry {
	return l.Logger.WithFields(fields)
}

// WithError adds an error field to the log entry
func (l *Logger) WithError(err error) *logrus.Entry {
	return l.Logger.WithError(err)
}
