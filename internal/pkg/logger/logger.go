package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/piresc/bahikhata/internal/pkg/models"
	"github.com/sirupsen/logrus"
)

// AppLogger is the HTTP access logger. It writes JSON lines to stdout and to the access log file.
type AppLogger struct {
	*logrus.Logger
	service string
	file    *os.File
}

// Config holds access logger configuration
type Config struct {
	Level    string
	FilePath string
	Service  string
}

// AccessEntry describes one finished request
type AccessEntry struct {
	Method    string
	Path      string
	ClientIP  string
	UserID    string
	RequestID string
	Status    int
	Latency   time.Duration
	Err       error
}

func newLogrus(level string) *logrus.Logger {
	l := logrus.New()
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "timestamp",
			logrus.FieldKeyMsg:  "message",
		},
	})
	return l
}

// NewAppLogger creates a new access logger
func NewAppLogger(config Config) (*AppLogger, error) {
	al := &AppLogger{Logger: newLogrus(config.Level), service: config.Service}

	if config.FilePath != "" {
		file, err := openLogFile(config.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to setup file output: %w", err)
		}
		al.file = file
		al.Logger.SetOutput(io.MultiWriter(os.Stdout, file))
	}
	return al, nil
}

// NewAppLoggerWithWriter creates an access logger writing only to w
func NewAppLoggerWithWriter(w io.Writer, service string) *AppLogger {
	al := &AppLogger{Logger: newLogrus(""), service: service}
	al.Logger.SetOutput(w)
	return al
}

// Close closes the access log file
func (al *AppLogger) Close() error {
	if al.file != nil {
		return al.file.Close()
	}
	return nil
}

// Log writes entry at error level for 5xx, warning for 4xx and info otherwise
func (al *AppLogger) Log(entry AccessEntry) {
	fields := logrus.Fields{
		"status":     entry.Status,
		"latency":    entry.Latency.String(),
		"latency_ms": entry.Latency.Milliseconds(),
		"client_ip":  entry.ClientIP,
		"method":     entry.Method,
		"path":       entry.Path,
		"user_id":    entry.UserID,
		"request_id": entry.RequestID,
	}
	if al.service != "" {
		fields["service"] = al.service
	}

	e := al.Logger.WithFields(fields)
	if entry.Err != nil {
		e = e.WithError(entry.Err)
	}

	switch {
	case entry.Status >= 500:
		e.Error("Server error")
	case entry.Status >= 400:
		e.Warn("Client error")
	default:
		e.Info("Request processed")
	}
}

// InitAppLoggerFromConfig initializes the access logger from config models
func InitAppLoggerFromConfig(configs *models.Config) (*AppLogger, error) {
	return NewAppLogger(Config{
		Level:    configs.Logger.Level,
		FilePath: configs.Logger.AccessPath,
		Service:  configs.App.Name,
	})
}
