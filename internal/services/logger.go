// File: internal/services/logger.go
package services

import (
	"os"
	"strings"

	"go.uber.org/zap"
)

// Logger defines common logging interface for all services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// ZapLogger backs the Logger interface with a zap SugaredLogger.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger builds a logger for the given environment: production gets
// JSON output, everything else the development console encoder.
func NewZapLogger(service, environment string) (*ZapLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(environment) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &ZapLogger{sugar: zapLogger.Sugar().With("service", service)}, nil
}

func (z *ZapLogger) Info(msg string, keysAndValues ...interface{}) {
	z.sugar.Infow(msg, keysAndValues...)
}

func (z *ZapLogger) Error(msg string, keysAndValues ...interface{}) {
	z.sugar.Errorw(msg, keysAndValues...)
}

func (z *ZapLogger) Debug(msg string, keysAndValues ...interface{}) {
	z.sugar.Debugw(msg, keysAndValues...)
}

func (z *ZapLogger) Warn(msg string, keysAndValues ...interface{}) {
	z.sugar.Warnw(msg, keysAndValues...)
}

// Sync flushes buffered log entries; call on shutdown.
func (z *ZapLogger) Sync() {
	_ = z.sugar.Sync()
}

// NoOpLogger is a logger that does nothing (for testing)
type NoOpLogger struct{}

func (n *NoOpLogger) Info(msg string, keysAndValues ...interface{})  {}
func (n *NoOpLogger) Error(msg string, keysAndValues ...interface{}) {}
func (n *NoOpLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (n *NoOpLogger) Warn(msg string, keysAndValues ...interface{})  {}

// NewLogger is an environment-based logger factory.
func NewLogger(service string) Logger {
	if os.Getenv("GO_ENV") == "test" {
		return &NoOpLogger{}
	}
	logger, err := NewZapLogger(service, os.Getenv("ENV"))
	if err != nil {
		return &NoOpLogger{}
	}
	return logger
}
