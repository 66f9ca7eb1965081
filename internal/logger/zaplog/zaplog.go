// Package zaplog implements logger.Logger on top of zap.
package zaplog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"jdbcurl/internal/logger"
)

// ensures that zapLogger implements logger.Logger.
var _ logger.Logger = (*zapLogger)(nil)

// zapLogger is a zap based logger, writes to stderr.
type zapLogger struct {
	log *zap.Logger
}

// NewLog is a constructor for zap logger with console encoding on debug level.
func NewLog() logger.Logger {
	config := zap.NewDevelopmentConfig()
	config.DisableStacktrace = true
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	log, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		log = zap.NewExample()
	}

	return &zapLogger{log: log}
}

// NewNop returns logger that discards everything.
func NewNop() logger.Logger {
	return &zapLogger{log: zap.NewNop()}
}

// New wraps existing zap logger.
func New(log *zap.Logger) logger.Logger {
	return &zapLogger{log: log}
}

// Debug logs message on debug level.
func (l *zapLogger) Debug(msg string) {
	l.log.Debug(msg)
}

// Info logs message on info level.
func (l *zapLogger) Info(msg string) {
	l.log.Info(msg)
}

// Warn logs message on warn level.
func (l *zapLogger) Warn(msg string) {
	l.log.Warn(msg)
}

// Error logs message with error on error level.
func (l *zapLogger) Error(msg string, err error) {
	l.log.Error(msg, zap.Error(err))
}
