// Package logger declares logging contract used across jdbcurl.
package logger

// Logger is a leveled logger.
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string, err error)
}
