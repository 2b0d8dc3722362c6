// Package logger wraps a process-wide zerolog logger.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"contact-dedup/internal/config"

	"github.com/rs/zerolog"
)

var log = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init replaces the global logger based on configuration.
// Production writes JSON to stdout, everything else a console format.
func Init(cfg config.LoggerConfig) {
	var output io.Writer = os.Stdout
	if cfg.Environment != "production" {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}
	log = New(cfg, output)
}

// New builds a logger writing to w at the configured level.
func New(cfg config.LoggerConfig, w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		Level(parseLogLevel(cfg.Level)).
		With().
		Timestamp().
		Caller().
		Logger()
}

// SetOutput points the global logger at w, keeping level and fields.
// Mostly useful in tests.
func SetOutput(w io.Writer) {
	log = log.Output(w)
}

// parseLogLevel converts string log level to zerolog.Level
func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get returns the global logger instance
func Get() *zerolog.Logger {
	return &log
}

// Component returns a child logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

func Trace() *zerolog.Event {
	return log.Trace()
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
