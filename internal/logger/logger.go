// Package logger configures the zerolog logger shared by the CLI, the pipeline and the server.
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the global logger
var Logger = log.Logger

// Config controls log level and output format
type Config struct {
	Level        string `json:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	Format       string `json:"format" validate:"omitempty,oneof=json pretty"`
	TimeFormat   string `json:"time_format,omitempty"`
	ReportCaller bool   `json:"report_caller,omitempty"`
}

// Init configures the global logger to write to stderr so stdout stays free for command output
func Init(config Config) {
	InitWithWriter(config, os.Stderr)
}

// InitWithWriter configures the global logger to write to w
func InitWithWriter(config Config, w io.Writer) {
	level, err := zerolog.ParseLevel(config.Level)
	if err != nil || config.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	output := w
	if config.Format == "pretty" {
		output = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: config.TimeFormat,
		}
	}

	if config.TimeFormat == "" {
		zerolog.TimeFieldFormat = time.RFC3339
	} else {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	builder := zerolog.New(output).
		Level(level).
		With().
		Timestamp()
	if config.ReportCaller {
		builder = builder.Caller()
	}

	Logger = builder.Logger()
	log.Logger = Logger
}

// Debug starts a debug level event
func Debug() *zerolog.Event {
	return Logger.Debug()
}

// Info starts an info level event
func Info() *zerolog.Event {
	return Logger.Info()
}

// Warn starts a warn level event
func Warn() *zerolog.Event {
	return Logger.Warn()
}

// Error starts an error level event
func Error() *zerolog.Event {
	return Logger.Error()
}

// Fatal starts a fatal level event; the process exits after it is written
func Fatal() *zerolog.Event {
	return Logger.Fatal()
}

// Ctx returns the logger stored in ctx. Without one it returns the global logger.
func Ctx(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &Logger
}

// WithContext attaches the global logger to ctx
func WithContext(ctx context.Context) context.Context {
	return Logger.WithContext(ctx)
}
