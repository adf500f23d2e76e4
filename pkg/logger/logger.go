// Package logger builds the structured zerolog logger shared by every component
// of the pet bot, and carries the field-name conventions used across packages.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Format selects the log output encoding.
type Format string

const (
	// FormatJSON writes one JSON object per line (production).
	FormatJSON Format = "json"
	// FormatConsole writes human-readable colored lines (development).
	FormatConsole Format = "console"
)

// Config configures the logger.
type Config struct {
	Service string
	Level   string
	Format  Format
	Output  io.Writer
}

// DefaultConfig returns sensible defaults for local runs.
func DefaultConfig() Config {
	return Config{
		Service: "petquest",
		Level:   "info",
		Format:  FormatConsole,
		Output:  os.Stdout,
	}
}

// ParseLevel parses a textual level; unknown values fall back to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// New creates a logger for the given configuration.
func New(cfg Config) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.TimestampFieldName = "timestamp"
	zerolog.MessageFieldName = "message"

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	if cfg.Format != FormatJSON {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			FormatLevel: func(i interface{}) string {
				return fmt.Sprintf("| %-6s|", i)
			},
			FormatFieldName: func(i interface{}) string {
				return fmt.Sprintf("%s:", i)
			},
		}
	}

	service := cfg.Service
	if service == "" {
		service = "petquest"
	}

	return zerolog.New(out).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// WithContext attaches the logger to ctx.
func WithContext(ctx context.Context, l zerolog.Logger) context.Context {
	return l.WithContext(ctx)
}

// FromContext returns the logger stored in ctx, or a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// Common field keys.
const (
	KeyUserID        = "user_id"
	KeyCommand       = "command"
	KeyUpdateID      = "update_id"
	KeyCorrelationID = "correlation_id"
	KeyComponent     = "component"
	KeyLatency       = "latency"
)

// Component returns a child logger tagged with a component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str(KeyComponent, name).Logger()
}
