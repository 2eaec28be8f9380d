// Package logger builds the slog loggers used across careerai.
package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
)

type config struct {
	level  slog.Level
	format Format
	source bool
	out    io.Writer
}

// New creates a *slog.Logger. Without options it writes Info and above as
// slog text to os.Stdout.
func New(opts ...Option) *slog.Logger {
	c := &config{
		level:  slog.LevelInfo,
		format: FormatText,
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}

	switch c.format {
	case FormatPretty:
		return slog.New(charmlog.NewWithOptions(c.out, charmlog.Options{
			Level:           charmlog.Level(c.level),
			ReportTimestamp: true,
			TimeFormat:      time.Kitchen,
			ReportCaller:    c.source,
		}))
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(c.out, c.handlerOptions()))
	default:
		return slog.New(slog.NewTextHandler(c.out, c.handlerOptions()))
	}
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func (c *config) handlerOptions() *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level:     c.level,
		AddSource: c.source,
	}
}
