package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type options struct {
	level  slog.Level
	source bool
	text   bool
	writer io.Writer
}

type Option func(*options)

// WithLevel - debug, info, warn or error; anything else means info.
func WithLevel(level string) Option {
	return func(o *options) {
		o.level = ParseLevel(level)
	}
}

// WithSource - add the caller's file and line to every record.
func WithSource() Option {
	return func(o *options) {
		o.source = true
	}
}

// WithText - use the human readable text handler instead of JSON.
func WithText() Option {
	return func(o *options) {
		o.text = true
	}
}

func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.writer = w
	}
}

// New creates a slog logger and makes it the process default.
func New(opts ...Option) *slog.Logger {
	o := &options{
		level:  slog.LevelInfo,
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(o)
	}

	handlerOptions := &slog.HandlerOptions{
		Level:     o.level,
		AddSource: o.source,
	}

	var handler slog.Handler
	if o.text {
		handler = slog.NewTextHandler(o.writer, handlerOptions)
	} else {
		handler = slog.NewJSONHandler(o.writer, handlerOptions)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "trace", "verbose", "all":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "fatal":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
