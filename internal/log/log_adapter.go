package log

import (
	"bytes"
	"context"
	"log"
	"log/slog"
)

type logAdapter struct {
	slog  *slog.Logger
	level slog.Level
}

// NewLogAdapter bridges a standard library logger into slog at info level.
func NewLogAdapter(logger *slog.Logger) *log.Logger {
	return NewLogAdapterLevel(logger, slog.LevelInfo)
}

func NewLogAdapterLevel(logger *slog.Logger, level slog.Level) *log.Logger {
	return log.New(&logAdapter{slog: logger, level: level}, "", 0)
}

func (a *logAdapter) Write(p []byte) (n int, err error) {
	a.slog.Log(context.Background(), a.level, string(bytes.TrimRight(p, "\n")))
	return len(p), nil
}
