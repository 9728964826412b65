package storage_logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestLogger() (*GormSlogLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	handler := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewGormSlogLogger(slog.New(handler)), buf
}

func query() (string, int64) { return "SELECT 1", 1 }

func TestTraceSkipsRecordNotFound(t *testing.T) {
	l, buf := newTestLogger()
	l.Trace(context.Background(), time.Now(), query, gorm.ErrRecordNotFound)
	require.Empty(t, buf.String())
}

func TestTraceReportsErrors(t *testing.T) {
	l, buf := newTestLogger()
	l.Trace(context.Background(), time.Now(), query, errors.New("disk full"))
	require.Contains(t, buf.String(), "SQL execution error")
	require.Contains(t, buf.String(), "disk full")
}

func TestTraceSlowQuery(t *testing.T) {
	l, buf := newTestLogger()
	l.Trace(context.Background(), time.Now().Add(-time.Second), query, nil)
	require.Contains(t, buf.String(), "SQL slow query")
}

func TestLogMode(t *testing.T) {
	l, buf := newTestLogger()

	l.Trace(context.Background(), time.Now(), query, nil)
	require.Empty(t, buf.String(), "successful queries are hidden at the default level")

	verbose := l.LogMode(logger.Info)
	verbose.Trace(context.Background(), time.Now(), query, nil)
	require.Contains(t, buf.String(), "SQL executed")

	buf.Reset()
	silent := l.LogMode(logger.Silent)
	silent.Trace(context.Background(), time.Now(), query, errors.New("ignored"))
	silent.Error(context.Background(), "ignored")
	require.Empty(t, buf.String())
}
