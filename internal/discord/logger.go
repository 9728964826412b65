package discord

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// gatewayLogLevel maps a slog level name onto the discordgo log levels.
func gatewayLogLevel(level slog.Level) int {
	switch {
	case level <= slog.LevelDebug:
		return discordgo.LogDebug
	case level <= slog.LevelInfo:
		return discordgo.LogInformational
	case level <= slog.LevelWarn:
		return discordgo.LogWarning
	default:
		return discordgo.LogError
	}
}

func slogLevel(msgL int) slog.Level {
	switch msgL {
	case discordgo.LogError:
		return slog.LevelError
	case discordgo.LogWarning:
		return slog.LevelWarn
	case discordgo.LogInformational:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// newGatewayLogger routes discordgo's package logger into slog.
func newGatewayLogger(logger *slog.Logger) func(msgL, caller int, format string, a ...interface{}) {
	return func(msgL, caller int, format string, a ...interface{}) {
		attrs := []slog.Attr{slog.String("component", "discordgo")}
		if pc, file, line, ok := runtime.Caller(caller + 1); ok {
			name := ""
			if fn := runtime.FuncForPC(pc); fn != nil {
				name = fn.Name()[strings.LastIndex(fn.Name(), ".")+1:]
			}
			attrs = append(attrs, slog.String("caller", fmt.Sprintf("%s:%d:%s", file[strings.LastIndex(file, "/")+1:], line, name)))
		}
		logger.LogAttrs(context.Background(), slogLevel(msgL), fmt.Sprintf(format, a...), attrs...)
	}
}
