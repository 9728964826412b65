package discord

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/plugfox/foxy-archive-server/internal/config"
	"github.com/plugfox/foxy-archive-server/internal/event"
	"github.com/stretchr/testify/require"
)

type collected struct {
	mu     sync.Mutex
	events []event.Event
}

func (c *collected) handle(_ context.Context, ev event.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func newTestDiscord(t *testing.T, cfg config.DiscordConfig) (*Discord, *collected) {
	t.Helper()
	sink := &collected{}
	d, err := New(&cfg, sink.handle, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	d.now = func() time.Time { return received }
	return d, sink
}

func TestIntents(t *testing.T) {
	d, _ := newTestDiscord(t, config.DiscordConfig{Token: "token", LogLevel: "error"})
	require.Equal(t, "Bot token", d.session.Token)
	require.NotZero(t, d.session.Identify.Intents&discordgo.IntentsMessageContent)
	require.NotZero(t, d.session.Identify.Intents&discordgo.IntentsGuildMessages)
	require.Equal(t, discordgo.LogError, d.session.LogLevel)

	d, _ = newTestDiscord(t, config.DiscordConfig{Token: "token", DisableMessageContent: true})
	require.Zero(t, d.session.Identify.Intents&discordgo.IntentsMessageContent)
	require.NotZero(t, d.session.Identify.Intents&discordgo.IntentsDirectMessages)
}

func TestDispatch(t *testing.T) {
	d, sink := newTestDiscord(t, config.DiscordConfig{Token: "token"})

	d.onMessageCreate(d.session, &discordgo.MessageCreate{Message: gatewayMessage()})
	d.onMessageUpdate(d.session, &discordgo.MessageUpdate{Message: &discordgo.Message{ID: "1", ChannelID: "200", Content: "edited"}})
	d.onMessageDelete(d.session, &discordgo.MessageDelete{Message: &discordgo.Message{ID: "1", ChannelID: "200"}})
	d.onMessageDeleteBulk(d.session, &discordgo.MessageDeleteBulk{Messages: []string{"2", "3"}, ChannelID: "200"})

	// Undecodable payloads are dropped.
	d.onMessageCreate(d.session, &discordgo.MessageCreate{})
	d.onMessageDelete(d.session, &discordgo.MessageDelete{Message: &discordgo.Message{}})

	require.Len(t, sink.events, 4)
	require.IsType(t, event.Create{}, sink.events[0])
	require.IsType(t, event.Edit{}, sink.events[1])
	require.IsType(t, event.Delete{}, sink.events[2])
	require.IsType(t, event.BulkDelete{}, sink.events[3])
	require.Equal(t, received, sink.events[0].(event.Create).ReceivedAt)
}

func TestConnectionState(t *testing.T) {
	d, _ := newTestDiscord(t, config.DiscordConfig{Token: "token"})
	require.False(t, d.Connected())

	d.onConnect(d.session, &discordgo.Connect{})
	require.True(t, d.Connected())

	d.onDisconnect(d.session, &discordgo.Disconnect{})
	require.False(t, d.Connected())

	d.onResumed(d.session, &discordgo.Resumed{})
	require.True(t, d.Connected())

	d.onDisconnect(d.session, &discordgo.Disconnect{})
	d.onReady(d.session, &discordgo.Ready{User: &discordgo.User{ID: "1", Username: "archiver"}})
	require.True(t, d.Connected())
}

func TestConnectionEpoch(t *testing.T) {
	d, sink := newTestDiscord(t, config.DiscordConfig{Token: "token"})
	update := func() {
		d.onMessageUpdate(d.session, &discordgo.MessageUpdate{Message: &discordgo.Message{ID: "1", ChannelID: "200", Content: "edited"}})
	}

	d.onReady(d.session, &discordgo.Ready{})
	d.onMessageCreate(d.session, &discordgo.MessageCreate{Message: gatewayMessage()})
	update()

	// A resumed connection replays missed events and keeps the epoch.
	d.onDisconnect(d.session, &discordgo.Disconnect{})
	d.onResumed(d.session, &discordgo.Resumed{})
	update()

	d.onDisconnect(d.session, &discordgo.Disconnect{})
	d.onReady(d.session, &discordgo.Ready{})
	update()

	require.Len(t, sink.events, 4)
	require.Equal(t, uint32(1), sink.events[0].(event.Create).Connection)
	require.Equal(t, uint32(1), sink.events[1].(event.Edit).Connection)
	require.Equal(t, uint32(1), sink.events[2].(event.Edit).Connection)
	require.Equal(t, uint32(2), sink.events[3].(event.Edit).Connection)
}

func TestGatewayLogLevels(t *testing.T) {
	require.Equal(t, discordgo.LogDebug, gatewayLogLevel(slog.LevelDebug))
	require.Equal(t, discordgo.LogInformational, gatewayLogLevel(slog.LevelInfo))
	require.Equal(t, discordgo.LogWarning, gatewayLogLevel(slog.LevelWarn))
	require.Equal(t, discordgo.LogError, gatewayLogLevel(slog.LevelError))

	require.Equal(t, slog.LevelError, slogLevel(discordgo.LogError))
	require.Equal(t, slog.LevelDebug, slogLevel(discordgo.LogDebug))
}
