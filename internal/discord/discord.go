// Package discord connects to the Discord gateway and turns message
// lifecycle dispatches into archiver events.
package discord

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/websocket"
	config "github.com/plugfox/foxy-archive-server/internal/config"
	"github.com/plugfox/foxy-archive-server/internal/event"
	"github.com/plugfox/foxy-archive-server/internal/httpclient"
	log "github.com/plugfox/foxy-archive-server/internal/log"
)

// Handler consumes decoded events. It is called on the gateway's dispatch
// goroutines and must be safe for concurrent use.
type Handler func(ctx context.Context, ev event.Event)

type Discord struct {
	session   *discordgo.Session
	handler   Handler
	logger    *slog.Logger
	ctx       context.Context
	connected atomic.Bool
	now       func() time.Time

	// Bumped on Ready, kept on Resumed: a fresh connection has no replay of missed events.
	connection atomic.Uint32
}

func New(config *config.DiscordConfig, handler Handler, httpClient *http.Client, logger *slog.Logger) (*Discord, error) {
	session, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, err
	}

	// Package wide logger of the gateway client
	discordgo.Logger = newGatewayLogger(logger)
	session.LogLevel = gatewayLogLevel(log.ParseLevel(config.LogLevel))

	session.StateEnabled = false
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages
	if !config.DisableMessageContent {
		session.Identify.Intents |= discordgo.IntentsMessageContent
	}

	if httpClient != nil {
		session.Client = httpClient
		if dial := httpclient.DialContext(httpClient); dial != nil {
			session.Dialer = &websocket.Dialer{
				NetDialContext:   dial,
				HandshakeTimeout: config.Timeout,
			}
		}
	}

	d := &Discord{
		session: session,
		handler: handler,
		logger:  logger,
		ctx:     context.Background(),
		now:     func() time.Time { return time.Now().UTC() },
	}

	session.AddHandler(d.onMessageCreate)
	session.AddHandler(d.onMessageUpdate)
	session.AddHandler(d.onMessageDelete)
	session.AddHandler(d.onMessageDeleteBulk)
	session.AddHandler(d.onConnect)
	session.AddHandler(d.onDisconnect)
	session.AddHandler(d.onReady)
	session.AddHandler(d.onResumed)

	return d, nil
}

// Start opens the gateway connection. Events are handled with ctx until Close.
func (d *Discord) Start(ctx context.Context) error {
	d.ctx = ctx
	return d.session.Open()
}

func (d *Discord) Close() error {
	d.connected.Store(false)
	return d.session.Close()
}

// Connected reports whether the gateway connection is currently up.
func (d *Discord) Connected() bool {
	return d.connected.Load()
}

func (d *Discord) dispatch(ev event.Event) {
	d.handler(d.ctx, ev)
}

func (d *Discord) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	ev, err := CreateFromGateway(m.Message, d.now())
	if err != nil {
		d.logger.WarnContext(d.ctx, "Cannot decode message create", slog.String("error", err.Error()))
		return
	}
	ev.Connection = d.connection.Load()
	d.dispatch(ev)
}

func (d *Discord) onMessageUpdate(_ *discordgo.Session, m *discordgo.MessageUpdate) {
	ev, err := EditFromGateway(m.Message, d.now())
	if err != nil {
		d.logger.WarnContext(d.ctx, "Cannot decode message update", slog.String("error", err.Error()))
		return
	}
	ev.Connection = d.connection.Load()
	d.dispatch(ev)
}

func (d *Discord) onMessageDelete(_ *discordgo.Session, m *discordgo.MessageDelete) {
	ev, err := DeleteFromGateway(m.Message, d.now())
	if err != nil {
		d.logger.WarnContext(d.ctx, "Cannot decode message delete", slog.String("error", err.Error()))
		return
	}
	d.dispatch(ev)
}

func (d *Discord) onMessageDeleteBulk(_ *discordgo.Session, m *discordgo.MessageDeleteBulk) {
	ev, err := BulkDeleteFromGateway(m, d.now())
	if err != nil {
		d.logger.WarnContext(d.ctx, "Cannot decode message bulk delete", slog.String("error", err.Error()))
		return
	}
	d.dispatch(ev)
}

func (d *Discord) onConnect(_ *discordgo.Session, _ *discordgo.Connect) {
	d.connected.Store(true)
	d.logger.InfoContext(d.ctx, "Gateway connected")
}

func (d *Discord) onDisconnect(_ *discordgo.Session, _ *discordgo.Disconnect) {
	d.connected.Store(false)
	d.logger.WarnContext(d.ctx, "Gateway disconnected, events until the next resume or ready may be lost")
}

func (d *Discord) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	d.connected.Store(true)
	connection := d.connection.Add(1)
	attrs := []any{slog.Int("guilds", len(r.Guilds)), slog.Int("connection", int(connection))}
	if r.User != nil {
		attrs = append(attrs, slog.String("user", r.User.Username), slog.String("user_id", r.User.ID))
	}
	d.logger.InfoContext(d.ctx, "Gateway ready", attrs...)
}

func (d *Discord) onResumed(_ *discordgo.Session, _ *discordgo.Resumed) {
	d.connected.Store(true)
	d.logger.InfoContext(d.ctx, "Gateway session resumed")
}
