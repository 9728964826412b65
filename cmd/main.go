package main

import (
	"context"
	"errors"
	"fmt"
	logByDefault "log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/plugfox/foxy-archive-server/internal/archiver"
	config "github.com/plugfox/foxy-archive-server/internal/config"
	"github.com/plugfox/foxy-archive-server/internal/discord"
	"github.com/plugfox/foxy-archive-server/internal/event"
	"github.com/plugfox/foxy-archive-server/internal/httpclient"
	log "github.com/plugfox/foxy-archive-server/internal/log"
	"github.com/plugfox/foxy-archive-server/internal/metrics"
	"github.com/plugfox/foxy-archive-server/internal/observability"
	"github.com/plugfox/foxy-archive-server/internal/server"
	storage "github.com/plugfox/foxy-archive-server/internal/storage"
	"golang.org/x/sync/errgroup"

	// This controls the maxprocs environment variable in container runtimes.
	// see https://martin.baillie.id/wrote/gotchas-in-the-go-network-packages-defaults/#bonus-gomaxprocs-containers-and-the-cfs
	"go.uber.org/automaxprocs/maxprocs"
)

// Set by the linker.
var version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	// Set the local timezone to UTC
	time.Local = time.UTC

	// Initialize the configuration
	config, err := config.MustLoadConfig()
	if err != nil {
		logByDefault.Fatalf("Config load error: %v", err)
	}

	// Logger configuration
	logger := log.New(
		log.WithLevel(config.Verbose),
		log.WithSource(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config, logger); err != nil {
		logger.ErrorContext(ctx, "an error occurred", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, config *config.Config, logger *slog.Logger) error {
	_, err := maxprocs.Set(maxprocs.Logger(func(s string, i ...interface{}) {
		logger.DebugContext(ctx, fmt.Sprintf(s, i...))
	}))
	if err != nil {
		return fmt.Errorf("setting max procs: %w", err)
	}

	// Every run of the archiver is one session
	session := uuid.New()
	logger.InfoContext(ctx, "Archiver session", slog.String("session_id", session.String()))

	shutdownTracing, err := observability.SetupOTel(ctx, config.OTEL, version, session.String())
	if err != nil {
		return fmt.Errorf("tracing setup error: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.WarnContext(ctx, "Tracing shutdown error", slog.String("error", err.Error()))
		}
	}()

	// Setup database connection
	db, err := storage.New(config, logger)
	if err != nil {
		return fmt.Errorf("database connection error: %w", err)
	}
	defer db.Close()

	m := metrics.New(&config.Metrics, map[string]string{"session_id": session.String()}, logger)
	defer m.Close()

	arch := archiver.New(db, session, &config.Archiver, m, logger)

	// Create a http client
	httpClient, err := httpclient.NewHTTPClient(&config.Proxy, config.Discord.Timeout)
	if err != nil {
		return fmt.Errorf("http client setup error: %w", err)
	}

	// Setup Discord gateway
	gateway, err := discord.New(&config.Discord, func(ctx context.Context, ev event.Event) {
		arch.Handle(ctx, ev)
	}, httpClient, logger)
	if err != nil {
		return fmt.Errorf("discord setup error: %w", err)
	}
	if err := gateway.Start(ctx); err != nil {
		return fmt.Errorf("discord connection error: %w", err)
	}
	defer gateway.Close()

	logger.InfoContext(ctx, "Archiver started", slog.String("database", db.Driver()), slog.String("metrics", config.Metrics.Driver))

	if config.API.Disabled {
		<-ctx.Done()
		logger.InfoContext(ctx, "Shutting down")
		return nil
	}

	// Setup API server
	srv := server.New(config, logger)
	srv.AddHealthCheck(func(ctx context.Context) (bool, map[string]string) {
		ok := true
		status := map[string]string{"storage": "ok", "gateway": "connected"}
		if err := db.Ping(ctx); err != nil {
			ok = false
			status["storage"] = err.Error()
		}
		if !gateway.Connected() {
			ok = false
			status["gateway"] = "disconnected"
		}
		return ok, status
	})
	srv.AddMetrics(metrics.Handler(m))
	srv.AddMessageLookup(db)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.InfoContext(gctx, "Server started", slog.String("host", config.API.Host), slog.Int("port", config.API.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.InfoContext(gctx, "Shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	})

	return g.Wait()
}
