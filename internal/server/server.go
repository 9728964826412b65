package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/plugfox/foxy-archive-server/api"
	"github.com/plugfox/foxy-archive-server/internal/config"
	"github.com/plugfox/foxy-archive-server/internal/log"
)

type Server struct {
	router *chi.Mux
	public chi.Router
	admin  chi.Router // nil without a secret
	server *http.Server
	logger *slog.Logger
}

func New(config *config.Config, logger *slog.Logger) *Server {
	middleware.DefaultLogger = middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: log.NewLogAdapterLevel(logger, slog.LevelDebug), NoColor: true})
	router := chi.NewRouter()
	router.Use(middlewareErrorRecoverer(logger))
	router.Use(middleware.Logger)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.StripSlashes)
	if config.API.WriteTimeout > 0 {
		router.Use(middleware.Timeout(config.API.WriteTimeout))
	}
	router.Use(middleware.Heartbeat("/ping"))

	// Public API group
	public := router.Group(func(r chi.Router) {
		r.Use(middleware.NoCache)
	})

	// Admin API group, only served with a secret
	var admin chi.Router
	if config.Secret != "" {
		admin = router.Group(func(r chi.Router) {
			r.Use(middleware.NoCache)
			r.Use(middlewareAuthorization(config.Secret))
		})
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.API.Host, config.API.Port),
		Handler:      router,
		WriteTimeout: config.API.WriteTimeout,
		ReadTimeout:  config.API.ReadTimeout,
		IdleTimeout:  config.API.IdleTimeout,
		ErrorLog:     log.NewLogAdapterLevel(logger, slog.LevelWarn),
	}

	return &Server{
		router: router,
		public: public,
		admin:  admin,
		server: server,
		logger: logger,
	}
}

// Handler - the router, for tests and embedding.
func (srv *Server) Handler() http.Handler {
	return srv.router
}

// AddMetrics serves a scrape endpoint at /metrics. A nil handler is ignored.
func (srv *Server) AddMetrics(handler http.Handler) {
	if handler == nil {
		return
	}
	srv.public.Method(http.MethodGet, "/metrics", handler)
}

// AddHealthCheck adds a health check endpoint to the server.
// The statusFunc function should return a map of status information.
// The map keys will be used as the status names in the response.
// The map values will be used as the status values in the response.
func (srv *Server) AddHealthCheck(statusFunc func(ctx context.Context) (bool, map[string]string)) {
	const bytesInMb = 1024 * 1024

	startedAt := time.Now() // Start time

	srv.public.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		rsp := api.NewResponse()
		ok, status := statusFunc(r.Context())

		var memStats runtime.MemStats

		runtime.ReadMemStats(&memStats)

		data := map[string]any{
			"status": status,
			"uptime": time.Since(startedAt).String(),
			// Allocated memory / Reserved program memory
			"memory":     fmt.Sprintf("%v Mb / %v Mb", memStats.Alloc/bytesInMb, memStats.Sys/bytesInMb),
			"cpu":        runtime.NumCPU(),
			"goroutines": runtime.NumGoroutine(),
		}

		if ok {
			rsp.SetData(data)
			rsp.Ok(w)
		} else {
			rsp.SetError("status_error", "One or more services are not healthy", data)
			rsp.ServiceUnavailable(w)
		}
	})
}

// ListenAndServe starts the server and listens for incoming requests.
func (srv *Server) ListenAndServe() error {
	return srv.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server without interrupting any active connections.
func (srv *Server) Shutdown(ctx context.Context) error {
	return srv.server.Shutdown(ctx)
}

// Close closes the server immediately.
func (srv *Server) Close() error {
	return srv.server.Close()
}

// middlewareAuthorization is a middleware function that checks the Authorization header for a Bearer token.
func middlewareAuthorization(secret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")

			if authHeader == "" {
				api.NewResponse().SetError("unauthorized", "Authorization header is required").Unauthorized(w)

				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == authHeader {
				api.NewResponse().SetError("unauthorized", "Bearer token is required").Unauthorized(w)

				return
			}

			if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				api.NewResponse().SetError("unauthorized", "Invalid Bearer token").Unauthorized(w)

				return
			}

			// Call the next handler
			next.ServeHTTP(w, r)
		})
	}
}

// middlewareErrorRecoverer is a middleware function that recovers from panics and returns an error response.
func middlewareErrorRecoverer(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if e, ok := err.(error); ok {
						if errors.Is(e, http.ErrAbortHandler) {
							// we don't recover http.ErrAbortHandler so the response
							// to the client is aborted, this should not be logged
							panic(err)
						}
					}

					if r.Header.Get("Connection") == "Upgrade" {
						return
					}

					// Log the error
					logger.ErrorContext(r.Context(), "Recovered from panic", slog.String("error", fmt.Sprintf("%v", err)))

					rsp := api.NewResponse()

					rsp.SetError("internal_server_error",
						"Internal Server Error",
						map[string]any{
							"error": fmt.Sprintf("%v", err),
							"stack": string(debug.Stack()),
						},
					)
					rsp.InternalServerError(w)
				}
			}()

			// Call the next handler
			next.ServeHTTP(w, r)
		})
	}
}
