package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server is the ops HTTP surface: health, metrics, and in webhook mode the
// Telegram update endpoint.
type Server struct {
	pool   *pgxpool.Pool
	log    *zerolog.Logger
	server *http.Server
	router chi.Router
}

func NewServer(port int, pool *pgxpool.Pool, logger *zerolog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(TraceID(), RequestLog(logger), Recover(logger))

	s := &Server{
		pool:   pool,
		log:    logger,
		router: r,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		},
	}

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return s
}

// MountWebhook attaches the Telegram update handler (webhook mode only).
func (s *Server) MountWebhook(path string, handler http.HandlerFunc) {
	s.router.Post(path, handler)
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("ops server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.pool != nil {
		if err := s.pool.Ping(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
