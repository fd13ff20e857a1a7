package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Spok95/storekeeper/internal/infra/metrics"
)

type Server struct {
	srv *http.Server
}

// New собирает mux: /health, /metrics (если включено) и /api/*.
func New(addr string, log *slog.Logger, api *Handler, exposeMetrics bool) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if exposeMetrics {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	if api != nil {
		api.Register(mux)
	}

	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           withRequestLog(log, mux),
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
