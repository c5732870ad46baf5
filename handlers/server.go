package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"yt-summarizer/config"
	"yt-summarizer/middleware"
	"yt-summarizer/services/summary"
	"yt-summarizer/validation"
)

type Server struct {
	summary   *SummaryHandler
	config    *config.Config
	logger    *logrus.Logger
	server    *http.Server
	startTime time.Time
}

type ServerOption func(*Server)

func NewServer(cfg *config.Config, opts ...ServerOption) *Server {
	s := &Server{
		config:    cfg,
		logger:    logrus.StandardLogger(),
		startTime: time.Now(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// WithService wires the summary service into the HTTP handlers.
func WithService(summarySvc summary.Service) ServerOption {
	return func(s *Server) {
		s.summary = NewSummaryHandler(summarySvc, validation.NewValidator())
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

func (s *Server) Start() error {
	s.logger.WithField("port", s.config.ServerPort).Info("Starting server")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/summarize", s.summary.HandleSummarize)
	mux.HandleFunc("GET /api/summaries", s.summary.HandleListSummaries)
	mux.HandleFunc("GET /api/summaries/{video_id}", s.summary.HandleGetSummary)
	mux.HandleFunc("DELETE /api/summaries/{video_id}", s.summary.HandleDeleteSummary)
	mux.HandleFunc("DELETE /api/summaries", s.summary.HandleDeleteAllSummaries)

	mux.HandleFunc("GET /health", s.handleHealth)

	return s.middleware(mux)
}

func (s *Server) middleware(handler http.Handler) http.Handler {
	middlewares := []func(http.Handler) http.Handler{
		middleware.Recovery(s.logger),
		middleware.RequestID(),
		middleware.Logging(s.logger),
		middleware.CORS(s.config.CORS),
		middleware.Timeout(s.config.RequestTimeout),
	}

	if s.config.RateLimit.Enabled {
		rateLimiter := middleware.NewRateLimiter(s.config.RateLimit)
		middlewares = append(middlewares, rateLimiter.Middleware)
	}

	return middleware.Chain(handler, middlewares...)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startTime).String(),
	}

	if s.config.Debug {
		status["goroutines"] = runtime.NumGoroutine()
	}

	respondJSON(w, r, http.StatusOK, status)
}
