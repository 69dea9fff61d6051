package api

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summary/config"
	"github.com/nijaru/yt-summary/middleware"
	"github.com/nijaru/yt-summary/models"
	"github.com/nijaru/yt-summary/repository"
	"github.com/nijaru/yt-summary/services/summary"
	"github.com/nijaru/yt-summary/services/video"
)

type Server struct {
	summary   *SummaryHandler
	history   *HistoryHandler
	engine    summary.Service
	config    *config.Config
	logger    *logrus.Logger
	server    *http.Server
	startTime time.Time
}

type ServerOption func(*Server)

// NewServer creates a new API server with the provided services and options
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
		Addr:         cfg.Server.Addr(),
		Handler:      s.routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

// WithServices sets up the handlers with the provided services
func WithServices(videoSvc video.Service, engine summary.Service) ServerOption {
	return func(s *Server) {
		s.summary = NewSummaryHandler(videoSvc)
		s.engine = engine
	}
}

// WithHistory exposes the outcome ledger under /history.
func WithHistory(repo repository.OutcomeRepository) ServerOption {
	return func(s *Server) {
		if repo != nil {
			s.history = NewHistoryHandler(repo)
		}
	}
}

// WithLogger sets a custom logger for the server
func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	s.logger.WithFields(logrus.Fields{
		"addr":    s.server.Addr,
		"version": s.config.Version,
	}).Info("Starting server")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)

	if s.summary != nil {
		mux.HandleFunc("POST /summarize", s.summary.HandleSummarize)
	}

	if s.history != nil {
		mux.HandleFunc("GET /history", s.history.HandleList)
		mux.HandleFunc("GET /history/{id}", s.history.HandleGet)
	}

	return s.middleware(mux)
}

func (s *Server) middleware(handler http.Handler) http.Handler {
	var rateLimiter middleware.RateLimiter
	if s.config.RateLimit.Enabled {
		rateLimiter = middleware.NewRateLimiter(
			s.config.RateLimit.RequestsPerMinute,
			s.config.RateLimit.BurstSize,
		)
	}

	middlewares := []func(http.Handler) http.Handler{
		middleware.Recovery(s.logger),
		middleware.RequestID(),
		middleware.Logging(s.logger),
		middleware.CORS(s.config.CORS),
	}

	if rateLimiter != nil {
		middlewares = append(middlewares, rateLimiter.Middleware)
	}

	return middleware.Chain(handler, middlewares...)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, models.StatusResponse{
		Message: "YouTube Summarizer API is running",
		Status:  "active",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	loaded := s.engine != nil && s.engine.Loaded()

	if s.config.Debug {
		middleware.GetLogger(r.Context()).WithFields(logrus.Fields{
			"uptime":       time.Since(s.startTime).String(),
			"model_loaded": loaded,
		}).Debug("Health check")
	}

	respondJSON(w, r, http.StatusOK, models.HealthResponse{
		Status:      "healthy",
		ModelLoaded: loaded,
	})
}
