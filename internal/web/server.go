// Package web provides the HTTP surface of the roast service: the JSON roast
// route, the websocket stream and the health endpoints.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/roasbeef/pushclash/internal/profilecache"
	"github.com/roasbeef/pushclash/internal/roast"
)

// Roaster runs roast requests.
type Roaster interface {
	// Prepare resolves a username without generating text.
	Prepare(ctx context.Context, username string) (*roast.Prepared, error)

	// Roast runs the full pipeline.
	Roast(ctx context.Context, username string) (*roast.Response, error)
}

// StatsFunc reports profile cache statistics.
type StatsFunc func() profilecache.Stats

// Config holds configuration for the web server.
type Config struct {
	Addr string

	// AllowedOrigins are the browser origins allowed by CORS and the
	// websocket origin check.
	AllowedOrigins []string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:         ":3000",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
	}
}

// Server is the HTTP server for the roast service.
type Server struct {
	cfg     *Config
	roaster Roaster
	stats   StatsFunc
	origins map[string]struct{}
	log     *slog.Logger
	started time.Time

	mux *http.ServeMux
	srv *http.Server
}

// NewServer creates a new web server. stats may be nil.
func NewServer(cfg *Config, roaster Roaster, stats StatsFunc,
	log *slog.Logger) *Server {

	if log == nil {
		log = slog.Default()
	}

	origins := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		origins[o] = struct{}{}
	}

	s := &Server{
		cfg:     cfg,
		roaster: roaster,
		stats:   stats,
		origins: origins,
		log:     log.With("component", "web"),
		started: time.Now(),
		mux:     http.NewServeMux(),
	}
	s.registerRoutes()

	s.srv = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.withRequestID(s.withCORS(s.mux))
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}

	return s.Serve(ln)
}

// Serve serves on ln until Shutdown. If Shutdown already ran, it returns
// nil at once.
func (s *Server) Serve(ln net.Listener) error {
	s.log.Info("Web server listening", "addr", ln.Addr().String())

	err := s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

// Shutdown gracefully shuts down the server. It is safe to call before or
// concurrently with Serve.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleRoot)
	s.mux.HandleFunc("GET /api/wake", s.handleWake)
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/v1/cache/stats", s.handleCacheStats)

	s.mux.HandleFunc("POST /api/leetcode-roast", s.handleRoast)
	s.mux.HandleFunc("GET /api/leetcode-roast/stream", s.handleRoastStream)
}
