// Command roastd runs the LeetCode roast service, either as an HTTP server or
// as an MCP server on stdio.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/roasbeef/pushclash/internal/build"
	"github.com/roasbeef/pushclash/internal/claude"
	"github.com/roasbeef/pushclash/internal/config"
	"github.com/roasbeef/pushclash/internal/gemini"
	"github.com/roasbeef/pushclash/internal/leetcode"
	"github.com/roasbeef/pushclash/internal/mcp"
	"github.com/roasbeef/pushclash/internal/profilecache"
	"github.com/roasbeef/pushclash/internal/roast"
	"github.com/roasbeef/pushclash/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "roastd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		cfgPath = flag.String("config", "", "Path to YAML config (default: $CONFIG_PATH or ./pushclash.yaml)")
		addr    = flag.String("addr", "", "HTTP listen address, overrides config and $PORT")
		mcpMode = flag.Bool("mcp", false, "Serve MCP on stdio instead of HTTP")
		version = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *version {
		fmt.Println("roastd version", build.Version())
		return nil
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	// Console logs go to stderr since stdout carries MCP traffic.
	logging, err := build.NewLogging(build.LogConfig{
		Level: cfg.Log.Level,
		Rotator: build.RotatorConfig{
			Dir:         cfg.Log.Dir,
			MaxFiles:    cfg.Log.MaxFiles,
			MaxFileSize: cfg.Log.MaxFileSize,
		},
	}, os.Stderr)
	if err != nil {
		return err
	}
	defer logging.Close()

	log := logging.Logger("RSTD")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("Shutting down...")
		cancel()
	}()

	svc, cache, err := newRoastService(ctx, cfg, logging)
	if err != nil {
		return err
	}
	defer cache.Close()

	log.Info("Roast service ready",
		"version", build.Version(),
		"backend", cfg.Roast.Backend,
		"cache_ttl", cfg.Cache.TTL,
	)

	if len(cfg.Cache.WarmUsernames) > 0 {
		go func() {
			_, err := svc.Warm(ctx, cfg.Cache.WarmUsernames, 0)
			if err != nil && ctx.Err() == nil {
				log.Warn("Cache warmup failed", "error", err)
			}
		}()
	}

	if *mcpMode {
		log.Info("Serving MCP on stdio")
		srv := mcp.NewServer(svc, logging.Logger("MCP"))
		return srv.Run(ctx, &sdkmcp.StdioTransport{})
	}

	return serveHTTP(ctx, cfg, svc, cache, logging.Logger("WEB"))
}

// newRoastService wires the cache, the LeetCode client and the configured
// text backend into a roast service.
func newRoastService(ctx context.Context, cfg *config.Config,
	logging *build.Logging) (*roast.Service, *profilecache.Cache, error) {

	backend, err := newBackend(ctx, cfg, logging.Logger("LLM"))
	if err != nil {
		return nil, nil, err
	}

	fetcher := leetcode.NewClient(leetcode.Config{
		Endpoint:  cfg.LeetCode.Endpoint,
		Timeout:   cfg.LeetCode.Timeout,
		RetryMax:  cfg.LeetCode.RetryMax,
		UserAgent: cfg.LeetCode.UserAgent,
	}, logging.Logger("LTCD"))

	cache := profilecache.New(profilecache.Config{
		TTL:           cfg.Cache.TTL,
		MaxEntries:    cfg.Cache.MaxEntries,
		SweepInterval: cfg.Cache.SweepInterval,
	})

	gen := roast.NewGenerator(backend, roast.GeneratorConfig{
		Timeout:       cfg.Roast.GenerateTimeout,
		MaxConcurrent: cfg.Roast.MaxConcurrent,
	}, logging.Logger("GNRT"))

	svc := roast.NewService(roast.ServiceConfig{
		FetchTimeout: cfg.Roast.FetchTimeout,
	}, cache, fetcher, gen, logging.Logger("ROST"))

	return svc, cache, nil
}

// newBackend creates the text backend selected by the config.
func newBackend(ctx context.Context, cfg *config.Config,
	log *slog.Logger) (roast.TextBackend, error) {

	switch cfg.Roast.Backend {
	case config.BackendClaude:
		return claude.New(claude.Config{
			APIKey:     cfg.Claude.APIKey,
			Model:      cfg.Claude.Model,
			MaxRetries: claude.DefaultConfig().MaxRetries,
		}, log)

	default:
		return gemini.New(ctx, gemini.Config{
			APIKey: cfg.Gemini.APIKey,
			Model:  cfg.Gemini.Model,
		}, log)
	}
}

// serveHTTP runs the web server until ctx is cancelled.
func serveHTTP(ctx context.Context, cfg *config.Config, svc *roast.Service,
	cache *profilecache.Cache, log *slog.Logger) error {

	srv := web.NewServer(&web.Config{
		Addr:           cfg.Server.Addr,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
	}, svc, cache.Stats, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err

	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), 10*time.Second,
	)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
