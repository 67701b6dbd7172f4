// Package config loads pushclash daemon configuration from an optional YAML
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roasbeef/pushclash/internal/build"
	"github.com/roasbeef/pushclash/internal/claude"
	"github.com/roasbeef/pushclash/internal/gemini"
	"github.com/roasbeef/pushclash/internal/leetcode"
	"github.com/roasbeef/pushclash/internal/profilecache"
	"github.com/roasbeef/pushclash/internal/roast"
)

// Backend names accepted by Roast.Backend.
const (
	BackendGemini = "gemini"
	BackendClaude = "claude"
)

// DefaultConfigPath is read when no path is given and CONFIG_PATH is unset.
// A missing default file is not an error.
const DefaultConfigPath = "pushclash.yaml"

// DefaultAllowedOrigins are the browser origins allowed by CORS.
var DefaultAllowedOrigins = []string{
	"https://pushclash.vercel.app",
	"http://localhost:5173",
	"http://localhost:3000",
	"http://127.0.0.1:5173",
}

// Config is the top-level daemon configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	LeetCode LeetCodeConfig `yaml:"leetcode"`
	Cache    CacheConfig    `yaml:"cache"`
	Roast    RoastConfig    `yaml:"roast"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Claude   ClaudeConfig   `yaml:"claude"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
}

// LeetCodeConfig configures the upstream GraphQL client.
type LeetCodeConfig struct {
	Endpoint  string        `yaml:"endpoint"`
	Timeout   time.Duration `yaml:"timeout"`
	RetryMax  int           `yaml:"retry_max"`
	UserAgent string        `yaml:"user_agent"`
}

// CacheConfig configures the in-memory profile cache.
type CacheConfig struct {
	TTL           time.Duration `yaml:"ttl"`
	MaxEntries    int           `yaml:"max_entries"`
	SweepInterval time.Duration `yaml:"sweep_interval"`

	// WarmUsernames are fetched into the cache at startup.
	WarmUsernames []string `yaml:"warm_usernames"`
}

// RoastConfig configures the roast pipeline.
type RoastConfig struct {
	Backend         string        `yaml:"backend"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout"`
	GenerateTimeout time.Duration `yaml:"generate_timeout"`
	MaxConcurrent   int           `yaml:"max_concurrent"`
}

// GeminiConfig configures the Gemini backend.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// ClaudeConfig configures the Claude backend.
type ClaudeConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`

	// Dir enables the rotating log file when non-empty.
	Dir         string `yaml:"dir"`
	MaxFiles    int    `yaml:"max_files"`
	MaxFileSize int    `yaml:"max_file_size_mb"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	lc := leetcode.DefaultConfig()
	cc := profilecache.DefaultConfig()
	gc := roast.DefaultGeneratorConfig()

	return &Config{
		Server: ServerConfig{
			Addr:           ":3000",
			AllowedOrigins: append([]string(nil), DefaultAllowedOrigins...),
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   90 * time.Second,
		},
		LeetCode: LeetCodeConfig{
			Endpoint:  lc.Endpoint,
			Timeout:   lc.Timeout,
			RetryMax:  lc.RetryMax,
			UserAgent: build.UserAgent("roastd"),
		},
		Cache: CacheConfig{
			TTL:           cc.TTL,
			MaxEntries:    cc.MaxEntries,
			SweepInterval: cc.SweepInterval,
		},
		Roast: RoastConfig{
			Backend:         BackendGemini,
			FetchTimeout:    roast.DefaultFetchTimeout,
			GenerateTimeout: gc.Timeout,
			MaxConcurrent:   gc.MaxConcurrent,
		},
		Gemini: GeminiConfig{
			Model: gemini.DefaultModel,
		},
		Claude: ClaudeConfig{
			Model: claude.DefaultModel,
		},
		Log: LogConfig{
			Level:       "info",
			MaxFiles:    10,
			MaxFileSize: 20,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path and the
// process environment, in that order. An empty path falls back to
// CONFIG_PATH and then DefaultConfigPath.
func Load(path string) (*Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (*Config,
	error) {

	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		if p, ok := lookup("CONFIG_PATH"); ok && p != "" {
			path, explicit = p, true
		} else {
			path = DefaultConfigPath
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}

	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// Defaults only.

	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv(lookup)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv overlays environment variables onto the config.
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if port, ok := lookup("PORT"); ok && port != "" {
		c.Server.Addr = ":" + port
	}
	if origins, ok := lookup("ALLOWED_ORIGINS"); ok && origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}
	if key, ok := lookup("GEMINI_API_KEY"); ok && key != "" {
		c.Gemini.APIKey = key
	}
	if key, ok := lookup("ANTHROPIC_API_KEY"); ok && key != "" {
		c.Claude.APIKey = key
	}
	if backend, ok := lookup("ROAST_BACKEND"); ok && backend != "" {
		c.Roast.Backend = strings.ToLower(strings.TrimSpace(backend))
	}
	if level, ok := lookup("LOG_LEVEL"); ok && level != "" {
		c.Log.Level = level
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Roast.Backend {
	case BackendGemini, BackendClaude:
	default:
		return fmt.Errorf("%w: unknown roast backend %q",
			ErrInvalidConfig, c.Roast.Backend)
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server address is empty", ErrInvalidConfig)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("%w: cache ttl must be positive",
			ErrInvalidConfig)
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("%w: cache max_entries must not be negative",
			ErrInvalidConfig)
	}
	if c.LeetCode.RetryMax < 0 {
		return fmt.Errorf("%w: leetcode retry_max must not be negative",
			ErrInvalidConfig)
	}
	if c.Roast.MaxConcurrent <= 0 {
		return fmt.Errorf("%w: roast max_concurrent must be positive",
			ErrInvalidConfig)
	}

	return nil
}

// APIKey returns the key configured for the selected backend.
func (c *Config) APIKey() string {
	if c.Roast.Backend == BackendClaude {
		return c.Claude.APIKey
	}

	return c.Gemini.APIKey
}

// splitList parses a comma separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
