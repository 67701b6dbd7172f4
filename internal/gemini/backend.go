// Package gemini implements a roast text backend on the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"google.golang.org/genai"

	"github.com/roasbeef/pushclash/internal/roast"
)

// DefaultModel is the Gemini model used for roasts.
const DefaultModel = "gemini-2.0-flash-001"

// ErrMissingAPIKey is returned when no API key is configured.
var ErrMissingAPIKey = errors.New("gemini: api key is required")

// Config holds configuration for the Gemini backend.
type Config struct {
	// APIKey authenticates against the Gemini API.
	APIKey string

	// Model is the Gemini model to stream from.
	Model string

	// BaseURL overrides the API endpoint. Empty uses the SDK default.
	BaseURL string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Model: DefaultModel,
	}
}

// Backend streams text from Gemini.
type Backend struct {
	client *genai.Client
	model  string
	log    *slog.Logger
}

// Ensure Backend implements roast.TextBackend at compile time.
var _ roast.TextBackend = (*Backend)(nil)

// New creates a Gemini backend.
func New(ctx context.Context, cfg Config, log *slog.Logger) (*Backend,
	error) {

	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if log == nil {
		log = slog.Default()
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Backend{
		client: client,
		model:  cfg.Model,
		log:    log.With("component", "gemini"),
	}, nil
}

// Name returns the backend name used in logs.
func (b *Backend) Name() string {
	return "gemini/" + b.model
}

// Stream sends req to Gemini and yields the text of every streamed chunk.
func (b *Backend) Stream(ctx context.Context,
	req roast.Request) iter.Seq2[string, error] {

	return func(yield func(string, error) bool) {
		b.log.Debug("Gemini stream started",
			"model", b.model, "max_tokens", req.MaxTokens,
		)

		var chunks int
		stream := b.client.Models.GenerateContentStream(
			ctx, b.model, genai.Text(req.Prompt),
			contentConfig(req),
		)
		for resp, err := range stream {
			if err != nil {
				yield("", fmt.Errorf("gemini stream: %w", err))
				return
			}

			chunks++
			if !yield(resp.Text(), nil) {
				return
			}
		}

		b.log.Debug("Gemini stream finished",
			"model", b.model, "chunks", chunks,
		)
	}
}

// contentConfig maps a roast request onto Gemini generation settings.
func contentConfig(req roast.Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(
			req.System, genai.RoleUser,
		)
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}

	return cfg
}
