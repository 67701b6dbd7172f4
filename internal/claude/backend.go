// Package claude implements a roast text backend on the Anthropic Messages
// API.
package claude

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/roasbeef/pushclash/internal/roast"
)

// DefaultModel is the Claude model used for roasts.
const DefaultModel = "claude-haiku-4-5-20251001"

// ErrMissingAPIKey is returned when no API key is configured.
var ErrMissingAPIKey = errors.New("claude: api key is required")

// Config holds configuration for the Claude backend.
type Config struct {
	// APIKey authenticates against the Anthropic API.
	APIKey string

	// Model is the Claude model to stream from.
	Model string

	// BaseURL overrides the API endpoint. Empty uses the SDK default.
	BaseURL string

	// MaxRetries is the SDK retry budget for failed requests.
	MaxRetries int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Model:      DefaultModel,
		MaxRetries: 2,
	}
}

// Backend streams text from Claude.
type Backend struct {
	client anthropic.Client
	model  string
	log    *slog.Logger
}

// Ensure Backend implements roast.TextBackend at compile time.
var _ roast.TextBackend = (*Backend)(nil)

// New creates a Claude backend.
func New(cfg Config, log *slog.Logger) (*Backend, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if log == nil {
		log = slog.Default()
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Backend{
		client: anthropic.NewClient(opts...),
		model:  cfg.Model,
		log:    log.With("component", "claude"),
	}, nil
}

// Name returns the backend name used in logs.
func (b *Backend) Name() string {
	return "claude/" + b.model
}

// Stream sends req to Claude and yields every text delta.
func (b *Backend) Stream(ctx context.Context,
	req roast.Request) iter.Seq2[string, error] {

	return func(yield func(string, error) bool) {
		b.log.Debug("Claude stream started",
			"model", b.model, "max_tokens", req.MaxTokens,
		)

		stream := b.client.Messages.NewStreaming(ctx, messageParams(
			b.model, req,
		))
		defer stream.Close()

		var deltas int

		for stream.Next() {
			event := stream.Current()

			switch ev := event.AsAny().(type) {
			case anthropic.ContentBlockDeltaEvent:
				delta, ok := ev.Delta.AsAny().(anthropic.TextDelta)
				if !ok {
					continue
				}

				deltas++
				if !yield(delta.Text, nil) {
					return
				}

			case anthropic.MessageStopEvent:
				// Terminal event.

			default:
				// Start, stop and ping events carry no text.
			}
		}

		if err := stream.Err(); err != nil {
			yield("", fmt.Errorf("claude stream: %w", err))
			return
		}

		b.log.Debug("Claude stream finished",
			"model", b.model, "deltas", deltas,
		)
	}
}

// messageParams maps a roast request onto a Messages API request.
func messageParams(model string,
	req roast.Request) anthropic.MessageNewParams {

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(req.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	return params
}
