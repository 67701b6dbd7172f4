package roast

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/roasbeef/pushclash/internal/profile"
)

const (
	// DefaultGenerateTimeout bounds one full generation.
	DefaultGenerateTimeout = 60 * time.Second

	// DefaultMaxConcurrent is the max simultaneous backend calls.
	DefaultMaxConcurrent = 4
)

// GeneratorConfig holds configuration for the generator.
type GeneratorConfig struct {
	// Timeout bounds a whole generation, from the first byte to the
	// last fragment. Zero disables the bound.
	Timeout time.Duration

	// MaxConcurrent is the max simultaneous backend calls.
	MaxConcurrent int
}

// DefaultGeneratorConfig returns a GeneratorConfig with sensible defaults.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Timeout:       DefaultGenerateTimeout,
		MaxConcurrent: DefaultMaxConcurrent,
	}
}

// Generator turns fetch outcomes into streamed roast text.
type Generator struct {
	backend TextBackend
	timeout time.Duration
	log     *slog.Logger

	// sem limits concurrent backend calls.
	sem chan struct{}
}

// NewGenerator creates a generator on top of backend.
func NewGenerator(backend TextBackend, cfg GeneratorConfig,
	log *slog.Logger) *Generator {

	if log == nil {
		log = slog.Default()
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = DefaultMaxConcurrent
	}

	return &Generator{
		backend: backend,
		timeout: cfg.Timeout,
		log:     log.With("component", "generator"),
		sem:     make(chan struct{}, cfg.MaxConcurrent),
	}
}

// Generate returns a one-shot sequence of text fragments for outcome. The
// backend is only contacted once the sequence is ranged over. Backend
// failures are yielded once, wrapped in ErrGenerationFailed, and end the
// sequence. Cancelling ctx ends it with ctx.Err() instead. Ranging a second
// time yields ErrStreamConsumed.
func (g *Generator) Generate(ctx context.Context,
	outcome profile.Outcome) iter.Seq2[string, error] {

	var consumed atomic.Bool

	return func(yield func(string, error) bool) {
		if consumed.Swap(true) {
			yield("", ErrStreamConsumed)
			return
		}

		req, err := buildRequest(outcome)
		if err != nil {
			yield("", err)
			return
		}

		genCtx := ctx
		if g.timeout > 0 {
			var cancel context.CancelFunc
			genCtx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}

		// Acquire semaphore.
		select {
		case g.sem <- struct{}{}:
			defer func() { <-g.sem }()
		case <-genCtx.Done():
			yield("", g.failed(ctx, outcome, genCtx.Err()))
			return
		}

		start := time.Now()
		var fragments int
		for frag, err := range g.backend.Stream(genCtx, req) {
			if err != nil {
				yield("", g.failed(ctx, outcome, err))
				return
			}
			if frag == "" {
				continue
			}

			fragments++
			if !yield(frag, nil) {
				g.log.Debug("Roast stream abandoned by consumer",
					"username", outcome.Identifier(),
					"fragments", fragments,
				)
				return
			}
		}

		if fragments == 0 {
			yield("", g.failed(
				ctx, outcome, fmt.Errorf("backend returned no text"),
			))
			return
		}

		g.log.Debug("Roast generated",
			"username", outcome.Identifier(),
			"kind", outcome.Kind(),
			"backend", g.backend.Name(),
			"fragments", fragments,
			"elapsed", time.Since(start),
		)
	}
}

// failed logs a backend failure and wraps it in ErrGenerationFailed. If the
// caller's ctx is done the sequence was abandoned, and ctx.Err() is returned
// unwrapped.
func (g *Generator) failed(ctx context.Context, outcome profile.Outcome,
	err error) error {

	if ctxErr := ctx.Err(); ctxErr != nil {
		g.log.Debug("Roast generation cancelled by caller",
			"username", outcome.Identifier(),
			"backend", g.backend.Name(),
			"error", err,
		)

		return ctxErr
	}

	g.log.Error("Roast generation failed",
		"username", outcome.Identifier(),
		"kind", outcome.Kind(),
		"backend", g.backend.Name(),
		"error", err,
	)

	return fmt.Errorf("%w: %w", ErrGenerationFailed, err)
}

// Drain concatenates every fragment of seq. It stops at the first error.
func Drain(seq iter.Seq2[string, error]) (string, error) {
	var text strings.Builder
	for frag, err := range seq {
		if err != nil {
			return "", err
		}
		text.WriteString(frag)
	}

	return text.String(), nil
}
