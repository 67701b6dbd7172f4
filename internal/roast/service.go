// Package roast turns a LeetCode username into a generated roast. It owns
// the request pipeline: cache lookup, fetch on miss, cache write-through,
// generation and response assembly.
package roast

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/roasbeef/pushclash/internal/profile"
	"github.com/roasbeef/pushclash/internal/profilecache"
)

// DefaultFetchTimeout bounds a single upstream profile fetch.
const DefaultFetchTimeout = 15 * time.Second

// Fetcher retrieves and classifies a profile. Implementations never return
// errors; failures are reported as outcome variants.
type Fetcher interface {
	Fetch(ctx context.Context, username string) profile.Outcome
}

// ProfileCache is the subset of the profile cache the service needs.
type ProfileCache interface {
	Get(key string) (profilecache.Entry, bool)
	Put(key string, p *profile.Profile)
}

// ServiceConfig holds configuration for the roast service.
type ServiceConfig struct {
	// FetchTimeout bounds a single upstream fetch.
	FetchTimeout time.Duration
}

// DefaultServiceConfig returns a ServiceConfig with sensible defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		FetchTimeout: DefaultFetchTimeout,
	}
}

// Service orchestrates a roast request.
type Service struct {
	cfg     ServiceConfig
	cache   ProfileCache
	fetcher Fetcher
	gen     *Generator
	log     *slog.Logger

	// flights coalesces concurrent misses for the same username into a
	// single upstream fetch.
	flights singleflight.Group
}

// NewService creates a new roast service.
func NewService(cfg ServiceConfig, cache ProfileCache, fetcher Fetcher,
	gen *Generator, log *slog.Logger) *Service {

	if log == nil {
		log = slog.Default()
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}

	return &Service{
		cfg:     cfg,
		cache:   cache,
		fetcher: fetcher,
		gen:     gen,
		log:     log.With("component", "roast"),
	}
}

// Prepared is a resolved roast request whose text has not been generated
// yet. The identity and stats blocks are final.
type Prepared struct {
	Outcome profile.Outcome
	User    UserView
	Stats   StatsView

	gen *Generator
}

// Fragments starts generation and returns the one-shot fragment sequence.
func (p *Prepared) Fragments(ctx context.Context) iter.Seq2[string, error] {
	return p.gen.Generate(ctx, p.Outcome)
}

// Prepare validates username and resolves its outcome through the cache or
// the upstream fetcher.
func (s *Service) Prepare(ctx context.Context,
	username string) (*Prepared, error) {

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidInput
	}

	outcome, err := s.resolve(ctx, username)
	if err != nil {
		return nil, err
	}

	user, stats := viewsFor(username, outcome)

	return &Prepared{
		Outcome: outcome,
		User:    user,
		Stats:   stats,
		gen:     s.gen,
	}, nil
}

// Roast runs the full pipeline and returns the assembled response. Upstream
// failures and unknown users still produce a response; only generation
// failures and unexpected errors are returned.
func (s *Service) Roast(ctx context.Context,
	username string) (*Response, error) {

	prepared, err := s.Prepare(ctx, username)
	if err != nil {
		return nil, err
	}

	text, err := Drain(prepared.Fragments(ctx))
	if err != nil {
		return nil, err
	}

	resp := &Response{
		User:        prepared.User,
		Stats:       prepared.Stats,
		RoastResult: text,
		Outcome:     prepared.Outcome.Kind(),
	}

	html, err := RenderHTML(text)
	if err != nil {
		s.log.Warn("Failed to render roast HTML",
			"username", prepared.User.Username, "error", err,
		)
	} else {
		resp.RoastHTML = html
	}

	return resp, nil
}

// resolve returns the cached profile or fetches it. Concurrent misses for
// the same username share one fetch. A successful fetch is written to the
// cache before any caller sees the outcome.
func (s *Service) resolve(ctx context.Context,
	username string) (profile.Outcome, error) {

	if entry, ok := s.cache.Get(username); ok {
		s.log.Debug("Profile cache hit", "username", username)
		return profile.Success{Profile: entry.Profile}, nil
	}

	ch := s.flights.DoChan(username, func() (any, error) {
		// Another flight may have filled the cache while this one was
		// being scheduled.
		if entry, ok := s.cache.Get(username); ok {
			return profile.Success{Profile: entry.Profile}, nil
		}

		// The fetch is shared, so it must not die with whichever
		// caller happened to start it.
		fetchCtx, cancel := context.WithTimeout(
			context.WithoutCancel(ctx), s.cfg.FetchTimeout,
		)
		defer cancel()

		outcome := s.fetcher.Fetch(fetchCtx, username)
		if success, ok := outcome.(profile.Success); ok {
			s.cache.Put(username, success.Profile)
		}

		s.log.Info("Profile fetched",
			"username", username, "outcome", outcome.Kind(),
		)

		return outcome, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}

		outcome, ok := res.Val.(profile.Outcome)
		if !ok {
			return nil, fmt.Errorf("unexpected fetch result: %T",
				res.Val)
		}

		return outcome, nil

	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
