package roast

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/roasbeef/pushclash/internal/profile"
)

// DefaultWarmConcurrency is the number of parallel fetches used by Warm.
const DefaultWarmConcurrency = 4

// WarmReport summarizes a cache warmup.
type WarmReport struct {
	Cached   int
	NotFound int
	Failed   int
}

// Warm fetches each username into the profile cache without generating any
// text. Unknown users and upstream failures are counted, not returned.
// Blank names are skipped.
func (s *Service) Warm(ctx context.Context, usernames []string,
	concurrency int) (WarmReport, error) {

	if concurrency <= 0 {
		concurrency = DefaultWarmConcurrency
	}

	kinds := make([]profile.Kind, len(usernames))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, username := range usernames {
		username = strings.TrimSpace(username)
		if username == "" {
			continue
		}

		g.Go(func() error {
			outcome, err := s.resolve(gctx, username)
			if err != nil {
				return err
			}
			kinds[i] = outcome.Kind()

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return WarmReport{}, err
	}

	var report WarmReport
	for _, kind := range kinds {
		switch kind {
		case profile.KindSuccess:
			report.Cached++
		case profile.KindNotFound:
			report.NotFound++
		case profile.KindUpstreamFailure:
			report.Failed++
		}
	}

	s.log.Info("Profile cache warmed",
		"cached", report.Cached,
		"not_found", report.NotFound,
		"failed", report.Failed,
	)

	return report, nil
}
