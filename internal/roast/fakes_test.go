package roast

import (
	"context"
	"iter"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/roasbeef/pushclash/internal/profile"
	"github.com/roasbeef/pushclash/internal/profilecache"
)

// fakeClock is a manually advanced clock for the profile cache.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.now = f.now.Add(d)
}

// fakeFetcher returns canned outcomes and counts calls per username.
type fakeFetcher struct {
	mu       sync.Mutex
	outcomes map[string]profile.Outcome
	calls    map[string]int

	// gate, when set, blocks every fetch until it is closed.
	gate chan struct{}
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		outcomes: make(map[string]profile.Outcome),
		calls:    make(map[string]int),
	}
}

func (f *fakeFetcher) set(username string, outcome profile.Outcome) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.outcomes[username] = outcome
}

func (f *fakeFetcher) Fetch(ctx context.Context,
	username string) profile.Outcome {

	f.mu.Lock()
	f.calls[username]++
	gate := f.gate
	outcome, ok := f.outcomes[username]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if !ok {
		return profile.NotFound{Username: username}
	}

	return outcome
}

func (f *fakeFetcher) callsFor(username string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[username]
}

func (f *fakeFetcher) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int
	for _, c := range f.calls {
		n += c
	}

	return n
}

// fakeBackend streams fixed fragments, or fails after them.
type fakeBackend struct {
	fragments []string
	err       error

	calls    atomic.Int32
	mu       sync.Mutex
	requests []Request
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) Stream(ctx context.Context,
	req Request) iter.Seq2[string, error] {

	b.calls.Add(1)
	b.mu.Lock()
	b.requests = append(b.requests, req)
	b.mu.Unlock()

	return func(yield func(string, error) bool) {
		for _, frag := range b.fragments {
			if !yield(frag, nil) {
				return
			}
		}
		if b.err != nil {
			yield("", b.err)
		}
	}
}

func (b *fakeBackend) lastRequest() Request {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.requests[len(b.requests)-1]
}

// aliceProfile is the normalized form of the canonical success fixture.
func aliceProfile() *profile.Profile {
	return &profile.Profile{
		Username:       "alice",
		Name:           "Alice A",
		Avatar:         "https://assets.leetcode.com/alice.png",
		Ranking:        fn.Some(123456),
		StarRating:     2.5,
		Rating:         2.5,
		TotalSolved:    16,
		EasySolved:     10,
		MediumSolved:   5,
		HardSolved:     1,
		AcceptanceRate: 50.0,
	}
}

type testHarness struct {
	clock   *fakeClock
	cache   *profilecache.Cache
	fetcher *fakeFetcher
	backend *fakeBackend
	svc     *Service
}

func newTestHarness() *testHarness {
	clock := newFakeClock()
	cache := profilecache.New(profilecache.Config{
		TTL: profilecache.DefaultTTL,
		Now: clock.Now,
	})

	fetcher := newFakeFetcher()
	fetcher.set("alice", profile.Success{Profile: aliceProfile()})
	fetcher.set("flaky", profile.UpstreamFailure{
		Username: "flaky", Cause: context.DeadlineExceeded,
	})

	backend := &fakeBackend{
		fragments: []string{"You solved ", "16 problems. ", "Cute."},
	}
	gen := NewGenerator(backend, DefaultGeneratorConfig(), nil)

	return &testHarness{
		clock:   clock,
		cache:   cache,
		fetcher: fetcher,
		backend: backend,
		svc: NewService(
			DefaultServiceConfig(), cache, fetcher, gen, nil,
		),
	}
}
