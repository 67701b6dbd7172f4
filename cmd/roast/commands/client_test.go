package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"iter"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/require"

	"github.com/roasbeef/pushclash/internal/profile"
	"github.com/roasbeef/pushclash/internal/profilecache"
	"github.com/roasbeef/pushclash/internal/roast"
	"github.com/roasbeef/pushclash/internal/web"
)

type aliceFetcher struct{}

func (aliceFetcher) Fetch(_ context.Context, username string) profile.Outcome {
	if username != "alice" {
		return profile.NotFound{Username: username}
	}

	return profile.Success{Profile: &profile.Profile{
		Username:       "alice",
		Name:           "Alice A",
		Ranking:        fn.Some(123456),
		TotalSolved:    16,
		EasySolved:     10,
		MediumSolved:   5,
		HardSolved:     1,
		AcceptanceRate: 50.0,
	}}
}

type cannedBackend struct{}

func (cannedBackend) Name() string { return "canned" }

func (cannedBackend) Stream(context.Context,
	roast.Request) iter.Seq2[string, error] {

	return func(yield func(string, error) bool) {
		for _, frag := range []string{"16 problems? ", "Adorable."} {
			if !yield(frag, nil) {
				return
			}
		}
	}
}

// newTestDaemon starts an in-process roastd HTTP surface.
func newTestDaemon(t *testing.T) string {
	t.Helper()

	cache := profilecache.New(profilecache.DefaultConfig())
	gen := roast.NewGenerator(
		cannedBackend{}, roast.DefaultGeneratorConfig(), nil,
	)
	svc := roast.NewService(
		roast.DefaultServiceConfig(), cache, aliceFetcher{}, gen, nil,
	)

	srv := httptest.NewServer(
		web.NewServer(web.DefaultConfig(), svc, cache.Stats, nil).Handler(),
	)
	t.Cleanup(srv.Close)

	return srv.URL
}

func TestNewClientValidatesURL(t *testing.T) {
	for _, bad := range []string{"localhost:3000", "ftp://x", "://"} {
		_, err := NewClient(bad)
		require.Error(t, err, bad)
	}

	_, err := NewClient("http://localhost:3000/")
	require.NoError(t, err)
}

func TestClientRoast(t *testing.T) {
	client, err := NewClient(newTestDaemon(t))
	require.NoError(t, err)

	resp, err := client.Roast(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, profile.KindSuccess, resp.Outcome)
	require.Equal(t, 16, resp.Stats.TotalSolved)
	require.Equal(t, "16 problems? Adorable.", resp.RoastResult)
}

func TestClientRoastInvalidInput(t *testing.T) {
	client, err := NewClient(newTestDaemon(t))
	require.NoError(t, err)

	_, err = client.Roast(context.Background(), " ")
	require.ErrorIs(t, err, ErrServer)
	require.ErrorContains(t, err, "Username is required")
	require.ErrorContains(t, err, "400")
}

func TestClientHealth(t *testing.T) {
	client, err := NewClient(newTestDaemon(t))
	require.NoError(t, err)

	health, err := client.Health(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
}

func TestClientStreamRoast(t *testing.T) {
	client, err := NewClient(newTestDaemon(t))
	require.NoError(t, err)

	var types []string
	var text strings.Builder
	err = client.StreamRoast(context.Background(), "alice",
		func(msg web.StreamMessage) {
			types = append(types, msg.Type)
			text.WriteString(msg.Text)
		},
	)
	require.NoError(t, err)
	require.Equal(t, []string{
		web.StreamMsgHeader, web.StreamMsgFragment,
		web.StreamMsgFragment, web.StreamMsgDone,
	}, types)
	require.Equal(t, "16 problems? Adorable.", text.String())

	err = client.StreamRoast(context.Background(), "",
		func(web.StreamMessage) {},
	)
	require.ErrorIs(t, err, ErrServer)
}

// runCLI executes the root command with args and returns its output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		outputFormat = "text"
		streamOutput = false
		serverURL = defaultServerURL
	})

	err := rootCmd.ExecuteContext(context.Background())

	return out.String(), err
}

func TestProfileCommandText(t *testing.T) {
	url := newTestDaemon(t)

	out, err := runCLI(t, "--server", url, "profile", "alice")
	require.NoError(t, err)
	require.Contains(t, out, "Alice A (@alice)")
	require.Contains(t, out, "Solved: 16 (easy 10, medium 5, hard 1)")
	require.Contains(t, out, "Acceptance: 50.0%")
	require.Contains(t, out, "Ranking: #123456")
	require.Contains(t, out, "16 problems? Adorable.")
}

func TestProfileCommandJSON(t *testing.T) {
	url := newTestDaemon(t)

	out, err := runCLI(t,
		"--server", url, "--format", "json", "profile", "ghost",
	)
	require.NoError(t, err)

	var resp roast.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, profile.KindNotFound, resp.Outcome)
	require.Nil(t, resp.Stats.Ranking)
}

func TestProfileCommandStream(t *testing.T) {
	url := newTestDaemon(t)

	out, err := runCLI(t, "--server", url, "profile", "--stream", "alice")
	require.NoError(t, err)
	require.Contains(t, out, "Alice A (@alice)")
	require.Contains(t, out, "16 problems? Adorable.\n")
}

func TestFormatHeaderPlaceholders(t *testing.T) {
	user := roast.UserView{Username: "ghost", Name: "ghost"}

	out := formatHeader(user, roast.StatsView{}, profile.KindNotFound)
	require.Contains(t, out, "No such LeetCode user.")
	require.NotContains(t, out, "Solved")

	out = formatHeader(
		user, roast.StatsView{}, profile.KindUpstreamFailure,
	)
	require.Contains(t, out, "could not be reached")
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "roast version "))
}
