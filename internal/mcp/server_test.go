package mcp

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/roasbeef/pushclash/internal/profile"
	"github.com/roasbeef/pushclash/internal/roast"
)

// stubRoaster answers any name, rejects blank names and returns err when
// set.
type stubRoaster struct {
	err error
}

func (r stubRoaster) Roast(_ context.Context,
	username string) (*roast.Response, error) {

	if username == "" {
		return nil, roast.ErrInvalidInput
	}
	if r.err != nil {
		return nil, r.err
	}

	ranking := 123456
	return &roast.Response{
		User: roast.UserView{Username: username, Name: "Alice A"},
		Stats: roast.StatsView{
			TotalSolved:    16,
			AcceptanceRate: 50.0,
			Ranking:        &ranking,
		},
		RoastResult: "16 problems. Cute.",
		Outcome:     profile.KindSuccess,
	}, nil
}

// connect starts the server on an in-memory transport and returns a client
// session.
func connect(t *testing.T, roaster Roaster) *mcp.ClientSession {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv := NewServer(roaster, nil)
	clientT, serverT := mcp.NewInMemoryTransports()

	go func() {
		_ = srv.Run(ctx, serverT)
	}()

	client := mcp.NewClient(&mcp.Implementation{
		Name: "test-client", Version: "v0.0.1",
	}, nil)
	session, err := client.Connect(ctx, clientT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return session
}

// TestNewServer verifies that the tool schemas are valid.
func TestNewServer(t *testing.T) {
	t.Parallel()

	require.NotNil(t, NewServer(stubRoaster{}, nil))
}

func TestListTools(t *testing.T) {
	t.Parallel()

	session := connect(t, stubRoaster{})

	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, res.Tools, 1)
	require.Equal(t, "roast_leetcode_profile", res.Tools[0].Name)
}

func TestRoastTool(t *testing.T) {
	t.Parallel()

	session := connect(t, stubRoaster{})

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "roast_leetcode_profile",
		Arguments: map[string]any{"username": "alice"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	out, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "alice", out["username"])
	require.Equal(t, "success", out["outcome"])
	require.EqualValues(t, 16, out["total_solved"])
	require.EqualValues(t, 123456, out["ranking"])
	require.Equal(t, "16 problems. Cute.", out["roast"])
}

// callRoast calls the roast tool for username.
func callRoast(t *testing.T, session *mcp.ClientSession,
	username string) *mcp.CallToolResult {

	t.Helper()

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "roast_leetcode_profile",
		Arguments: map[string]any{"username": username},
	})
	require.NoError(t, err)

	return res
}

// toolErrorText returns the text of a failed tool call.
func toolErrorText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()

	require.True(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)

	return text.Text
}

func TestRoastToolErrors(t *testing.T) {
	t.Parallel()

	const secret = "AIza-SECRET"
	backendErr := errors.New("gemini stream: 401 API key " + secret)

	tests := []struct {
		name     string
		err      error
		username string
		want     string
	}{
		{
			name:     "invalid input",
			username: "",
			want:     msgUsernameRequired,
		},
		{
			name:     "generation failed",
			username: "alice",
			err: fmt.Errorf("%w: %w",
				roast.ErrGenerationFailed, backendErr),
			want: msgRoastFailed,
		},
		{
			name:     "unexpected",
			username: "alice",
			err:      fmt.Errorf("resolve alice: %w", backendErr),
			want:     msgRoastFailed,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			session := connect(t, stubRoaster{err: tc.err})

			text := toolErrorText(t, callRoast(t, session, tc.username))
			require.Equal(t, tc.want, text)
			require.NotContains(t, text, secret)
		})
	}
}
