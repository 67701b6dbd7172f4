package leetcode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roasbeef/pushclash/internal/profile"
)

const aliceResponse = `{
  "data": {
    "matchedUser": {
      "username": "alice",
      "githubUrl": "https://github.com/alice",
      "linkedinUrl": "",
      "twitterUrl": null,
      "profile": {
        "realName": "Alice Liddell",
        "userAvatar": "https://assets.leetcode.com/alice.png",
        "aboutMe": "down the rabbit hole",
        "countryName": "United Kingdom",
        "company": "Wonderland",
        "school": null,
        "jobTitle": "Explorer",
        "ranking": 123456,
        "reputation": 7,
        "starRating": 2.5
      },
      "badges": [
        {"id": "1", "name": "50 Days", "displayName": "50 Days Badge 2024", "icon": "", "creationDate": "2024-03-01"}
      ],
      "submitStats": {
        "acSubmissionNum": [
          {"difficulty": "Easy", "count": 10, "submissions": 14},
          {"difficulty": "Medium", "count": 5, "submissions": 9},
          {"difficulty": "Hard", "count": 1, "submissions": 3}
        ],
        "totalSubmissionNum": [
          {"difficulty": "Easy", "count": 16, "submissions": 30},
          {"difficulty": "Medium", "count": 12, "submissions": 40},
          {"difficulty": "Hard", "count": 4, "submissions": 10}
        ]
      },
      "languageProblemCount": [
        {"languageName": "Go", "problemsSolved": 12},
        {"languageName": "Python3", "problemsSolved": 4}
      ],
      "contestBadge": {"name": "Knight", "expired": true, "hoverText": "Knight", "icon": ""}
    }
  }
}`

const ghostResponse = `{
  "errors": [{"message": "That user does not exist.", "path": ["matchedUser"]}],
  "data": {"matchedUser": null}
}`

// newUpstream starts a fake GraphQL endpoint that serves body with status and
// counts the requests it receives.
func newUpstream(t *testing.T, status int, body string,
	calls *atomic.Int32) *httptest.Server {

	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if calls != nil {
				calls.Add(1)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = io.WriteString(w, body)
		},
	))
	t.Cleanup(srv.Close)

	return srv
}

func newTestClient(endpoint string) *Client {
	cfg := DefaultConfig()
	cfg.Endpoint = endpoint

	return NewClient(cfg, nil)
}

// TestFetchSuccess verifies the happy path normalizes the profile.
func TestFetchSuccess(t *testing.T) {
	var calls atomic.Int32
	srv := newUpstream(t, http.StatusOK, aliceResponse, &calls)

	outcome := newTestClient(srv.URL).Fetch(context.Background(), "alice")

	success, ok := outcome.(profile.Success)
	require.True(t, ok, "expected success, got %T", outcome)
	require.Equal(t, profile.KindSuccess, outcome.Kind())
	require.EqualValues(t, 1, calls.Load())

	p := success.Profile
	require.Equal(t, "alice", p.Username)
	require.Equal(t, "Alice Liddell", p.Name)
	require.Equal(t, "https://assets.leetcode.com/alice.png", p.Avatar)
	require.Equal(t, "Wonderland", p.Company)
	require.Equal(t, "https://github.com/alice", p.Socials.GitHub)
	require.Empty(t, p.Socials.Twitter)
	require.Equal(t, 16, p.TotalSolved)
	require.Equal(t, 10, p.EasySolved)
	require.Equal(t, 5, p.MediumSolved)
	require.Equal(t, 1, p.HardSolved)
	require.InDelta(t, 50.0, p.AcceptanceRate, 1e-9)
	require.InDelta(t, 2.5, p.Rating, 1e-9)
	require.Equal(t, 123456, p.Ranking.UnwrapOr(0))
	require.Len(t, p.Badges, 1)
	require.Equal(t, "50 Days Badge 2024", p.Badges[0].Label())
	require.Len(t, p.Languages, 2)
	require.True(t, p.ContestBadge.IsSome())
}

// TestFetchSendsQuery verifies the request carries the query and the
// username variable.
func TestFetchSendsQuery(t *testing.T) {
	var got graphQLRequest
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "application/json",
				r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_, _ = io.WriteString(w, ghostResponse)
		},
	))
	defer srv.Close()

	newTestClient(srv.URL).Fetch(context.Background(), "bob")

	require.Contains(t, got.Query, "matchedUser(username: $username)")
	require.Equal(t, "bob", got.Variables["username"])
}

// TestFetchClassification verifies every response shape maps to the expected
// outcome variant.
func TestFetchClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   profile.Kind
	}{
		{
			name:   "errors and null user",
			status: http.StatusOK,
			body:   ghostResponse,
			want:   profile.KindNotFound,
		},
		{
			name:   "null user without errors",
			status: http.StatusOK,
			body:   `{"data": {"matchedUser": null}}`,
			want:   profile.KindNotFound,
		},
		{
			name:   "errors with a user",
			status: http.StatusOK,
			body: `{"errors": [{"message": "boom"}],
				"data": {"matchedUser": {"username": "x"}}}`,
			want: profile.KindNotFound,
		},
		{
			name:   "missing data envelope",
			status: http.StatusOK,
			body:   `{"errors": [{"message": "rate limited"}]}`,
			want:   profile.KindUpstreamFailure,
		},
		{
			name:   "null data envelope",
			status: http.StatusOK,
			body:   `{"data": null}`,
			want:   profile.KindUpstreamFailure,
		},
		{
			name:   "malformed json",
			status: http.StatusOK,
			body:   `<html>cloudflare</html>`,
			want:   profile.KindUpstreamFailure,
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   `{"data": {"matchedUser": null}}`,
			want:   profile.KindUpstreamFailure,
		},
		{
			name:   "forbidden",
			status: http.StatusForbidden,
			body:   ``,
			want:   profile.KindUpstreamFailure,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := newUpstream(t, tc.status, tc.body, nil)

			outcome := newTestClient(srv.URL).Fetch(
				context.Background(), "ghost",
			)
			require.Equal(t, tc.want, outcome.Kind())
			require.Equal(t, "ghost", outcome.Identifier())
		})
	}
}

// TestFetchTransportFailure verifies a dead endpoint becomes an upstream
// failure rather than an error.
func TestFetchTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	outcome := newTestClient(endpoint).Fetch(context.Background(), "alice")

	failure, ok := outcome.(profile.UpstreamFailure)
	require.True(t, ok, "expected upstream failure, got %T", outcome)
	require.Equal(t, "alice", failure.Username)
	require.Error(t, failure.Cause)
}

// TestFetchSingleAttempt verifies the default config issues exactly one
// request even when upstream fails.
func TestFetchSingleAttempt(t *testing.T) {
	var calls atomic.Int32
	srv := newUpstream(t, http.StatusBadGateway, "", &calls)

	outcome := newTestClient(srv.URL).Fetch(context.Background(), "alice")

	require.Equal(t, profile.KindUpstreamFailure, outcome.Kind())
	require.EqualValues(t, 1, calls.Load())
}

// TestFetchRetries verifies RetryMax allows additional attempts.
func TestFetchRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = io.WriteString(w, aliceResponse)
		},
	))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.Endpoint = srv.URL
	cfg.RetryMax = 2
	client := NewClient(cfg, nil)
	client.http.RetryWaitMin = 0
	client.http.RetryWaitMax = 0

	outcome := client.Fetch(context.Background(), "alice")

	require.Equal(t, profile.KindSuccess, outcome.Kind())
	require.EqualValues(t, 2, calls.Load())
}
