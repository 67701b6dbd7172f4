package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roasbeef/pushclash/internal/roast"
)

func TestNewRequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), DefaultConfig(), nil)
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewDefaultsModel(t *testing.T) {
	t.Parallel()

	b, err := New(context.Background(), Config{APIKey: "test"}, nil)
	require.NoError(t, err)
	require.Equal(t, "gemini/"+DefaultModel, b.Name())
}

func TestContentConfig(t *testing.T) {
	t.Parallel()

	cfg := contentConfig(roast.Request{
		System:    "be mean",
		Prompt:    "roast alice",
		MaxTokens: 250,
	})
	require.EqualValues(t, 250, cfg.MaxOutputTokens)
	require.NotNil(t, cfg.SystemInstruction)
	require.Len(t, cfg.SystemInstruction.Parts, 1)
	require.Equal(t, "be mean", cfg.SystemInstruction.Parts[0].Text)

	cfg = contentConfig(roast.Request{Prompt: "roast alice"})
	require.Nil(t, cfg.SystemInstruction)
	require.Zero(t, cfg.MaxOutputTokens)
}
