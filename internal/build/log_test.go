package build

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/btcsuite/btclog"
	btclogv2 "github.com/btcsuite/btclog/v2"
	"github.com/stretchr/testify/require"
)

func slogFor(set *HandlerSet, tag string) *slog.Logger {
	return slog.New(set.SubSystem(tag))
}

func TestHandlerSetFansOut(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	set := NewHandlerSet(btclog.LevelInfo,
		btclogv2.NewDefaultHandler(&a),
		btclogv2.NewDefaultHandler(&b),
	)

	log := slogFor(set, "ROST")
	log.Info("Profile fetched", "username", "alice")
	log.Debug("Profile cache hit")

	for _, buf := range []*bytes.Buffer{&a, &b} {
		out := buf.String()
		require.Contains(t, out, "Profile fetched")
		require.Contains(t, out, "username=alice")
		require.Contains(t, out, "ROST")
		require.NotContains(t, out, "cache hit")
	}
}

func TestHandlerSetWithAttrs(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	set := NewHandlerSet(btclog.LevelDebug,
		btclogv2.NewDefaultHandler(&a),
		btclogv2.NewDefaultHandler(&b),
	)

	log := slogFor(set, "WEB").With("component", "web")
	log.Debug("Request served")

	require.Contains(t, a.String(), "component=web")
	require.Contains(t, b.String(), "component=web")
}

func TestNewLoggingRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	_, err := NewLogging(LogConfig{Level: "loud"}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestNewLoggingWritesFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var console bytes.Buffer
	logging, err := NewLogging(LogConfig{
		Level: "debug",
		Rotator: RotatorConfig{
			Dir:      dir,
			MaxFiles: 2,
		},
	}, &console)
	require.NoError(t, err)

	logging.Logger("RSTD").Debug("Daemon starting", "addr", ":3000")
	require.NoError(t, logging.Close())
	require.NoError(t, logging.Close())

	require.Contains(t, console.String(), "Daemon starting")

	data, err := os.ReadFile(filepath.Join(dir, DefaultLogFilename))
	require.NoError(t, err)
	require.Contains(t, string(data), "Daemon starting")
}

func TestVersion(t *testing.T) {
	t.Parallel()

	require.Regexp(t, `^\d+\.\d+\.\d+(-\w+)?$`, Version())
	require.Contains(t, UserAgent("cli"), Version())
}
