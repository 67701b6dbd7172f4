package build

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/btcsuite/btclog"
	btclogv2 "github.com/btcsuite/btclog/v2"
)

// LogConfig controls daemon logging.
type LogConfig struct {
	// Level is a btclog level name such as "debug" or "info".
	Level string

	// Rotator enables the rotating log file when its Dir is set.
	Rotator RotatorConfig
}

// Logging owns the root log handler and the optional log file.
type Logging struct {
	handler *HandlerSet
	file    *rotatingWriter
}

// NewLogging builds console logging on out plus, when configured, a rotating
// log file.
func NewLogging(cfg LogConfig, out io.Writer) (*Logging, error) {
	level := btclog.LevelInfo
	if cfg.Level != "" {
		var ok bool
		level, ok = btclog.LevelFromString(cfg.Level)
		if !ok {
			return nil, fmt.Errorf("unknown log level %q", cfg.Level)
		}
	}

	handlers := []btclogv2.Handler{btclogv2.NewDefaultHandler(out)}

	var file *rotatingWriter
	if cfg.Rotator.Dir != "" {
		var err error
		file, err = newRotatingWriter(cfg.Rotator)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, btclogv2.NewDefaultHandler(file))
	}

	return &Logging{
		handler: NewHandlerSet(level, handlers...),
		file:    file,
	}, nil
}

// Logger returns a logger tagged with subsystem.
func (l *Logging) Logger(subsystem string) *slog.Logger {
	return slog.New(l.handler.SubSystem(subsystem))
}

// Close flushes and closes the log file, if any.
func (l *Logging) Close() error {
	if l.file == nil {
		return nil
	}

	return l.file.Close()
}
