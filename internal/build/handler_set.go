package build

import (
	"context"
	"errors"
	"log/slog"

	"github.com/btcsuite/btclog"
	btclogv2 "github.com/btcsuite/btclog/v2"
)

// HandlerSet fans log records out to several btclog handlers so the console
// and the rotating log file share one logger.
type HandlerSet struct {
	level btclog.Level
	set   []btclogv2.Handler
}

// NewHandlerSet builds a HandlerSet at the given level.
func NewHandlerSet(level btclog.Level,
	handlers ...btclogv2.Handler) *HandlerSet {

	h := &HandlerSet{set: handlers}
	h.SetLevel(level)

	return h
}

// Enabled reports whether any underlying handler accepts level.
//
// NOTE: this is part of the slog.Handler interface.
func (h *HandlerSet) Enabled(ctx context.Context, level slog.Level) bool {
	return anyEnabled(ctx, level, h.set)
}

// Handle dispatches record to every handler that accepts its level.
//
// NOTE: this is part of the slog.Handler interface.
func (h *HandlerSet) Handle(ctx context.Context, record slog.Record) error {
	return handleAll(ctx, record, h.set)
}

// WithAttrs returns a handler set with attrs added to every member.
//
// NOTE: this is part of the slog.Handler interface.
func (h *HandlerSet) WithAttrs(attrs []slog.Attr) slog.Handler {
	return slogSet(mapEach(h.set, func(s btclogv2.Handler) slog.Handler {
		return s.WithAttrs(attrs)
	}))
}

// WithGroup returns a handler set with the group opened on every member.
//
// NOTE: this is part of the slog.Handler interface.
func (h *HandlerSet) WithGroup(name string) slog.Handler {
	return slogSet(mapEach(h.set, func(s btclogv2.Handler) slog.Handler {
		return s.WithGroup(name)
	}))
}

// SubSystem returns a handler set tagged with a subsystem name.
//
// NOTE: this is part of the btclog.Handler interface.
func (h *HandlerSet) SubSystem(tag string) btclogv2.Handler {
	sub := &HandlerSet{
		set: mapEach(h.set, func(s btclogv2.Handler) btclogv2.Handler {
			return s.SubSystem(tag)
		}),
	}

	// Subsystem handlers start at their own default level.
	sub.SetLevel(h.level)

	return sub
}

// SetLevel changes the level of every member.
//
// NOTE: this is part of the btclog.Handler interface.
func (h *HandlerSet) SetLevel(level btclog.Level) {
	for _, s := range h.set {
		s.SetLevel(level)
	}
	h.level = level
}

// Level returns the current level.
//
// NOTE: this is part of the btclog.Handler interface.
func (h *HandlerSet) Level() btclog.Level {
	return h.level
}

// WithPrefix returns a handler set whose messages carry prefix.
//
// NOTE: this is part of the btclog.Handler interface.
func (h *HandlerSet) WithPrefix(prefix string) btclogv2.Handler {
	return &HandlerSet{
		level: h.level,
		set: mapEach(h.set, func(s btclogv2.Handler) btclogv2.Handler {
			return s.WithPrefix(prefix)
		}),
	}
}

var _ btclogv2.Handler = (*HandlerSet)(nil)

// slogSet is the plain slog form of a HandlerSet, produced once attrs or
// groups have been attached.
type slogSet []slog.Handler

func (s slogSet) Enabled(ctx context.Context, level slog.Level) bool {
	return anyEnabled(ctx, level, s)
}

func (s slogSet) Handle(ctx context.Context, record slog.Record) error {
	return handleAll(ctx, record, s)
}

func (s slogSet) WithAttrs(attrs []slog.Attr) slog.Handler {
	return slogSet(mapEach(s, func(h slog.Handler) slog.Handler {
		return h.WithAttrs(attrs)
	}))
}

func (s slogSet) WithGroup(name string) slog.Handler {
	return slogSet(mapEach(s, func(h slog.Handler) slog.Handler {
		return h.WithGroup(name)
	}))
}

var _ slog.Handler = slogSet(nil)

func anyEnabled[H slog.Handler](ctx context.Context, level slog.Level,
	set []H) bool {

	for _, h := range set {
		if h.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

// handleAll writes record to every member that accepts it. A failing member
// does not stop the others.
func handleAll[H slog.Handler](ctx context.Context, record slog.Record,
	set []H) error {

	var errs []error
	for _, h := range set {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func mapEach[T, U any](in []T, f func(T) U) []U {
	out := make([]U, len(in))
	for i, v := range in {
		out[i] = f(v)
	}

	return out
}
