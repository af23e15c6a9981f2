package slogutil

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// LevelSilent is above every standard level; a handler at it logs nothing.
const LevelSilent = slog.Level(100)

// levelNames are the accepted logging.level values.
var levelNames = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
	"off":     LevelSilent,
}

// verbosityLevels is indexed by the number of -v flags.
var verbosityLevels = []slog.Level{slog.LevelWarn, slog.LevelInfo, slog.LevelDebug}

// NewDiscardLogger returns a logger that drops every record.
func NewDiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel looks up a logging.level name, ignoring case.
func ParseLevel(name string) (slog.Level, bool) {
	level, ok := levelNames[strings.ToLower(strings.TrimSpace(name))]
	return level, ok
}

// VerbosityLevel maps -v/-q to a console level. -q silences everything;
// otherwise no -v is warn, -v info and -vv or more debug.
func VerbosityLevel(count int, quiet bool) slog.Level {
	switch {
	case quiet:
		return LevelSilent
	case count <= 0:
		return verbosityLevels[0]
	case count >= len(verbosityLevels):
		return verbosityLevels[len(verbosityLevels)-1]
	default:
		return verbosityLevels[count]
	}
}

// Tee returns a handler passing each record to every non-nil handler that
// accepts its level. A single handler is returned unchanged.
func Tee(handlers ...slog.Handler) slog.Handler {
	var t tee
	for _, h := range handlers {
		if h != nil {
			t = append(t, h)
		}
	}
	if len(t) == 1 {
		return t[0]
	}
	return t
}

type tee []slog.Handler

func (t tee) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t tee) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t tee) WithAttrs(attrs []slog.Attr) slog.Handler {
	return t.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (t tee) WithGroup(name string) slog.Handler {
	return t.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (t tee) each(fn func(slog.Handler) slog.Handler) tee {
	out := make(tee, len(t))
	for i, h := range t {
		out[i] = fn(h)
	}
	return out
}
