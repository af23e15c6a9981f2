package slogutil

import (
	"io"
	"log/slog"
	"os"
)

// Options selects where logs go and at which level.
type Options struct {
	// Stderr receives console logs. Nil means os.Stderr.
	Stderr io.Writer
	// Verbosity and Quiet come from -v/-q and win over Level when set.
	Verbosity int
	Quiet     bool
	// Level is the configured level name used when no flag is given.
	Level string
	// File, when set, additionally receives every record with timestamps.
	File       string
	MaxSize    string
	MaxBackups int
}

// LoggerFactory builds the process logger and owns the files it opens.
type LoggerFactory struct {
	opts    Options
	closers []io.Closer
}

// NewLoggerFactory creates a new logger factory.
func NewLoggerFactory(opts Options) *LoggerFactory {
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &LoggerFactory{opts: opts}
}

// ConsoleLevel resolves the console level.
// Precedence: -q > -v > configured level > warn.
func (f *LoggerFactory) ConsoleLevel() slog.Level {
	if f.opts.Quiet || f.opts.Verbosity > 0 {
		return VerbosityLevel(f.opts.Verbosity, f.opts.Quiet)
	}
	if level, ok := ParseLevel(f.opts.Level); ok {
		return level
	}
	return slog.LevelWarn
}

// FileLevel is the configured level, or info.
func (f *LoggerFactory) FileLevel() slog.Level {
	if level, ok := ParseLevel(f.opts.Level); ok {
		return level
	}
	return slog.LevelInfo
}

// Logger returns the console logger, teed to the log file when one is
// configured. Console lines carry no timestamp.
func (f *LoggerFactory) Logger() (*slog.Logger, error) {
	console := NewLineHandler(f.opts.Stderr, &slog.HandlerOptions{
		Level:       f.ConsoleLevel(),
		ReplaceAttr: dropTime,
	})
	if f.opts.File == "" {
		return slog.New(console), nil
	}

	w, err := OpenLogFile(f.opts.File, f.opts.MaxSize, f.opts.MaxBackups)
	if err != nil {
		return nil, err
	}
	f.closers = append(f.closers, w)

	file := NewLineHandler(w, &slog.HandlerOptions{Level: f.FileLevel()})
	return slog.New(Tee(console, file)), nil
}

// Close closes all open log files.
func (f *LoggerFactory) Close() error {
	var firstErr error
	for _, c := range f.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	f.closers = nil
	return firstErr
}

func dropTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}
