// Package logging builds the slog.Logger that main injects into every component.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how log records are written.
type Options struct {
	Level  slog.Level
	Format string // "text" or "json"
	// Dir holds dms.log; empty writes to Console only.
	Dir     string
	Console io.Writer
}

// New returns a logger and a close function for the file sink.
func New(opts Options) (*slog.Logger, func() error, error) {
	out := opts.Console
	if out == nil {
		out = os.Stderr
	}
	closer := func() error { return nil }

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, nil, err
		}
		file := &lumberjack.Logger{
			Filename:   filepath.Join(opts.Dir, "dms.log"),
			MaxSize:    10, // megabytes
			MaxAge:     28, // days
			MaxBackups: 4,
		}
		out = io.MultiWriter(out, file)
		closer = file.Close
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	var handler slog.Handler
	if opts.Format == "json" {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}
	return slog.New(handler), closer, nil
}

// Discard returns a logger that drops everything; used by tests and library callers
// that pass no logger.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
