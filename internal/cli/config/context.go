package config

import (
	"context"
	"io"
	"log/slog"
)

// ctxKey is used to store the loaded config in a command context.
type ctxKey struct{}

// WithContext returns a context carrying cfg.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext retrieves the config stored by the root command.
// Returns defaults if none is present.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}
	return &Config{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
		Output:  DefaultOutput,
	}
}

// NewLogger builds the CLI logger. Verbose enables debug level; logs go to
// stderr so they never mix with rendered output on stdout.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
