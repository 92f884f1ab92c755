package core

import "go.uber.org/zap"

// ProgressFunc receives the index of the element that has just been processed.
type ProgressFunc func(element int)

// Config holds the ambient settings shared by all pipeline stages.
type Config struct {
	Logger   *zap.Logger
	Progress ProgressFunc
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns a silent configuration: a no-op logger and no
// progress reporting.
func DefaultConfig() Config {
	return Config{
		Logger:   zap.NewNop(),
		Progress: func(int) {},
	}
}

// WithLogger sets the structured logger. A nil logger is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *Config) {
		if logger != nil {
			cfg.Logger = logger
		}
	}
}

// WithProgress sets the per-element progress callback. A nil callback is ignored.
func WithProgress(progress ProgressFunc) Option {
	return func(cfg *Config) {
		if progress != nil {
			cfg.Progress = progress
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
