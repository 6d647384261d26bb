package nn

import (
	"log/slog"

	"github.com/born-ml/predictors/internal/parallel"
)

// Option configures layers and predictors.
type Option func(*options)

type options struct {
	parallel parallel.Config
	logger   *slog.Logger
}

// WithParallel sets the intra-layer parallel loop configuration.
// The default is parallel.DefaultConfig().
func WithParallel(cfg parallel.Config) Option {
	return func(o *options) {
		o.parallel = cfg
	}
}

// WithLogger sets the logger used for debug traces. Nil keeps the default,
// which discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		parallel: parallel.DefaultConfig(),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
