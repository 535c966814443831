package txtree

import (
	"log/slog"
	"time"

	"github.com/aretw0/txtree/internal/logging"
)

// Option configures a root context.
type Option func(*rootState)

// WithLogger sets the structured logger used by the root context.
func WithLogger(logger *slog.Logger) Option {
	return func(s *rootState) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHooks registers lifecycle hooks on the root context.
func WithHooks(hooks Hooks) Option {
	return func(s *rootState) {
		s.hooks = hooks
	}
}

// withClock replaces the time source. Used by tests.
func withClock(now func() time.Time) Option {
	return func(s *rootState) {
		s.now = now
	}
}

func newRootState(opts []Option) *rootState {
	s := &rootState{
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
