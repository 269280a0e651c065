package core

import (
	"runtime"

	"go.uber.org/zap"
)

// Option sets options for core operations
type Option func(*Settings)

// Settings defines various settings for core operations
type Settings struct {
	l                 *zap.Logger
	sink              Sink
	concurrentResolve int
}

var defaultResolveConcurrency = 2 * runtime.NumCPU()

// WithLogger sets a logger for the operation. It defaults to a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Settings) {
		if l != nil {
			s.l = l
		}
	}
}

// WithSink sets the progress sink notified at each transaction stage
func WithSink(sink Sink) Option {
	return func(s *Settings) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// ConcurrentResolve sets the max concurrency of per-document artifact
// resolution. It defaults to 2 x #cpus. Resolution stays read-only, so
// concurrency is an optimization, never a correctness concern.
func ConcurrentResolve(concurrency int) Option {
	return func(s *Settings) {
		if concurrency == 0 {
			s.concurrentResolve = defaultResolveConcurrency
			return
		}
		s.concurrentResolve = concurrency
	}
}

func defaultSettings() Settings {
	return Settings{
		l:                 zap.NewNop(),
		sink:              NopSink{},
		concurrentResolve: defaultResolveConcurrency,
	}
}
