package srmutex

import (
	"go.uber.org/zap"

	"gitlab.com/slon/srmutex/gate"
)

// Option configures a lock.
type Option func(*options)

type options struct {
	name   string
	logger *zap.Logger
	gate   gate.Gate
}

func defaultOptions() options {
	return options{logger: zap.NewNop()}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.name != "" {
		o.logger = o.logger.With(zap.String("lock", o.name))
	}
	return o
}

// WithName names the lock in logs and panics.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger. Misuse is logged at error level,
// upgrades and downgrades at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithGate replaces the gate goroutines block on. FairMutex ignores it.
// The default is gate.Native.
func WithGate(g gate.Gate) Option {
	return func(o *options) {
		o.gate = g
	}
}
