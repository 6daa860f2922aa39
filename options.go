package keel

import "go.uber.org/zap"

// Option configures a [Builder].
type Option func(*options)

type options struct {
	logger     *zap.Logger
	middleware []Middleware
}

func defaultOptions() options {
	return options{logger: zap.NewNop()}
}

// WithLogger sets the structured logger used by the builder and every container it builds.
// A nil logger keeps the no-op default.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMiddleware adds middleware that wraps every [Container.Locate] call.
// Middleware runs in the order it is added.
func WithMiddleware(middleware ...Middleware) Option {
	return func(o *options) {
		o.middleware = append(o.middleware, middleware...)
	}
}
