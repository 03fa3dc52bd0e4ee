package rowan

import "go.uber.org/zap"

// Option configures a [Container] during construction.
type Option func(*Container)

// WithLogger sets the logger the container reports lifecycle events to.
// Events are emitted at debug level only; errors are returned, never logged.
// The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.log = l
		}
	}
}
