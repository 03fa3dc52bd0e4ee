package rowan

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Container holds registrations, the singleton cache, the scope table and
// the reference table. Use [New] to create one; the zero value is not
// usable.
//
// A Container is safe for concurrent use. Providers and scope resolvers are
// never called while the container's lock is held, so they may resolve
// further tokens freely. Concurrent first resolutions of a dependency cycle
// fail with [ErrCircularDependency] rather than waiting on each other.
type Container struct {
	mu sync.RWMutex

	registrations map[string]Registration
	scopes        map[any]scopeEntry

	// references keeps tokens in first-seen order; refIndex maps a token
	// to its position so a later origin overwrites in place.
	references []reference
	refIndex   map[string]int

	singletons instanceCache

	log      *zap.Logger
	shutdown bool
}

// Default is a process-wide container for programs that do not need more
// than one.
var Default = New()

// New creates an empty [Container] ready for registration.
func New(opts ...Option) *Container {
	c := &Container{
		registrations: make(map[string]Registration),
		scopes:        make(map[any]scopeEntry),
		refIndex:      make(map[string]int),
		log:           zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Shutdown closes every materialized singleton that implements [io.Closer],
// newest first. A singleton finishes construction after the dependencies it
// resolved, so dependents are closed before their dependencies. The context
// controls the overall deadline; if it expires, remaining closers are
// skipped and the context error is included in the result.
//
// After Shutdown, Register and Resolve return [ErrAlreadyShutdown], as does
// a second call to Shutdown. Scope caches are owned by the caller and are
// not closed here.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	if c.shutdown {
		c.mu.Unlock()
		return ErrAlreadyShutdown
	}
	c.shutdown = true
	c.mu.Unlock()

	err := c.singletons.close(ctx)
	c.log.Debug("container shut down")
	return err
}
