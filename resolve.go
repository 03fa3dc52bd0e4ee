package rowan

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/zap"
)

// Resolver resolves a token to an instance. [*Container] and [*ScopeCache]
// implement it, as does the resolver handed to every [ProviderFunc].
type Resolver interface {
	Resolve(token string) (any, error)
}

// ---------------------------------------------------------------------------
// Container methods
// ---------------------------------------------------------------------------

// Resolve returns the instance for token.
//
// Singleton tokens return the cached instance, invoking the provider on the
// first call only. Transient and Scoped tokens invoke the provider every
// time; per-scope reuse is the job of a scope resolver such as
// [ScopeCache].
func (c *Container) Resolve(token string) (any, error) {
	return c.resolve(token, &resolution{c: c, task: &task{}})
}

// ---------------------------------------------------------------------------
// Generic helpers
// ---------------------------------------------------------------------------

// Resolve is a generic helper that resolves token and asserts the result to
// T. It is the recommended way to retrieve values:
//
//	db, err := rowan.Resolve[*Database](c, "Database")
//
// Any [Resolver] works, including the one a provider receives.
func Resolve[T any](r Resolver, token string) (T, error) {
	var zero T

	val, err := r.Resolve(token)
	if err != nil {
		return zero, err
	}
	if val == nil {
		return zero, nil
	}

	out, ok := val.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q resolved to %T, not %s",
			ErrTypeMismatch, token, val, reflect.TypeOf((*T)(nil)).Elem())
	}

	return out, nil
}

// MustResolve is like [Resolve] but panics on error. It suits wiring code
// at program start where a missing dependency is fatal anyway.
func MustResolve[T any](r Resolver, token string) T {
	out, err := Resolve[T](r, token)
	if err != nil {
		panic(err)
	}
	return out
}

// ---------------------------------------------------------------------------
// Internal
// ---------------------------------------------------------------------------

// resolution is the Resolver handed to providers. It carries the chain of
// registrations currently under construction and, when resolving through a
// ScopeCache, that cache.
type resolution struct {
	c     *Container
	scope *ScopeCache
	task  *task
	chain []Registration
}

func (r *resolution) Resolve(token string) (any, error) {
	return r.c.resolve(token, r)
}

// enter returns a child resolution with reg appended to the chain. Reaching
// a token or provider that is already in the chain is a cycle.
func (r *resolution) enter(reg Registration) (*resolution, error) {
	for _, prev := range r.chain {
		if prev.Token == reg.Token || prev.Provider == reg.Provider {
			return nil, r.circularError(reg.Token)
		}
	}

	chain := make([]Registration, len(r.chain), len(r.chain)+1)
	copy(chain, r.chain)

	return &resolution{
		c:     r.c,
		scope: r.scope,
		task:  r.task,
		chain: append(chain, reg),
	}, nil
}

func (r *resolution) circularError(token string) error {
	names := make([]string, len(r.chain)+1)
	for i, reg := range r.chain {
		names[i] = reg.Token
	}
	names[len(r.chain)] = token

	return fmt.Errorf("%w: %s", ErrCircularDependency, strings.Join(names, " -> "))
}

// loadError converts a failed slot acquisition into the error reported to
// the caller.
func (r *resolution) loadError(err error) error {
	if !errors.Is(err, errWaitCycle) {
		return err
	}

	names := make([]string, len(r.chain))
	for i, reg := range r.chain {
		names[i] = reg.Token
	}
	return fmt.Errorf("%w: %s waits on a concurrent resolution that waits on it",
		ErrCircularDependency, strings.Join(names, " -> "))
}

func (c *Container) resolve(token string, parent *resolution) (any, error) {
	c.mu.RLock()
	reg, ok := c.lookup(token)
	shutdown := c.shutdown
	c.mu.RUnlock()

	if shutdown {
		return nil, ErrAlreadyShutdown
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q (register it with Container.Register before resolving)",
			ErrUnregisteredDependency, token)
	}

	r, err := parent.enter(reg)
	if err != nil {
		return nil, err
	}

	switch reg.Lifetime {
	case Singleton:
		return c.singleton(reg, r)
	case Scoped:
		if r.scope != nil {
			return r.scope.scoped(reg, r)
		}
	}

	return construct(reg, r)
}

// singleton returns the cached instance for reg's provider. The provider
// resolves its own dependencies outside any scope, so a singleton never
// captures a scoped instance.
func (c *Container) singleton(reg Registration, r *resolution) (any, error) {
	r.scope = nil

	val, created, err := c.singletons.load(reg.Provider, r.task, func() (any, error) {
		val, err := reg.Provider.construct(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInstanceCreationFailed, reg.Token, err)
		}
		return val, nil
	})
	if err != nil {
		return nil, r.loadError(err)
	}

	if created {
		c.log.Debug("singleton created", zap.String("token", reg.Token))
	}
	return val, nil
}

func construct(reg Registration, r *resolution) (any, error) {
	val, err := reg.Provider.construct(r)
	if err != nil {
		return nil, fmt.Errorf("constructing %q: %w", reg.Token, err)
	}
	return val, nil
}
