package rowan

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// ScopeFunc resolves a token inside one scope. [ScopeCache.Resolve] has this
// signature.
type ScopeFunc func(token string) (any, error)

type scopeEntry struct {
	// owner is kept so the handle stays alive, and its address unique, for
	// as long as the entry exists.
	owner   any
	resolve ScopeFunc
}

// refKey identifies maps, which cannot be map keys themselves.
type refKey struct {
	typ reflect.Type
	ptr uintptr
}

// scopeKey returns an identity-based key for owner. Pointers and channels
// are their own key. Maps are keyed by their header pointer. Funcs and
// slices are rejected: closures built from one literal share a code pointer,
// and empty slices or a slice and its prefix share a data pointer. Any other
// comparable value is keyed by value, since it has no identity beyond it.
func scopeKey(owner any) (any, bool) {
	if owner == nil {
		return nil, false
	}

	v := reflect.ValueOf(owner)
	switch v.Kind() {
	case reflect.Func, reflect.Slice:
		return nil, false
	case reflect.Map:
		if v.IsNil() {
			return nil, false
		}
		return refKey{typ: v.Type(), ptr: v.Pointer()}, true
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		if v.IsNil() {
			return nil, false
		}
		return owner, true
	}

	if !v.Comparable() {
		return nil, false
	}
	return owner, true
}

// RegisterScope associates fn with owner, replacing any resolver the owner
// had. Owners are compared by identity; pass a pointer to the object that
// defines the scope. It fails only for a nil resolver or an owner without a
// usable identity.
//
// The container does not decide when a scope ends; call [Container.CleanScope]
// once the owner is done with.
func (c *Container) RegisterScope(owner any, fn ScopeFunc) error {
	key, ok := scopeKey(owner)
	if !ok {
		return fmt.Errorf("%w: %T", ErrInvalidScopeOwner, owner)
	}
	if fn == nil {
		return fmt.Errorf("nil scope resolver for %T", owner)
	}

	c.mu.Lock()
	c.scopes[key] = scopeEntry{owner: owner, resolve: fn}
	c.mu.Unlock()

	c.log.Debug("scope registered", zap.String("owner", fmt.Sprintf("%T", owner)))
	return nil
}

// ResolveScope resolves token with the resolver registered for owner. The
// boolean is false when owner has no resolver, which is not an error.
// Otherwise the resolver's value and error are returned as is.
func (c *Container) ResolveScope(owner any, token string) (any, bool, error) {
	key, ok := scopeKey(owner)
	if !ok {
		return nil, false, nil
	}

	c.mu.RLock()
	entry, ok := c.scopes[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}

	val, err := entry.resolve(token)
	return val, true, err
}

// CleanScope removes the resolvers registered for owners. Owners that have
// none are ignored, so calling it twice is harmless.
func (c *Container) CleanScope(owners ...any) {
	removed := 0

	c.mu.Lock()
	for _, owner := range owners {
		key, ok := scopeKey(owner)
		if !ok {
			continue
		}
		if _, exists := c.scopes[key]; exists {
			delete(c.scopes, key)
			removed++
		}
	}
	c.mu.Unlock()

	if removed > 0 {
		c.log.Debug("scopes cleaned", zap.Int("count", removed))
	}
}

// Lookup resolves token for a consumer owned by owner: the owner's scope
// resolver is tried first and, if owner has none, the container resolves
// token itself. A nil owner goes straight to the container. A registered
// scope resolver is authoritative: its result, nil included, is returned
// without consulting the container.
func (c *Container) Lookup(owner any, token string) (any, error) {
	if val, ok, err := c.ResolveScope(owner, token); ok {
		return val, err
	}
	return c.Resolve(token)
}
