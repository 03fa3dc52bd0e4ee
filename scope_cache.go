package rowan

import "context"

// ScopeCache is a ready-made scope: Scoped tokens resolved through it are
// constructed once per cache, everything else is resolved by the container.
// Register its Resolve method as the scope's resolver:
//
//	cache := rowan.NewScopeCache(c)
//	c.RegisterScope(req, cache.Resolve)
//	defer func() {
//		c.CleanScope(req)
//		cache.Close()
//	}()
//
// Providers of Scoped tokens receive a resolver bound to the cache, so their
// own Scoped dependencies come from the same scope. Singletons always
// resolve their dependencies outside of any scope.
type ScopeCache struct {
	c         *Container
	instances instanceCache
}

// NewScopeCache creates an empty scope backed by c.
func NewScopeCache(c *Container) *ScopeCache {
	return &ScopeCache{c: c}
}

// Resolve returns the instance for token within this scope.
func (s *ScopeCache) Resolve(token string) (any, error) {
	return s.c.resolve(token, &resolution{c: s.c, scope: s, task: &task{}})
}

// Close closes the scope's instances that implement [io.Closer], newest
// first. Later Scoped resolutions through the cache, and a second Close,
// return [ErrAlreadyShutdown].
func (s *ScopeCache) Close() error {
	return s.instances.close(context.Background())
}

func (s *ScopeCache) scoped(reg Registration, r *resolution) (any, error) {
	val, _, err := s.instances.load(reg.Provider, r.task, func() (any, error) {
		return construct(reg, r)
	})
	if err != nil {
		return nil, r.loadError(err)
	}
	return val, nil
}
