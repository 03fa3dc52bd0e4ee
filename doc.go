// Package rowan provides a small, token-based dependency resolution engine
// for Go.
//
// Rowan maps string tokens to providers. Register providers with a
// [Container], then retrieve values with [Container.Resolve] or the generic
// [Resolve] helper. Providers obtain their own dependencies explicitly from
// the [Resolver] they are handed; nothing is wired by reflection.
//
// # Quick Start
//
//	c := rowan.New()
//	c.RegisterFunc("Config", rowan.Singleton, func(rowan.Resolver) (any, error) {
//		return &Config{DSN: "postgres://localhost"}, nil
//	})
//	c.RegisterFunc("Database", rowan.Singleton, func(r rowan.Resolver) (any, error) {
//		cfg, err := rowan.Resolve[*Config](r, "Config")
//		if err != nil {
//			return nil, err
//		}
//		return NewDatabase(cfg), nil
//	})
//
//	db, err := rowan.Resolve[*Database](c, "Database")
//
// # Lifetimes
//
// [Singleton] keeps one shared instance per provider, created lazily on first
// resolution.
//
// [Transient] builds a fresh instance on every resolution.
//
// [Scoped] builds a fresh instance on every resolution from the container itself.
// Reuse within a scope is the job of the resolver registered for that scope
// with [Container.RegisterScope]; [ScopeCache] is a ready-made one.
//
// # Scopes
//
// A scope is identified by an owner handle chosen by the caller, typically a
// pointer to the request or the object being wired:
//
//	cache := rowan.NewScopeCache(c)
//	c.RegisterScope(req, cache.Resolve)
//	defer c.CleanScope(req)
//
//	repo, err := c.Lookup(req, "UserRepo")
//
// # Validation
//
// Record which consumer references which token with
// [Container.AddReference] (or [Reference]) and run
// [Container.ValidateReferences] once registration is complete to catch
// missing registrations and scoped dependencies consumed from non-scoped
// consumers before they fail at runtime.
package rowan
