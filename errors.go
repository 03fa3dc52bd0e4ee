package rowan

import "errors"

var (
	// ErrDuplicateRegistration is returned when a token is registered more
	// than once. The first registration is left untouched.
	ErrDuplicateRegistration = errors.New("duplicate registration")

	// ErrInvalidRegistration is returned for an empty token, a nil provider
	// or an unknown lifetime.
	ErrInvalidRegistration = errors.New("invalid registration")

	// ErrUnregisteredDependency is returned when no provider is registered
	// for the requested token.
	ErrUnregisteredDependency = errors.New("dependency not registered")

	// ErrInstanceCreationFailed is returned when a singleton provider fails.
	// The provider's error is wrapped alongside it.
	ErrInstanceCreationFailed = errors.New("instance creation failed")

	// ErrCircularDependency is returned when a resolution chain reaches a
	// token that is already being constructed in that chain. The error
	// message includes the full chain.
	ErrCircularDependency = errors.New("circular dependency detected")

	// ErrInvalidScopeOwner is returned when a scope owner has no usable
	// identity (nil, or a non-comparable value).
	ErrInvalidScopeOwner = errors.New("invalid scope owner")

	// ErrTypeMismatch is returned by the generic helpers when the resolved
	// value is not of the requested type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrAlreadyShutdown is returned by operations on a container (or scope
	// cache) that has been shut down.
	ErrAlreadyShutdown = errors.New("already shut down")

	// ErrInvalidReferences is returned by [ValidationResult.Err] when the
	// reference graph has findings.
	ErrInvalidReferences = errors.New("invalid dependency references")
)
