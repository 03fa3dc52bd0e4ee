package rowan

// Lifetime controls how many instances of a provider the container creates.
type Lifetime int

const (
	// Singleton means the provider is invoked once, on the first
	// [Container.Resolve] call, and the resulting instance is reused for the
	// rest of the container's life.
	Singleton Lifetime = iota

	// Transient means a new instance is constructed on every
	// [Container.Resolve] call.
	Transient

	// Scoped means a new instance per caller-defined scope. The container
	// itself treats Scoped like Transient; reuse inside a scope is done by
	// the scope's resolver (see [ScopeCache]).
	Scoped
)

// String returns the human-readable name of the lifetime.
func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Transient:
		return "transient"
	case Scoped:
		return "scoped"
	default:
		return "unknown"
	}
}

func (l Lifetime) valid() bool {
	return l >= Singleton && l <= Scoped
}
