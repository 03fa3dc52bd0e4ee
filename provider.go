package rowan

// ProviderFunc constructs an instance. It receives a [Resolver] bound to the
// current resolution and uses it to obtain its own dependencies.
type ProviderFunc func(r Resolver) (any, error)

// Provider is a construction strategy. Providers are compared by identity:
// the singleton cache is keyed by *Provider, so registering one provider
// under several tokens makes those tokens share a single instance.
type Provider struct {
	fn ProviderFunc
}

// NewProvider wraps fn in a new [Provider].
func NewProvider(fn ProviderFunc) *Provider {
	if fn == nil {
		return nil
	}
	return &Provider{fn: fn}
}

// Value returns a [Provider] that always yields v.
func Value(v any) *Provider {
	return &Provider{fn: func(Resolver) (any, error) { return v, nil }}
}

func (p *Provider) construct(r Resolver) (any, error) {
	return p.fn(r)
}
