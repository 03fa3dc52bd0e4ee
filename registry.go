package rowan

import (
	"fmt"

	"go.uber.org/zap"
)

// Registration binds a token to a provider and a lifetime. Registrations
// are immutable once stored.
type Registration struct {
	Token    string
	Lifetime Lifetime
	Provider *Provider
}

// Register binds token to p with the given lifetime. Each token can be
// registered once; a second attempt returns [ErrDuplicateRegistration] and
// leaves the first registration in place.
//
// The same provider may be registered under several tokens. Singleton
// tokens sharing a provider share one instance.
func (c *Container) Register(token string, lifetime Lifetime, p *Provider) error {
	switch {
	case token == "":
		return fmt.Errorf("%w: token cannot be empty", ErrInvalidRegistration)
	case p == nil || p.fn == nil:
		return fmt.Errorf("%w: nil provider for %q", ErrInvalidRegistration, token)
	case !lifetime.valid():
		return fmt.Errorf("%w: unknown lifetime %d for %q", ErrInvalidRegistration, int(lifetime), token)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.shutdown {
		return ErrAlreadyShutdown
	}

	if _, exists := c.registrations[token]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateRegistration, token)
	}

	c.registrations[token] = Registration{
		Token:    token,
		Lifetime: lifetime,
		Provider: p,
	}

	c.log.Debug("dependency registered",
		zap.String("token", token),
		zap.Stringer("lifetime", lifetime),
	)
	return nil
}

// RegisterFunc is shorthand for Register(token, lifetime, NewProvider(fn)).
func (c *Container) RegisterFunc(token string, lifetime Lifetime, fn ProviderFunc) error {
	return c.Register(token, lifetime, NewProvider(fn))
}

// Lifetime reports the lifetime registered for token. The boolean is false
// when the token is not registered; that is not an error.
func (c *Container) Lifetime(token string) (Lifetime, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	reg, ok := c.lookup(token)
	return reg.Lifetime, ok
}

// lookup reads a registration. The caller must hold c.mu.
func (c *Container) lookup(token string) (Registration, bool) {
	reg, ok := c.registrations[token]
	return reg, ok
}
