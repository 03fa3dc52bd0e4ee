package rowan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRequest struct{ Path string }

// recorder returns a ScopeFunc that records the tokens it was asked for.
func recorder(name string, seen *[]string) ScopeFunc {
	return func(token string) (any, error) {
		*seen = append(*seen, name+":"+token)
		return name + "/" + token, nil
	}
}

// ---------------------------------------------------------------------------
// RegisterScope / ResolveScope
// ---------------------------------------------------------------------------

func TestScope(t *testing.T) {
	t.Run("owners are isolated", func(t *testing.T) {
		var seen []string
		c := New()
		a, b := &testRequest{}, &testRequest{}
		require.NoError(t, c.RegisterScope(a, recorder("rA", &seen)))
		require.NoError(t, c.RegisterScope(b, recorder("rB", &seen)))

		val, ok, err := c.ResolveScope(a, "X")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "rA/X", val)
		assert.Equal(t, []string{"rA:X"}, seen)
	})

	t.Run("owners with equal contents do not collide", func(t *testing.T) {
		var seen []string
		c := New()
		a, b := &testRequest{Path: "/"}, &testRequest{Path: "/"}
		require.NoError(t, c.RegisterScope(a, recorder("rA", &seen)))

		_, ok, _ := c.ResolveScope(b, "X")
		assert.False(t, ok)
		assert.Empty(t, seen)
	})

	t.Run("later registration replaces the former", func(t *testing.T) {
		var seen []string
		c := New()
		a := &testRequest{}
		require.NoError(t, c.RegisterScope(a, recorder("first", &seen)))
		require.NoError(t, c.RegisterScope(a, recorder("second", &seen)))

		val, _, _ := c.ResolveScope(a, "X")
		assert.Equal(t, "second/X", val)
	})

	t.Run("unknown owner is not an error", func(t *testing.T) {
		c := New()

		val, ok, err := c.ResolveScope(&testRequest{}, "X")
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, val)

		_, ok, err = c.ResolveScope(nil, "X")
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("resolver errors are returned as is", func(t *testing.T) {
		boom := errors.New("boom")
		c := New()
		a := &testRequest{}
		require.NoError(t, c.RegisterScope(a, func(string) (any, error) { return nil, boom }))

		_, ok, err := c.ResolveScope(a, "X")
		assert.True(t, ok)
		assert.Same(t, boom, err)
	})

	t.Run("map owners key by identity", func(t *testing.T) {
		var seen []string
		c := New()
		m1, m2 := map[string]int{"a": 1}, map[string]int{"a": 1}
		e1, e2 := map[string]int{}, map[string]int{}
		require.NoError(t, c.RegisterScope(m1, recorder("m1", &seen)))
		require.NoError(t, c.RegisterScope(e1, recorder("e1", &seen)))

		val, ok, _ := c.ResolveScope(m1, "X")
		require.True(t, ok)
		assert.Equal(t, "m1/X", val)

		_, ok, _ = c.ResolveScope(m2, "X")
		assert.False(t, ok)

		val, ok, _ = c.ResolveScope(e1, "X")
		require.True(t, ok)
		assert.Equal(t, "e1/X", val)

		_, ok, _ = c.ResolveScope(e2, "X")
		assert.False(t, ok)
	})

	t.Run("slice owners rejected", func(t *testing.T) {
		var seen []string
		c := New()
		a, b := make([]int, 0), make([]int, 0)
		full := []int{1, 2}

		assert.ErrorIs(t, c.RegisterScope(a, recorder("a", &seen)), ErrInvalidScopeOwner)
		assert.ErrorIs(t, c.RegisterScope(full, recorder("full", &seen)), ErrInvalidScopeOwner)

		_, ok, err := c.ResolveScope(b, "X")
		require.NoError(t, err)
		assert.False(t, ok)
		_, ok, _ = c.ResolveScope(full[:1], "X")
		assert.False(t, ok)
		assert.Empty(t, seen)
	})

	t.Run("owners without identity rejected", func(t *testing.T) {
		c := New()
		fn := func(string) (any, error) { return nil, nil }

		var nilReq *testRequest
		assert.ErrorIs(t, c.RegisterScope(nil, fn), ErrInvalidScopeOwner)
		assert.ErrorIs(t, c.RegisterScope(nilReq, fn), ErrInvalidScopeOwner)
		assert.ErrorIs(t, c.RegisterScope(func() {}, fn), ErrInvalidScopeOwner)
		assert.ErrorIs(t, c.RegisterScope(struct{ s []int }{}, fn), ErrInvalidScopeOwner)
	})

	t.Run("nil resolver rejected", func(t *testing.T) {
		c := New()
		assert.Error(t, c.RegisterScope(&testRequest{}, nil))
	})
}

// ---------------------------------------------------------------------------
// CleanScope
// ---------------------------------------------------------------------------

func TestCleanScope(t *testing.T) {
	t.Run("removed owner is no longer found", func(t *testing.T) {
		var seen []string
		c := New()
		a, b := &testRequest{}, &testRequest{}
		require.NoError(t, c.RegisterScope(a, recorder("rA", &seen)))
		require.NoError(t, c.RegisterScope(b, recorder("rB", &seen)))

		c.CleanScope(a)

		_, ok, _ := c.ResolveScope(a, "X")
		assert.False(t, ok)
		_, ok, _ = c.ResolveScope(b, "X")
		assert.True(t, ok)
	})

	t.Run("idempotent", func(t *testing.T) {
		var seen []string
		c := New()
		a, b := &testRequest{}, &testRequest{}
		require.NoError(t, c.RegisterScope(a, recorder("rA", &seen)))
		require.NoError(t, c.RegisterScope(b, recorder("rB", &seen)))

		assert.NotPanics(t, func() {
			c.CleanScope(a)
			c.CleanScope(a)
			c.CleanScope(&testRequest{}, nil, func() {})
			c.CleanScope()
		})

		assert.Len(t, c.scopes, 1)
		_, ok, _ := c.ResolveScope(b, "X")
		assert.True(t, ok)
	})

	t.Run("several owners at once", func(t *testing.T) {
		var seen []string
		c := New()
		a, b := &testRequest{}, &testRequest{}
		require.NoError(t, c.RegisterScope(a, recorder("rA", &seen)))
		require.NoError(t, c.RegisterScope(b, recorder("rB", &seen)))

		c.CleanScope(a, b)
		assert.Empty(t, c.scopes)
	})
}

// ---------------------------------------------------------------------------
// Lookup
// ---------------------------------------------------------------------------

func TestLookup(t *testing.T) {
	t.Run("scope resolver wins", func(t *testing.T) {
		var seen []string
		c := New()
		mustRegister(t, c, "X", Singleton, func(Resolver) (any, error) { return "container", nil })
		a := &testRequest{}
		require.NoError(t, c.RegisterScope(a, recorder("rA", &seen)))

		val, err := c.Lookup(a, "X")
		require.NoError(t, err)
		assert.Equal(t, "rA/X", val)
	})

	t.Run("scope resolver returning nil is final", func(t *testing.T) {
		c := New()
		mustRegister(t, c, "X", Singleton, func(Resolver) (any, error) { return "container", nil })
		a := &testRequest{}
		require.NoError(t, c.RegisterScope(a, func(string) (any, error) { return nil, nil }))

		val, err := c.Lookup(a, "X")
		require.NoError(t, err)
		assert.Nil(t, val)
	})

	t.Run("falls through to the container", func(t *testing.T) {
		c := New()
		mustRegister(t, c, "X", Singleton, func(Resolver) (any, error) { return "container", nil })

		val, err := c.Lookup(&testRequest{}, "X")
		require.NoError(t, err)
		assert.Equal(t, "container", val)

		val, err = c.Lookup(nil, "X")
		require.NoError(t, err)
		assert.Equal(t, "container", val)
	})

	t.Run("scope cache delegates non-scoped tokens", func(t *testing.T) {
		c := New()
		mustRegister(t, c, "Logger", Singleton, newTestLogger)
		a := &testRequest{}
		cache := NewScopeCache(c)
		require.NoError(t, c.RegisterScope(a, cache.Resolve))

		_, err := c.Lookup(a, "Logger")
		assert.NoError(t, err)
	})

	t.Run("unregistered token after a miss", func(t *testing.T) {
		c := New()
		_, err := c.Lookup(&testRequest{}, "Ghost")
		assert.ErrorIs(t, err, ErrUnregisteredDependency)
	})
}
