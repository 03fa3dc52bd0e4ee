package rowan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// Shared test types and providers used across test files.

// mustRegister fails the test if registration fails.
func mustRegister(t *testing.T, c *Container, token string, l Lifetime, fn ProviderFunc) {
	t.Helper()
	require.NoError(t, c.RegisterFunc(token, l, fn), "RegisterFunc(%q)", token)
}

type testLogger struct{ Prefix string }
type testConfig struct{ DSN string }

type testDatabase struct {
	Config *testConfig
	Logger *testLogger
}

type testSession struct {
	ID     int
	Logger *testLogger
}

type testHandler struct {
	Session *testSession
}

func newTestLogger(Resolver) (any, error) { return &testLogger{Prefix: "app"}, nil }
func newTestConfig(Resolver) (any, error) { return &testConfig{DSN: "postgres://localhost"}, nil }

func newTestDatabase(r Resolver) (any, error) {
	cfg, err := Resolve[*testConfig](r, "Config")
	if err != nil {
		return nil, err
	}
	log, err := Resolve[*testLogger](r, "Logger")
	if err != nil {
		return nil, err
	}
	return &testDatabase{Config: cfg, Logger: log}, nil
}

// newTestSessions returns a provider that numbers the sessions it builds.
func newTestSessions(calls *int) ProviderFunc {
	return func(r Resolver) (any, error) {
		*calls++
		log, err := Resolve[*testLogger](r, "Logger")
		if err != nil {
			return nil, err
		}
		return &testSession{ID: *calls, Logger: log}, nil
	}
}

func newTestHandler(r Resolver) (any, error) {
	sess, err := Resolve[*testSession](r, "Session")
	if err != nil {
		return nil, err
	}
	return &testHandler{Session: sess}, nil
}

// testClosable implements io.Closer for shutdown tests.
type testClosable struct {
	Name   string
	Closed bool
	Order  *[]string // shared slice to record close order
}

func (c *testClosable) Close() error {
	c.Closed = true
	if c.Order != nil {
		*c.Order = append(*c.Order, c.Name)
	}
	return nil
}

// testFailCloser implements io.Closer but returns an error.
type testFailCloser struct{}

func (f *testFailCloser) Close() error {
	return errors.New("close failed")
}
