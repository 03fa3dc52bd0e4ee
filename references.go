package rowan

import (
	"fmt"
	"reflect"
	"strings"
)

// reference records that origin, a consumer's own token, depends on token.
type reference struct {
	token  string
	origin string
}

// AddReference records that the consumer registered as origin depends on
// token. Nothing is resolved; the record only feeds
// [Container.ValidateReferences]. Only the latest origin is kept per token.
func (c *Container) AddReference(token, origin string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i, ok := c.refIndex[token]; ok {
		c.references[i].origin = origin
		return
	}

	c.refIndex[token] = len(c.references)
	c.references = append(c.references, reference{token: token, origin: origin})
}

// ValidationResult is the outcome of [Container.ValidateReferences]. Errors
// are ordered by when each token was first referenced.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// Err returns nil for a valid result and otherwise a single error wrapping
// [ErrInvalidReferences] that lists every finding.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidReferences, strings.Join(r.Errors, "; "))
}

func (r *ValidationResult) add(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// ValidateReferences checks every recorded reference against the current
// registrations. Run it once registration is complete. It reports:
//
//   - references to tokens that are not registered;
//   - Scoped tokens referenced by a registered consumer that is not itself
//     Scoped.
//
// Consumers that are not registered are not checked for scope violations,
// since their lifetime is unknown. Findings are returned, never raised.
func (c *Container) ValidateReferences() ValidationResult {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := ValidationResult{Valid: true}

	for _, ref := range c.references {
		dep, ok := c.lookup(ref.token)
		if !ok {
			result.add("%s: dependency %s is not registered", ref.origin, ref.token)
			continue
		}
		if dep.Lifetime != Scoped {
			continue
		}

		consumer, ok := c.lookup(ref.origin)
		if ok && consumer.Lifetime != Scoped {
			result.add("%s: scoped dependency %s cannot be resolved from a non-scoped consumer",
				ref.origin, ref.token)
		}
	}

	return result
}

// TypeToken returns the name of v's type, with pointers dereferenced, for
// callers that register consumers under their type name:
//
//	c.AddReference("Session", rowan.TypeToken(h)) // h is a *Handler: "Handler"
//
// It returns "" for nil and for unnamed types.
func TypeToken(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
