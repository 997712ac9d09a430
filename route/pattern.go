package route

import (
	"errors"
	"fmt"
	"strings"
)

// Kind defines a public type used by goGate APIs.
//
// Kind instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Kind uint8

const (
	// KindExact is an exported constant or variable used by the route classifier.
	KindExact Kind = iota
	// KindPrefix is an exported constant or variable used by the route classifier.
	KindPrefix
)

// ErrInvalidPattern is an exported constant or variable used by the route classifier.
var ErrInvalidPattern = errors.New("invalid route pattern")

// Pattern is a compiled path pattern: either an exact path or a prefix base.
//
// Pattern instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Pattern struct {
	kind Kind
	base string
}

// Exact returns a pattern matching only the literal path.
func Exact(path string) Pattern {
	return Pattern{kind: KindExact, base: path}
}

// Prefix returns a pattern matching base and any path nested below base.
func Prefix(base string) Pattern {
	return Pattern{kind: KindPrefix, base: base}
}

// ParsePattern compiles a pattern literal. A trailing '*' marks a prefix pattern;
// anything else is an exact pattern. Literals must start with '/' and may not
// contain '*' anywhere but the final position.
//
//	Docs: docs/routes.md
func ParsePattern(literal string) (Pattern, error) {
	if literal == "" {
		return Pattern{}, fmt.Errorf("%w: empty literal", ErrInvalidPattern)
	}
	if !strings.HasPrefix(literal, "/") {
		return Pattern{}, fmt.Errorf("%w: %q must start with '/'", ErrInvalidPattern, literal)
	}

	if strings.HasSuffix(literal, "*") {
		base := literal[:len(literal)-1]
		if base == "" || strings.Contains(base, "*") {
			return Pattern{}, fmt.Errorf("%w: %q", ErrInvalidPattern, literal)
		}
		if strings.HasSuffix(base, "/") && base != "/" {
			return Pattern{}, fmt.Errorf("%w: %q prefix base must not end with '/'", ErrInvalidPattern, literal)
		}
		return Prefix(base), nil
	}

	if strings.Contains(literal, "*") {
		return Pattern{}, fmt.Errorf("%w: %q wildcard is only valid as a suffix", ErrInvalidPattern, literal)
	}

	return Exact(literal), nil
}

// Kind describes the kind operation and its observable behavior.
//
// Kind may return an error when input validation, dependency calls, or security checks fail.
// Kind does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p Pattern) Kind() Kind {
	return p.kind
}

// Base describes the base operation and its observable behavior.
//
// Base may return an error when input validation, dependency calls, or security checks fail.
// Base does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p Pattern) Base() string {
	return p.base
}

// String renders the pattern back in literal syntax.
func (p Pattern) String() string {
	if p.kind == KindPrefix {
		return p.base + "*"
	}
	return p.base
}

// Matches reports whether path satisfies the pattern. For a prefix pattern the
// path must equal the base or continue past it with a '/' separator.
func (p Pattern) Matches(path string) bool {
	if p.kind == KindExact {
		return path == p.base
	}
	if path == p.base {
		return true
	}
	if p.base == "/" {
		return strings.HasPrefix(path, "/")
	}
	return strings.HasPrefix(path, p.base+"/")
}
