package attempt

import (
	"context"
	"net/http"
)

// Marker defines a public type used by goGate APIs.
//
// Marker instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Marker struct {
	Value   string
	Present bool
}

// Of returns a present marker carrying value. An empty value yields the absent
// zero Marker.
func Of(value string) Marker {
	if value == "" {
		return Marker{}
	}
	return Marker{Value: value, Present: true}
}

// Store resolves the attempt marker for one request. Implementations must be
// safe for concurrent use. A missing marker is not an error; errors signal a
// backend failure and callers treat them as "no marker".
type Store interface {
	Lookup(ctx context.Context, r *http.Request) (Marker, error)
}

// CookieStore reads the marker value directly from a named cookie.
//
// CookieStore instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CookieStore struct {
	cookieName string
}

// NewCookieStore describes the newcookiestore operation and its observable behavior.
//
// NewCookieStore may return an error when input validation, dependency calls, or security checks fail.
// NewCookieStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewCookieStore(cookieName string) *CookieStore {
	if cookieName == "" {
		cookieName = "sign-in-attempt"
	}
	return &CookieStore{cookieName: cookieName}
}

// Lookup describes the lookup operation and its observable behavior.
//
// Lookup may return an error when input validation, dependency calls, or security checks fail.
// Lookup does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *CookieStore) Lookup(_ context.Context, r *http.Request) (Marker, error) {
	if s == nil || r == nil {
		return Marker{}, nil
	}

	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		return Marker{}, nil
	}

	return Of(cookie.Value), nil
}
