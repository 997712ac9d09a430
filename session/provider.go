package session

import (
	"context"
	"net/http"
)

// Provider resolves the session state for one request. Implementations must be
// safe for concurrent use and should normalize absent or malformed credentials
// to the unauthenticated zero State rather than returning an error.
type Provider interface {
	Resolve(ctx context.Context, r *http.Request) (State, error)
}

// Static is a Provider returning a fixed State. Intended for tests and tooling.
type Static struct {
	State State
}

// Resolve describes the resolve operation and its observable behavior.
//
// Resolve may return an error when input validation, dependency calls, or security checks fail.
// Resolve does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s Static) Resolve(context.Context, *http.Request) (State, error) {
	return s.State, nil
}

// CookieProvider decodes the session cookie into State. When the token carries
// no org claim and an ActiveOrgStore is attached, the store is consulted for
// the session's active organization.
//
// CookieProvider instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CookieProvider struct {
	cookieName string
	codec      *TokenCodec
	orgs       *ActiveOrgStore
}

// NewCookieProvider describes the newcookieprovider operation and its observable behavior.
//
// NewCookieProvider may return an error when input validation, dependency calls, or security checks fail.
// NewCookieProvider does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewCookieProvider(cookieName string, codec *TokenCodec, orgs *ActiveOrgStore) *CookieProvider {
	if cookieName == "" {
		cookieName = "session"
	}
	return &CookieProvider{
		cookieName: cookieName,
		codec:      codec,
		orgs:       orgs,
	}
}

// Resolve describes the resolve operation and its observable behavior.
//
// Resolve may return an error when input validation, dependency calls, or security checks fail.
// Resolve does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *CookieProvider) Resolve(ctx context.Context, r *http.Request) (State, error) {
	if p == nil || p.codec == nil || r == nil {
		return State{}, nil
	}

	cookie, err := r.Cookie(p.cookieName)
	if err != nil || cookie.Value == "" {
		return State{}, nil
	}

	claims, err := p.codec.Parse(cookie.Value)
	if err != nil {
		// Malformed or expired cookies normalize to unauthenticated.
		return State{}, nil
	}

	state := State{
		Authenticated:      true,
		UserID:             claims.UID,
		SessionID:          claims.SID,
		ActiveOrganization: claims.Org,
	}

	if state.ActiveOrganization == "" && p.orgs != nil && state.SessionID != "" {
		slug, err := p.orgs.Active(ctx, state.SessionID)
		if err == nil {
			state.ActiveOrganization = slug
		}
		// Store errors degrade to "no organization"; the engine steers the
		// user to onboarding instead of failing the request.
	}

	return state, nil
}
