// Package session resolves per-request session state for the goGate decision engine.
//
// The engine consumes an already-trusted [State]; everything cryptographic stays in this
// package. [CookieProvider] decodes a signed session cookie (ed25519 by default, hs256
// optional) and normalizes every decode failure to the unauthenticated zero State — a
// malformed or expired cookie is never an error on the request path. [ActiveOrgStore]
// keeps the per-session active organization in Redis so that switching organizations does
// not require reissuing the cookie.
//
// # Architecture boundaries
//
// This package translates request credentials into State. It makes no authorization
// decisions and never redirects — that is the engine's job.
//
// # What this package must NOT do
//
//   - Issue redirects or inspect request paths.
//   - Surface cookie decode failures as errors (they normalize to unauthenticated).
//   - Import goGate (the root package injects providers, not the other way around).
package session
