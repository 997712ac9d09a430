// Package middleware exposes the HTTP adapter that places the goGate decision engine in
// front of a handler chain.
//
// [Gate] calls Engine.DecideRequest for every request: an allow decision injects the
// Decision into the request context and passes control on; a redirect decision writes an
// HTTP redirect to the decision target with its query appended and never reaches the
// wrapped handler.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT implement
// routing-decision logic itself — all decisions are delegated to Engine.DecideRequest.
//
// # What this package must NOT do
//
//   - Inspect cookies or decode session tokens (the Engine's providers do that).
//   - Access Redis (Engine collaborators handle I/O).
//   - Make authorization decisions beyond allow/redirect from Engine.DecideRequest.
package middleware
