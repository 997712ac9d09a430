// Package goGate provides a request authorization routing engine for multi-tenant SaaS
// applications: it classifies inbound request paths against named route categories,
// combines the classification with session state and a sign-in attempt marker, and
// produces exactly one routing decision (allow, or redirect with an optional query).
//
// The package is designed for concurrent server workloads: Engine methods are safe to call
// from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// goGate is the public surface. It exposes [Engine], [Builder], [Config], and value types
// (Decision, MetricsSnapshot, AuditEvent, etc.). Route pattern compilation lives in the
// route subpackage; the default session provider and attempt-marker store live in the
// session and attempt subpackages and are injected into the Engine at build time.
//
// # What this package must NOT do
//
//   - Validate session cryptography inside the decision core. [Engine.Decide] consumes an
//     already-resolved session state; cookie decoding belongs to the session provider.
//   - Perform I/O inside [Engine.Decide]. The decision core is a pure function of
//     (path, session state, attempt marker).
//   - Import any sub-package that re-imports goGate (no import cycles).
//
// # Performance contract
//
// Decide is the hot path. It runs on every request, must not touch Redis, and must not
// allocate beyond the returned Decision. Session and attempt-marker resolution in
// [Engine.DecideRequest] are allowed one Redis round-trip each.
package goGate
