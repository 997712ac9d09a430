// Package attempt resolves the sign-in attempt marker consumed by the goGate decision
// engine. The marker is a short-lived signal (typically the email address of an
// in-progress one-time-code flow) that a verification step was legitimately initiated
// for this client; without it the engine redirects verification pages back to sign-in.
//
// Two store implementations are provided. [CookieStore] reads the marker value straight
// from a named cookie. [RedisStore] keeps the value server-side under a TTL and hands
// the client only an opaque attempt id, so the pending email never travels in the
// cookie. Redis errors degrade to "no marker present" — the verification gate then
// fails closed toward sign-in.
//
// # What this package must NOT do
//
//   - Run the verification flow itself (code generation, delivery, confirmation).
//   - Make routing decisions; it only reports marker presence.
package attempt
