// Package rate provides internal primitives used to build Redis-backed rate limit keys,
// errors, and limiter behavior for sign-in attempt issuance.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on first hit. Key prefixes:
//   - rl:v: — attempts per marker value
//   - rl:i: — attempts per client IP
//
// # What this package must NOT do
//
//   - Implement domain-specific policies (those live in the attempt package).
//   - Be imported outside the goGate module.
package rate
