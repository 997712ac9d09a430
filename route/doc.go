// Package route compiles named route categories into immutable path matchers used by the
// goGate decision engine.
//
// # Pattern semantics
//
// A [Pattern] has exactly two variants: an exact pattern matches a single literal path;
// a prefix pattern matches its base path and any path nested one or more segments below
// it. The separator is mandatory for nesting, so the prefix base "/sign-in" matches
// "/sign-in" and "/sign-in/verify" but never "/sign-in-extra". Matching is case-sensitive
// over the normalized request path only: no query string, no trailing-slash folding.
//
// # Architecture boundaries
//
// This package is a leaf: it performs no I/O, holds no mutable state after compilation,
// and knows nothing about sessions or decisions. Category precedence is not resolved
// here — a path may match several categories and the decision engine owns the ordering.
//
// # What this package must NOT do
//
//   - Interpret regular expressions or any pattern syntax beyond the '*' suffix form.
//   - Normalize, rewrite, or canonicalize paths.
//   - Import goGate or any of its other subpackages.
package route
