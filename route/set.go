package route

import "fmt"

// Config carries the pattern literals for each named category.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Public       []string
	Onboarding   []string
	Protected    []string
	API          []string
	SignInVerify []string
	Auth         []string
	Root         []string
}

// Classification is the result of matching one path against every category.
// Categories are non-exclusive: several flags may be set for the same path.
//
// Classification instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Classification struct {
	Public       bool
	Onboarding   bool
	Protected    bool
	API          bool
	SignInVerify bool
	Auth         bool
	Root         bool
}

// Set holds the compiled matchers for all categories. A Set is immutable after
// NewSet and safe for unbounded concurrent use.
//
// Set instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Set struct {
	public       *Matcher
	onboarding   *Matcher
	protected    *Matcher
	api          *Matcher
	signInVerify *Matcher
	auth         *Matcher
	root         *Matcher
}

// NewSet describes the newset operation and its observable behavior.
//
// NewSet may return an error when input validation, dependency calls, or security checks fail.
// NewSet does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewSet(cfg Config) (*Set, error) {
	s := &Set{}

	for _, c := range []struct {
		name     string
		literals []string
		target   **Matcher
	}{
		{"public", cfg.Public, &s.public},
		{"onboarding", cfg.Onboarding, &s.onboarding},
		{"protected", cfg.Protected, &s.protected},
		{"api", cfg.API, &s.api},
		{"signInVerify", cfg.SignInVerify, &s.signInVerify},
		{"auth", cfg.Auth, &s.auth},
		{"root", cfg.Root, &s.root},
	} {
		m, err := Compile(c.literals)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", c.name, err)
		}
		*c.target = m
	}

	return s, nil
}

// Classify matches path against every category. An unclassified path simply
// yields the zero Classification; that is not an error.
func (s *Set) Classify(path string) Classification {
	if s == nil {
		return Classification{}
	}
	return Classification{
		Public:       s.public.Matches(path),
		Onboarding:   s.onboarding.Matches(path),
		Protected:    s.protected.Matches(path),
		API:          s.api.Matches(path),
		SignInVerify: s.signInVerify.Matches(path),
		Auth:         s.auth.Matches(path),
		Root:         s.root.Matches(path),
	}
}
