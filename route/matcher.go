package route

// Matcher is a compiled route category: an ordered pattern list matched with
// logical OR.
//
// Matcher instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Matcher struct {
	patterns []Pattern
}

// NewMatcher describes the newmatcher operation and its observable behavior.
//
// NewMatcher may return an error when input validation, dependency calls, or security checks fail.
// NewMatcher does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMatcher(patterns ...Pattern) *Matcher {
	out := make([]Pattern, len(patterns))
	copy(out, patterns)
	return &Matcher{patterns: out}
}

// Compile parses a list of pattern literals into a Matcher.
//
//	Docs: docs/routes.md
func Compile(literals []string) (*Matcher, error) {
	patterns := make([]Pattern, 0, len(literals))
	for _, literal := range literals {
		p, err := ParsePattern(literal)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return &Matcher{patterns: patterns}, nil
}

// Matches reports whether path satisfies any pattern of the category. An empty
// matcher matches nothing.
func (m *Matcher) Matches(path string) bool {
	if m == nil {
		return false
	}
	for _, p := range m.patterns {
		if p.Matches(path) {
			return true
		}
	}
	return false
}

// Patterns returns a copy of the compiled pattern list.
func (m *Matcher) Patterns() []Pattern {
	if m == nil {
		return nil
	}
	out := make([]Pattern, len(m.patterns))
	copy(out, m.patterns)
	return out
}
