package session

// State defines a public type used by goGate APIs.
//
// State instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type State struct {
	Authenticated      bool
	UserID             string
	SessionID          string
	ActiveOrganization string
}

// HasOrganization reports whether the state carries an active organization. An
// organization slug on an unauthenticated state is ignored.
func (s State) HasOrganization() bool {
	return s.Authenticated && s.ActiveOrganization != ""
}
