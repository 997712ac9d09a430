package goGate

import "net/url"

// DecisionKind defines a public type used by goGate APIs.
//
// DecisionKind instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type DecisionKind uint8

const (
	// DecisionAllow is an exported constant or variable used by the routing engine.
	DecisionAllow DecisionKind = iota
	// DecisionRedirect is an exported constant or variable used by the routing engine.
	DecisionRedirect
)

// String describes the string operation and its observable behavior.
//
// String may return an error when input validation, dependency calls, or security checks fail.
// String does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (k DecisionKind) String() string {
	if k == DecisionAllow {
		return "allow"
	}
	return "redirect"
}

// RuleID identifies which entry of the ordered rule table produced a decision.
// The numeric order of the identifiers is the evaluation order of the table.
//
// RuleID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RuleID uint8

const (
	// RuleAPIBypass is an exported constant or variable used by the routing engine.
	RuleAPIBypass RuleID = iota
	// RuleVerificationGate is an exported constant or variable used by the routing engine.
	RuleVerificationGate
	// RuleOrgProtected is an exported constant or variable used by the routing engine.
	RuleOrgProtected
	// RuleOrgPublicExempt is an exported constant or variable used by the routing engine.
	RuleOrgPublicExempt
	// RuleOrgSteerDashboard is an exported constant or variable used by the routing engine.
	RuleOrgSteerDashboard
	// RuleOnboardingRevisit is an exported constant or variable used by the routing engine.
	RuleOnboardingRevisit
	// RuleAnonSignIn is an exported constant or variable used by the routing engine.
	RuleAnonSignIn
	// RuleOnboardingSteer is an exported constant or variable used by the routing engine.
	RuleOnboardingSteer
	// RuleFallbackAllow is an exported constant or variable used by the routing engine.
	RuleFallbackAllow
	ruleIDCount
)

// String describes the string operation and its observable behavior.
//
// String may return an error when input validation, dependency calls, or security checks fail.
// String does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r RuleID) String() string {
	switch r {
	case RuleAPIBypass:
		return "api_bypass"
	case RuleVerificationGate:
		return "verification_gate"
	case RuleOrgProtected:
		return "org_protected"
	case RuleOrgPublicExempt:
		return "org_public_exempt"
	case RuleOrgSteerDashboard:
		return "org_steer_dashboard"
	case RuleOnboardingRevisit:
		return "onboarding_revisit"
	case RuleAnonSignIn:
		return "anon_sign_in"
	case RuleOnboardingSteer:
		return "onboarding_steer"
	case RuleFallbackAllow:
		return "fallback_allow"
	default:
		return "unknown"
	}
}

// Decision defines a public type used by goGate APIs.
//
// Decision instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Decision struct {
	Kind   DecisionKind
	Target string
	Query  map[string]string
	Rule   RuleID
}

// Allowed describes the allowed operation and its observable behavior.
//
// Allowed may return an error when input validation, dependency calls, or security checks fail.
// Allowed does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (d Decision) Allowed() bool {
	return d.Kind == DecisionAllow
}

// Redirected describes the redirected operation and its observable behavior.
//
// Redirected may return an error when input validation, dependency calls, or security checks fail.
// Redirected does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (d Decision) Redirected() bool {
	return d.Kind == DecisionRedirect
}

// Location returns the redirect target with the decision query appended, or the
// empty string for an allow decision.
//
//	Docs: docs/engine.md, docs/middleware.md
func (d Decision) Location() string {
	if d.Kind != DecisionRedirect {
		return ""
	}
	if len(d.Query) == 0 {
		return d.Target
	}

	q := url.Values{}
	for k, v := range d.Query {
		q.Set(k, v)
	}

	return d.Target + "?" + q.Encode()
}

func allowDecision(rule RuleID) Decision {
	return Decision{Kind: DecisionAllow, Rule: rule}
}

func redirectDecision(rule RuleID, target string, query map[string]string) Decision {
	return Decision{Kind: DecisionRedirect, Target: target, Query: query, Rule: rule}
}
