package goGate

import (
	"strings"

	"github.com/MrEthical07/goGate/attempt"
	"github.com/MrEthical07/goGate/route"
	"github.com/MrEthical07/goGate/session"
)

const slugPlaceholder = "{slug}"

// ruleInput is the full input of one decision: the classified path plus the
// normalized session state and attempt marker.
type ruleInput struct {
	path   string
	class  route.Classification
	state  session.State
	marker attempt.Marker
}

// rule is one entry of the ordered decision table. when reports whether the
// rule fires for the input; produce builds the decision when it does.
type rule struct {
	id      RuleID
	when    func(in ruleInput) bool
	produce func(in ruleInput) Decision
}

// ruleTable builds the ordered rule set. Evaluation is strictly top to bottom
// and the first rule whose predicate holds produces the decision; every later
// rule assumes the earlier ones did not fire, so the order of this slice is a
// behavioral contract, not a style choice.
//
// Precedence notes:
//   - API traffic is allowed before anything else looks at session state; API
//     handlers do their own authorization.
//   - Verification pages are gated on the attempt marker before the
//     authenticated branches, so a signed-in user cannot probe the verify UI
//     for arbitrary emails either.
//   - A path can be both public and auth (the sign-in page is). The public
//     exemption for organization members deliberately excludes root and auth
//     so those users are steered off marketing and auth screens onto their
//     dashboard.
func ruleTable(cfg RedirectConfig) []rule {
	return []rule{
		{
			id:   RuleAPIBypass,
			when: func(in ruleInput) bool { return in.class.API },
			produce: func(in ruleInput) Decision {
				return allowDecision(RuleAPIBypass)
			},
		},
		{
			id:   RuleVerificationGate,
			when: func(in ruleInput) bool { return in.class.SignInVerify },
			produce: func(in ruleInput) Decision {
				if in.marker.Present {
					return allowDecision(RuleVerificationGate)
				}
				return redirectDecision(RuleVerificationGate, cfg.SignInPath, nil)
			},
		},
		{
			id: RuleOrgProtected,
			when: func(in ruleInput) bool {
				return in.state.HasOrganization() && in.class.Protected
			},
			produce: func(in ruleInput) Decision {
				return allowDecision(RuleOrgProtected)
			},
		},
		{
			id: RuleOrgPublicExempt,
			when: func(in ruleInput) bool {
				return in.state.HasOrganization() && in.class.Public && !in.class.Root && !in.class.Auth
			},
			produce: func(in ruleInput) Decision {
				return allowDecision(RuleOrgPublicExempt)
			},
		},
		{
			id: RuleOrgSteerDashboard,
			when: func(in ruleInput) bool {
				return in.state.HasOrganization()
			},
			produce: func(in ruleInput) Decision {
				return redirectDecision(
					RuleOrgSteerDashboard,
					dashboardPath(cfg.DashboardPattern, in.state.ActiveOrganization),
					nil,
				)
			},
		},
		{
			id: RuleOnboardingRevisit,
			when: func(in ruleInput) bool {
				return in.state.Authenticated && in.class.Onboarding
			},
			produce: func(in ruleInput) Decision {
				return allowDecision(RuleOnboardingRevisit)
			},
		},
		{
			id: RuleAnonSignIn,
			when: func(in ruleInput) bool {
				return !in.state.Authenticated && !in.class.Public
			},
			produce: func(in ruleInput) Decision {
				return redirectDecision(RuleAnonSignIn, cfg.SignInPath, map[string]string{
					cfg.QueryKey: in.path,
				})
			},
		},
		{
			id: RuleOnboardingSteer,
			when: func(in ruleInput) bool {
				// The onboarding path itself was already allowed by
				// RuleOnboardingRevisit; only off-path users are steered.
				return in.state.Authenticated && !in.state.HasOrganization() && !in.class.Onboarding
			},
			produce: func(in ruleInput) Decision {
				return redirectDecision(RuleOnboardingSteer, cfg.OnboardingPath, nil)
			},
		},
		{
			id:   RuleFallbackAllow,
			when: func(in ruleInput) bool { return true },
			produce: func(in ruleInput) Decision {
				return allowDecision(RuleFallbackAllow)
			},
		},
	}
}

func dashboardPath(pattern, slug string) string {
	return strings.ReplaceAll(pattern, slugPlaceholder, slug)
}
