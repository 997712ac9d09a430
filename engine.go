package goGate

import (
	"context"
	"net/http"
	"time"

	"github.com/MrEthical07/goGate/attempt"
	"github.com/MrEthical07/goGate/route"
	"github.com/MrEthical07/goGate/session"
)

// Engine defines a public type used by goGate APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config   Config
	routes   *route.Set
	rules    []rule
	sessions session.Provider
	attempts attempt.Store
	audit    *auditPump
	metrics  *Metrics
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.dropCount()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// Ready reports whether the engine was produced by a successful Build.
// A nil or zero Engine returns ErrEngineNotReady.
func (e *Engine) Ready() error {
	if e == nil || e.routes == nil || len(e.rules) == 0 {
		return ErrEngineNotReady
	}
	return nil
}

// RedirectStatus returns the HTTP status code redirects should be issued with.
func (e *Engine) RedirectStatus() int {
	if e == nil || e.config.Redirects.StatusCode == 0 {
		return http.StatusTemporaryRedirect
	}
	return e.config.Redirects.StatusCode
}

// Classify exposes the compiled route classification for a path. Intended for
// introspection and tests; Decide performs its own classification.
func (e *Engine) Classify(path string) route.Classification {
	if e == nil {
		return route.Classification{}
	}
	return e.routes.Classify(path)
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// Decide evaluates the ordered rule table for one request. It is a pure
// function of its inputs: deterministic, total, no I/O, and safe for unbounded
// concurrent use. An organization slug on an unauthenticated state is ignored.
// On a nil or unbuilt Engine it returns the fallback allow decision; the HTTP
// middleware refuses such engines with Ready before Decide is ever reached.
//
//	Docs: docs/engine.md
func (e *Engine) Decide(path string, state session.State, marker attempt.Marker) Decision {
	if e.Ready() != nil {
		return allowDecision(RuleFallbackAllow)
	}
	if !state.Authenticated {
		state.ActiveOrganization = ""
	}

	in := ruleInput{
		path:   path,
		class:  e.routes.Classify(path),
		state:  state,
		marker: marker,
	}

	for _, r := range e.rules {
		if r.when(in) {
			return r.produce(in)
		}
	}

	// The table ends in an always-true rule; this is unreachable but keeps
	// Decide total even against a malformed table.
	return allowDecision(RuleFallbackAllow)
}

// DecideRequest resolves session state and attempt marker for the request,
// evaluates Decide on its path, and records metrics and an audit event.
// Resolution failures normalize to the unauthenticated state and the absent
// marker; they never surface as errors on the request path.
//
// DecideRequest may return an error when input validation, dependency calls, or security checks fail.
// DecideRequest does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) DecideRequest(ctx context.Context, r *http.Request) Decision {
	if e.metrics != nil && e.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() {
			e.metrics.Observe(MetricDecideLatency, time.Since(start))
		}()
	}

	var state session.State
	if e.sessions != nil {
		resolved, err := e.sessions.Resolve(ctx, r)
		if err != nil {
			e.metricInc(MetricSessionResolveFailure)
		} else {
			state = resolved
		}
	}

	var marker attempt.Marker
	if e.attempts != nil {
		resolved, err := e.attempts.Lookup(ctx, r)
		if err != nil {
			e.metricInc(MetricAttemptResolveFailure)
		} else {
			marker = resolved
		}
	}

	decision := e.Decide(r.URL.Path, state, marker)

	e.observeDecision(decision)
	e.emitDecision(ctx, r.URL.Path, state, decision, nil)

	return decision
}

func (e *Engine) observeDecision(decision Decision) {
	if decision.Kind == DecisionAllow {
		e.metricInc(MetricDecisionAllow)
	} else {
		e.metricInc(MetricDecisionRedirect)
	}

	switch decision.Rule {
	case RuleAPIBypass:
		e.metricInc(MetricAPIBypass)
	case RuleVerificationGate:
		if decision.Kind == DecisionAllow {
			e.metricInc(MetricVerifyAllowed)
		} else {
			e.metricInc(MetricVerifyRejected)
		}
	case RuleOrgProtected:
		e.metricInc(MetricProtectedAllow)
	case RuleOrgPublicExempt:
		e.metricInc(MetricPublicExempt)
	case RuleOrgSteerDashboard:
		e.metricInc(MetricDashboardSteer)
	case RuleOnboardingRevisit:
		e.metricInc(MetricOnboardingRevisit)
	case RuleAnonSignIn:
		e.metricInc(MetricSignInRedirect)
	case RuleOnboardingSteer:
		e.metricInc(MetricOnboardingSteer)
	case RuleFallbackAllow:
		e.metricInc(MetricFallbackAllow)
	}
}
