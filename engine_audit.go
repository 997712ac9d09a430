package goGate

import (
	"context"
	"time"

	"github.com/MrEthical07/goGate/session"
)

const (
	auditEventDecisionAllow    = "decision_allow"
	auditEventDecisionRedirect = "decision_redirect"
)

func (e *Engine) emitDecision(
	ctx context.Context,
	path string,
	state session.State,
	decision Decision,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	eventType := auditEventDecisionAllow
	if decision.Kind == DecisionRedirect {
		eventType = auditEventDecisionRedirect
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Path:      path,
		Rule:      decision.Rule.String(),
		Target:    decision.Target,
		UserID:    state.UserID,
		SessionID: state.SessionID,
		IP:        clientIPFromContext(ctx),
		RequestID: requestIDFromContext(ctx),
		Allowed:   decision.Kind == DecisionAllow,
		Metadata:  metadata,
	}

	e.audit.publish(ctx, event)
}
