package goGate

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MrEthical07/goGate/attempt"
	"github.com/MrEthical07/goGate/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return rdb
}

func newTestKeys(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate keys: %v", err)
	}
	return pub, priv
}

func newRequestEngine(t *testing.T, rdb *redis.Client, priv ed25519.PrivateKey, pub ed25519.PublicKey, sink AuditSink) *Engine {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Session.PublicKey = pub
	cfg.Session.PrivateKey = priv
	cfg.Session.UseActiveOrgStore = true
	cfg.Attempt.UseRedis = true
	cfg.Audit.Enabled = sink != nil
	cfg.Audit.BufferSize = 16

	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

func issueSessionCookie(t *testing.T, priv ed25519.PrivateKey, pub ed25519.PublicKey, userID, sessionID, org string) string {
	t.Helper()

	codec, err := session.NewTokenCodec(session.TokenConfig{
		TTL:           time.Hour,
		SigningMethod: session.MethodEd25519,
		PrivateKey:    priv,
		PublicKey:     pub,
	})
	if err != nil {
		t.Fatalf("codec: %v", err)
	}

	token, err := codec.Issue(userID, sessionID, org)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return token
}

func TestDecideRequestAnonymousProtectedPath(t *testing.T) {
	rdb := newTestRedis(t)
	pub, priv := newTestKeys(t)
	engine := newRequestEngine(t, rdb, priv, pub, nil)

	r := httptest.NewRequest("GET", "http://app.test/settings", nil)
	d := engine.DecideRequest(context.Background(), r)

	if d.Kind != DecisionRedirect || d.Target != "/sign-in" || d.Query["redirect"] != "/settings" {
		t.Fatalf("unexpected decision %+v", d)
	}
	if got := engine.MetricsSnapshot().Counters[MetricSignInRedirect]; got != 1 {
		t.Fatalf("MetricSignInRedirect = %d, want 1", got)
	}
}

func TestDecideRequestSessionCookieResolvesOrg(t *testing.T) {
	rdb := newTestRedis(t)
	pub, priv := newTestKeys(t)
	engine := newRequestEngine(t, rdb, priv, pub, nil)

	token := issueSessionCookie(t, priv, pub, "u1", "s1", "test-org")

	r := httptest.NewRequest("GET", "http://app.test/", nil)
	r.Header.Set("Cookie", "session="+token)

	d := engine.DecideRequest(context.Background(), r)
	if d.Kind != DecisionRedirect || d.Target != "/org/test-org/dashboard" {
		t.Fatalf("unexpected decision %+v", d)
	}
}

func TestDecideRequestActiveOrgStoreFallback(t *testing.T) {
	rdb := newTestRedis(t)
	pub, priv := newTestKeys(t)
	engine := newRequestEngine(t, rdb, priv, pub, nil)

	// Token minted without an org claim; the active org lives in Redis.
	token := issueSessionCookie(t, priv, pub, "u1", "s1", "")

	orgs := session.NewActiveOrgStore(rdb, "ao")
	if err := orgs.SetActive(context.Background(), "s1", "acme", time.Hour); err != nil {
		t.Fatalf("SetActive: %v", err)
	}

	r := httptest.NewRequest("GET", "http://app.test/", nil)
	r.Header.Set("Cookie", "session="+token)

	d := engine.DecideRequest(context.Background(), r)
	if d.Kind != DecisionRedirect || d.Target != "/org/acme/dashboard" {
		t.Fatalf("unexpected decision %+v", d)
	}
}

func TestDecideRequestWithoutOrgSteersOnboarding(t *testing.T) {
	rdb := newTestRedis(t)
	pub, priv := newTestKeys(t)
	engine := newRequestEngine(t, rdb, priv, pub, nil)

	token := issueSessionCookie(t, priv, pub, "u1", "s1", "")

	r := httptest.NewRequest("GET", "http://app.test/settings", nil)
	r.Header.Set("Cookie", "session="+token)

	d := engine.DecideRequest(context.Background(), r)
	if d.Kind != DecisionRedirect || d.Target != "/onboarding" || d.Rule != RuleOnboardingSteer {
		t.Fatalf("unexpected decision %+v", d)
	}
}

func TestDecideRequestGarbageCookieIsAnonymous(t *testing.T) {
	rdb := newTestRedis(t)
	pub, priv := newTestKeys(t)
	engine := newRequestEngine(t, rdb, priv, pub, nil)

	r := httptest.NewRequest("GET", "http://app.test/org/test-org/dashboard", nil)
	r.Header.Set("Cookie", "session=not-a-token")

	d := engine.DecideRequest(context.Background(), r)
	if d.Kind != DecisionRedirect || d.Target != "/sign-in" {
		t.Fatalf("garbage cookie must resolve anonymous, got %+v", d)
	}
}

func TestDecideRequestAttemptMarkerGate(t *testing.T) {
	rdb := newTestRedis(t)
	pub, priv := newTestKeys(t)
	engine := newRequestEngine(t, rdb, priv, pub, nil)

	store := attempt.NewRedisStore(rdb, attempt.Config{TTL: 10 * time.Minute})
	attemptID, err := store.Begin(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	withMarker := httptest.NewRequest("GET", "http://app.test/sign-in/verify", nil)
	withMarker.Header.Set("Cookie", "sign-in-attempt="+attemptID)

	if d := engine.DecideRequest(context.Background(), withMarker); !d.Allowed() {
		t.Fatalf("verify with marker must be allowed, got %+v", d)
	}

	withoutMarker := httptest.NewRequest("GET", "http://app.test/sign-in/verify", nil)
	if d := engine.DecideRequest(context.Background(), withoutMarker); d.Kind != DecisionRedirect || d.Target != "/sign-in" {
		t.Fatalf("verify without marker must redirect, got %+v", d)
	}
}

func TestDecideRequestEmitsAuditEvents(t *testing.T) {
	rdb := newTestRedis(t)
	pub, priv := newTestKeys(t)
	sink := NewChannelSink(16)
	engine := newRequestEngine(t, rdb, priv, pub, sink)

	r := httptest.NewRequest("GET", "http://app.test/settings", nil)
	ctx := WithRequestID(WithClientIP(context.Background(), "10.0.0.1"), "req-42")
	engine.DecideRequest(ctx, r)

	select {
	case event := <-sink.Events():
		if event.EventType != auditEventDecisionRedirect {
			t.Fatalf("unexpected event type %q", event.EventType)
		}
		if event.Path != "/settings" || event.Target != "/sign-in" {
			t.Fatalf("unexpected event %+v", event)
		}
		if event.IP != "10.0.0.1" || event.RequestID != "req-42" {
			t.Fatalf("request metadata not propagated: %+v", event)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for audit event")
	}
}

func TestEngineReady(t *testing.T) {
	var nilEngine *Engine
	if err := nilEngine.Ready(); err != ErrEngineNotReady {
		t.Fatalf("nil engine: err = %v, want ErrEngineNotReady", err)
	}
	if err := new(Engine).Ready(); err != ErrEngineNotReady {
		t.Fatalf("zero engine: err = %v, want ErrEngineNotReady", err)
	}

	rdb := newTestRedis(t)
	pub, priv := newTestKeys(t)
	engine := newRequestEngine(t, rdb, priv, pub, nil)
	if err := engine.Ready(); err != nil {
		t.Fatalf("built engine: %v", err)
	}
}

func TestBuilderRefusesReuse(t *testing.T) {
	rdb := newTestRedis(t)
	pub, priv := newTestKeys(t)

	cfg := DefaultConfig()
	cfg.Session.PublicKey = pub
	cfg.Session.PrivateKey = priv

	b := New().WithConfig(cfg).WithRedis(rdb)
	if _, err := b.Build(); err != nil {
		t.Fatalf("first build: %v", err)
	}
	if _, err := b.Build(); err == nil {
		t.Fatal("expected reuse error")
	}
}

func TestBuildRequiresSessionMaterial(t *testing.T) {
	if _, err := New().Build(); err == nil {
		t.Fatal("expected error building without keys or provider")
	}
}

func TestBuildRequiresRedisForRedisBackedStores(t *testing.T) {
	pub, priv := newTestKeys(t)

	cfg := DefaultConfig()
	cfg.Session.PublicKey = pub
	cfg.Session.PrivateKey = priv
	cfg.Attempt.UseRedis = true

	if _, err := New().WithConfig(cfg).Build(); err == nil {
		t.Fatal("expected redis requirement error")
	}
}
