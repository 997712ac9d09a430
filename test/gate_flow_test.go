package test

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/attempt"
	"github.com/MrEthical07/goGate/middleware"
	"github.com/MrEthical07/goGate/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// flowEnv wires the full stack the way a host application would: Redis-backed
// attempt and active-org stores, ed25519 session cookies, and the gate
// middleware in front of a plain mux.
type flowEnv struct {
	engine   *goGate.Engine
	codec    *session.TokenCodec
	orgs     *session.ActiveOrgStore
	attempts *attempt.RedisStore
	server   *httptest.Server
}

func newFlowEnv(t *testing.T) *flowEnv {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}

	cfg := goGate.DefaultConfig()
	cfg.Session.PublicKey = pub
	cfg.Session.PrivateKey = priv
	cfg.Session.UseActiveOrgStore = true
	cfg.Attempt.UseRedis = true

	engine, err := goGate.New().WithConfig(cfg).WithRedis(rdb).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(engine.Close)

	codec, err := session.NewTokenCodec(session.TokenConfig{
		TTL:        cfg.Session.TokenTTL,
		PrivateKey: priv,
		PublicKey:  pub,
	})
	if err != nil {
		t.Fatalf("codec: %v", err)
	}

	env := &flowEnv{
		engine:   engine,
		codec:    codec,
		orgs:     session.NewActiveOrgStore(rdb, cfg.Session.RedisPrefix),
		attempts: attempt.NewRedisStore(rdb, attempt.Config{TTL: cfg.Attempt.TTL}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	env.server = httptest.NewServer(middleware.Gate(engine)(mux))
	t.Cleanup(env.server.Close)

	return env
}

// get issues a request without following redirects.
func (env *flowEnv) get(t *testing.T, path string, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	req, err := http.NewRequest("GET", env.server.URL+path, nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func TestFullSignInFlow(t *testing.T) {
	env := newFlowEnv(t)
	ctx := context.Background()

	// Anonymous protected request redirects to sign-in with a return target.
	resp := env.get(t, "/settings")
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/sign-in?redirect=%2Fsettings" {
		t.Fatalf("Location = %q", loc)
	}

	// Verification page is locked until an attempt exists.
	resp = env.get(t, "/sign-in/verify")
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Fatalf("verify without attempt: status = %d, want 307", resp.StatusCode)
	}

	// Begin a sign-in attempt; the marker cookie unlocks verification.
	attemptID, err := env.attempts.Begin(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	attemptCookie := &http.Cookie{Name: "sign-in-attempt", Value: attemptID}

	resp = env.get(t, "/sign-in/verify", attemptCookie)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify with attempt: status = %d, want 200", resp.StatusCode)
	}

	// Mint the session; without an organization the app steers to onboarding.
	token, err := env.codec.Issue("u1", "s1", "")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	sessionCookie := &http.Cookie{Name: "session", Value: token}

	resp = env.get(t, "/settings", sessionCookie)
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Fatalf("org-less protected: status = %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/onboarding" {
		t.Fatalf("Location = %q", loc)
	}

	resp = env.get(t, "/onboarding", sessionCookie)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("onboarding page: status = %d, want 200", resp.StatusCode)
	}

	// Activate an organization; the root now steers to its dashboard and
	// protected pages open up.
	if err := env.orgs.SetActive(ctx, "s1", "acme", time.Hour); err != nil {
		t.Fatalf("SetActive: %v", err)
	}

	resp = env.get(t, "/", sessionCookie)
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Fatalf("root with org: status = %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/org/acme/dashboard" {
		t.Fatalf("Location = %q", loc)
	}

	resp = env.get(t, "/org/acme/dashboard", sessionCookie)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard: status = %d, want 200", resp.StatusCode)
	}

	resp = env.get(t, "/settings", sessionCookie)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("settings with org: status = %d, want 200", resp.StatusCode)
	}
}

func TestAPIRequestsNeverRedirect(t *testing.T) {
	env := newFlowEnv(t)

	resp := env.get(t, "/api/org/acme/members")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("anonymous api request: status = %d, want 200", resp.StatusCode)
	}

	token, err := env.codec.Issue("u1", "s1", "acme")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	resp = env.get(t, "/api/org/acme/members", &http.Cookie{Name: "session", Value: token})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("authenticated api request: status = %d, want 200", resp.StatusCode)
	}
}

func TestExpiredAttemptLocksVerification(t *testing.T) {
	env := newFlowEnv(t)

	attemptID, err := env.attempts.Begin(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := env.attempts.Clear(context.Background(), attemptID); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	resp := env.get(t, "/sign-in/verify", &http.Cookie{Name: "sign-in-attempt", Value: attemptID})
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Fatalf("cleared attempt: status = %d, want 307", resp.StatusCode)
	}
}
