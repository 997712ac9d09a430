package goGate

import (
	"errors"
	"strings"
	"time"

	"github.com/MrEthical07/goGate/route"
)

// Config defines a public type used by goGate APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Routes    RoutesConfig
	Redirects RedirectConfig
	Session   SessionConfig
	Attempt   AttemptConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

/*
====================================
ROUTES CONFIG
====================================
*/

// RoutesConfig holds the pattern literals for each route category. Literals use the
// route package syntax: a plain path is an exact match, a trailing '*' marks a prefix
// pattern matching the base path and anything nested below it.
//
// RoutesConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RoutesConfig struct {
	Public       []string
	Onboarding   []string
	Protected    []string
	API          []string
	SignInVerify []string
	Auth         []string
	Root         []string
}

/*
====================================
REDIRECT CONFIG
====================================
*/

// RedirectConfig defines a public type used by goGate APIs.
//
// RedirectConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RedirectConfig struct {
	SignInPath       string
	OnboardingPath   string
	DashboardPattern string // must contain the {slug} placeholder
	QueryKey         string
	StatusCode       int
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by goGate APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	CookieName        string
	SigningMethod     string // "ed25519" (default), "hs256" optional
	PrivateKey        []byte
	PublicKey         []byte
	TokenTTL          time.Duration
	UseActiveOrgStore bool
	RedisPrefix       string
	ActiveOrgTTL      time.Duration
}

/*
====================================
ATTEMPT CONFIG
====================================
*/

// AttemptConfig defines a public type used by goGate APIs.
//
// AttemptConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AttemptConfig struct {
	CookieName  string
	UseRedis    bool
	RedisPrefix string
	TTL         time.Duration

	// MaxAttempts > 0 throttles Begin per marker value over Cooldown.
	// Only applies to the Redis-backed store.
	MaxAttempts int
	Cooldown    time.Duration
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig defines a public type used by goGate APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by goGate APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
PRESETS
====================================
*/

// DefaultConfig returns the baseline configuration: the stock SaaS route map,
// the stock redirect targets, cookie-based session and attempt resolution, and
// metrics enabled without latency histograms.
//
//	Docs: docs/config.md
func DefaultConfig() Config {
	return Config{
		Routes: RoutesConfig{
			Public: []string{
				"/",
				"/home",
				"/sign-in*",
				"/sign-up*",
				"/privacy",
				"/terms",
				"/robots.txt",
				"/sitemap.xml",
				"/favicon.ico",
				"/favicon.svg",
				"/favicon-96x96.png",
				"/apple-touch-icon.png",
				"/opengraph-image.png",
			},
			Onboarding:   []string{"/onboarding"},
			Protected:    []string{"/org*", "/settings*"},
			API:          []string{"/api*"},
			SignInVerify: []string{"/sign-in/verify", "/sign-up/verify-email-address"},
			Auth:         []string{"/sign-in*", "/sign-up*"},
			Root:         []string{"/"},
		},
		Redirects: RedirectConfig{
			SignInPath:       "/sign-in",
			OnboardingPath:   "/onboarding",
			DashboardPattern: "/org/{slug}/dashboard",
			QueryKey:         "redirect",
			StatusCode:       307,
		},
		Session: SessionConfig{
			CookieName:    "session",
			SigningMethod: "ed25519",
			TokenTTL:      7 * 24 * time.Hour,
			RedisPrefix:   "ao",
			ActiveOrgTTL:  7 * 24 * time.Hour,
		},
		Attempt: AttemptConfig{
			CookieName:  "sign-in-attempt",
			RedisPrefix: "att",
			TTL:         10 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Routes.Public = cloneStrings(cfg.Routes.Public)
	out.Routes.Onboarding = cloneStrings(cfg.Routes.Onboarding)
	out.Routes.Protected = cloneStrings(cfg.Routes.Protected)
	out.Routes.API = cloneStrings(cfg.Routes.API)
	out.Routes.SignInVerify = cloneStrings(cfg.Routes.SignInVerify)
	out.Routes.Auth = cloneStrings(cfg.Routes.Auth)
	out.Routes.Root = cloneStrings(cfg.Routes.Root)
	out.Session.PrivateKey = cloneBytes(cfg.Session.PrivateKey)
	out.Session.PublicKey = cloneBytes(cfg.Session.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func cloneStrings(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Routes
	if _, err := route.NewSet(routeSetConfig(c.Routes)); err != nil {
		return errors.Join(ErrInvalidRouteConfig, err)
	}

	// Redirects
	if !strings.HasPrefix(c.Redirects.SignInPath, "/") {
		return errors.Join(ErrInvalidRedirectConfig, errors.New("Redirects SignInPath must start with '/'"))
	}
	if !strings.HasPrefix(c.Redirects.OnboardingPath, "/") {
		return errors.Join(ErrInvalidRedirectConfig, errors.New("Redirects OnboardingPath must start with '/'"))
	}
	if !strings.HasPrefix(c.Redirects.DashboardPattern, "/") {
		return errors.Join(ErrInvalidRedirectConfig, errors.New("Redirects DashboardPattern must start with '/'"))
	}
	if !strings.Contains(c.Redirects.DashboardPattern, slugPlaceholder) {
		return errors.Join(ErrInvalidRedirectConfig, errors.New("Redirects DashboardPattern must contain the {slug} placeholder"))
	}
	if c.Redirects.QueryKey == "" {
		return errors.Join(ErrInvalidRedirectConfig, errors.New("Redirects QueryKey must not be empty"))
	}
	if c.Redirects.StatusCode < 300 || c.Redirects.StatusCode > 399 {
		return errors.Join(ErrInvalidRedirectConfig, errors.New("Redirects StatusCode must be a 3xx status"))
	}

	// Session
	if c.Session.CookieName == "" {
		return errors.New("Session CookieName must not be empty")
	}
	if c.Session.SigningMethod != "ed25519" && c.Session.SigningMethod != "hs256" {
		return errors.New("unsupported session signing method")
	}
	if c.Session.TokenTTL <= 0 {
		return errors.New("Session TokenTTL must be > 0")
	}
	if c.Session.UseActiveOrgStore && c.Session.ActiveOrgTTL <= 0 {
		return errors.New("Session ActiveOrgTTL must be > 0 when UseActiveOrgStore is true")
	}

	// Attempt
	if c.Attempt.CookieName == "" {
		return errors.New("Attempt CookieName must not be empty")
	}
	if c.Attempt.UseRedis && c.Attempt.TTL <= 0 {
		return errors.New("Attempt TTL must be > 0 when UseRedis is true")
	}
	if c.Attempt.MaxAttempts < 0 || c.Attempt.Cooldown < 0 {
		return errors.New("Attempt MaxAttempts and Cooldown must not be negative")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when Audit is enabled")
	}

	return nil
}

func routeSetConfig(cfg RoutesConfig) route.Config {
	return route.Config{
		Public:       cfg.Public,
		Onboarding:   cfg.Onboarding,
		Protected:    cfg.Protected,
		API:          cfg.API,
		SignInVerify: cfg.SignInVerify,
		Auth:         cfg.Auth,
		Root:         cfg.Root,
	}
}
