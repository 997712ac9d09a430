package goGate

import (
	"github.com/MrEthical07/goGate/attempt"
	"github.com/MrEthical07/goGate/route"
	"github.com/MrEthical07/goGate/session"
	"github.com/redis/go-redis/v9"
)

// Builder defines a public type used by goGate APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	sessions  session.Provider
	attempts  attempt.Store
	auditSink AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis may return an error when input validation, dependency calls, or security checks fail.
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithSessionProvider describes the withsessionprovider operation and its observable behavior.
//
// WithSessionProvider may return an error when input validation, dependency calls, or security checks fail.
// WithSessionProvider does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithSessionProvider(p session.Provider) *Builder {
	b.sessions = p
	return b
}

// WithAttemptStore describes the withattemptstore operation and its observable behavior.
//
// WithAttemptStore may return an error when input validation, dependency calls, or security checks fail.
// WithAttemptStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAttemptStore(s attempt.Store) *Builder {
	b.attempts = s
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms may return an error when input validation, dependency calls, or security checks fail.
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, ErrBuilderReused
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// -------- ROUTE SET --------
	routes, err := route.NewSet(routeSetConfig(cfg.Routes))
	if err != nil {
		return nil, err
	}

	// -------- SESSION PROVIDER --------
	sessions := b.sessions
	if sessions == nil {
		if len(cfg.Session.PublicKey) == 0 && len(cfg.Session.PrivateKey) == 0 {
			return nil, ErrSessionProviderRequired
		}

		var orgs *session.ActiveOrgStore
		if cfg.Session.UseActiveOrgStore {
			if b.redis == nil {
				return nil, ErrRedisRequired
			}
			orgs = session.NewActiveOrgStore(b.redis, cfg.Session.RedisPrefix)
		}

		codec, err := session.NewTokenCodec(session.TokenConfig{
			TTL:           cfg.Session.TokenTTL,
			SigningMethod: session.SigningMethod(cfg.Session.SigningMethod),
			PrivateKey:    cloneBytes(cfg.Session.PrivateKey),
			PublicKey:     cloneBytes(cfg.Session.PublicKey),
		})
		if err != nil {
			return nil, err
		}

		sessions = session.NewCookieProvider(cfg.Session.CookieName, codec, orgs)
	}

	// -------- ATTEMPT STORE --------
	attempts := b.attempts
	if attempts == nil {
		if cfg.Attempt.UseRedis {
			if b.redis == nil {
				return nil, ErrRedisRequired
			}
			attempts = attempt.NewRedisStore(b.redis, attempt.Config{
				CookieName:  cfg.Attempt.CookieName,
				RedisPrefix: cfg.Attempt.RedisPrefix,
				TTL:         cfg.Attempt.TTL,
				MaxAttempts: cfg.Attempt.MaxAttempts,
				Cooldown:    cfg.Attempt.Cooldown,
			})
		} else {
			attempts = attempt.NewCookieStore(cfg.Attempt.CookieName)
		}
	}

	engine := &Engine{
		config:   cloneConfig(cfg),
		routes:   routes,
		rules:    ruleTable(cfg.Redirects),
		sessions: sessions,
		attempts: attempts,
	}

	engine.audit = newAuditPump(cfg.Audit, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	b.built = true

	return engine, nil
}
