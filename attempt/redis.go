package attempt

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MrEthical07/goGate/internal/rate"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrStoreUnavailable is an exported constant or variable used by the attempt store.
var ErrStoreUnavailable = errors.New("attempt store unavailable")

// ErrTooManyAttempts is an exported constant or variable used by the attempt store.
var ErrTooManyAttempts = errors.New("too many sign-in attempts")

// Config defines a public type used by goGate APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	CookieName  string
	RedisPrefix string
	TTL         time.Duration

	// MaxAttempts > 0 enables a fixed-window throttle on Begin, counted per
	// marker value over Cooldown. Zero disables throttling.
	MaxAttempts int
	Cooldown    time.Duration
}

// RedisStore keeps marker values server-side. The cookie carries only an opaque
// attempt id issued by Begin; the pending email never leaves the backend.
//
// RedisStore instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RedisStore struct {
	redis      redis.UniversalClient
	cookieName string
	prefix     string
	ttl        time.Duration
	limiter    *rate.Limiter
}

// NewRedisStore describes the newredisstore operation and its observable behavior.
//
// NewRedisStore may return an error when input validation, dependency calls, or security checks fail.
// NewRedisStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRedisStore(redisClient redis.UniversalClient, cfg Config) *RedisStore {
	if cfg.CookieName == "" {
		cfg.CookieName = "sign-in-attempt"
	}
	if cfg.RedisPrefix == "" {
		cfg.RedisPrefix = "att"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Minute
	}

	var limiter *rate.Limiter
	if cfg.MaxAttempts > 0 {
		cooldown := cfg.Cooldown
		if cooldown <= 0 {
			cooldown = cfg.TTL
		}
		limiter = rate.New(redisClient, rate.Config{
			MaxAttempts:      cfg.MaxAttempts,
			CooldownDuration: cooldown,
		})
	}

	return &RedisStore{
		redis:      redisClient,
		cookieName: cfg.CookieName,
		prefix:     cfg.RedisPrefix,
		ttl:        cfg.TTL,
		limiter:    limiter,
	}
}

func (s *RedisStore) key(attemptID string) string {
	return s.prefix + ":" + attemptID
}

// Begin records a new attempt marker and returns the opaque attempt id the host
// should set as the attempt cookie value.
//
//	Docs: docs/attempt.md
func (s *RedisStore) Begin(ctx context.Context, value string) (string, error) {
	if s == nil || s.redis == nil {
		return "", ErrStoreUnavailable
	}
	if value == "" {
		return "", errors.New("marker value is required")
	}

	if s.limiter != nil {
		if err := s.limiter.Increment(ctx, value, ""); err != nil {
			if errors.Is(err, rate.ErrRateLimited) {
				return "", ErrTooManyAttempts
			}
			return "", errors.Join(ErrStoreUnavailable, err)
		}
	}

	attemptID := uuid.NewString()
	if err := s.redis.Set(ctx, s.key(attemptID), value, s.ttl).Err(); err != nil {
		return "", errors.Join(ErrStoreUnavailable, err)
	}

	return attemptID, nil
}

// Lookup describes the lookup operation and its observable behavior.
//
// Lookup may return an error when input validation, dependency calls, or security checks fail.
// Lookup does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) Lookup(ctx context.Context, r *http.Request) (Marker, error) {
	if s == nil || s.redis == nil || r == nil {
		return Marker{}, nil
	}

	cookie, err := r.Cookie(s.cookieName)
	if err != nil || cookie.Value == "" {
		return Marker{}, nil
	}

	value, err := s.redis.Get(ctx, s.key(cookie.Value)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Marker{}, nil
		}
		return Marker{}, errors.Join(ErrStoreUnavailable, err)
	}

	return Of(value), nil
}

// Clear consumes the marker once the verification flow completes. A completed
// verification also refunds the issuance budget for the marker value, so a
// user who just verified is not locked out of starting over.
func (s *RedisStore) Clear(ctx context.Context, attemptID string) error {
	if s == nil || s.redis == nil {
		return ErrStoreUnavailable
	}

	if s.limiter != nil {
		value, err := s.redis.Get(ctx, s.key(attemptID)).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return errors.Join(ErrStoreUnavailable, err)
		}
		if value != "" {
			if err := s.limiter.Reset(ctx, value, ""); err != nil {
				return errors.Join(ErrStoreUnavailable, err)
			}
		}
	}

	return s.redis.Del(ctx, s.key(attemptID)).Err()
}
