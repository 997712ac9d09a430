package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrStoreUnavailable is an exported constant or variable used by the session provider.
var ErrStoreUnavailable = errors.New("active organization store unavailable")

// ActiveOrgStore keeps the active organization slug for each session in Redis.
// The record is written by the host application when a user selects or switches
// an organization and read by CookieProvider when the session token carries no
// org claim.
//
// ActiveOrgStore instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ActiveOrgStore struct {
	redis  redis.UniversalClient
	prefix string
}

// NewActiveOrgStore describes the newactiveorgstore operation and its observable behavior.
//
// NewActiveOrgStore may return an error when input validation, dependency calls, or security checks fail.
// NewActiveOrgStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewActiveOrgStore(redisClient redis.UniversalClient, prefix string) *ActiveOrgStore {
	if prefix == "" {
		prefix = "ao"
	}
	return &ActiveOrgStore{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (s *ActiveOrgStore) key(sessionID string) string {
	return s.prefix + ":" + sessionID
}

// SetActive describes the setactive operation and its observable behavior.
//
// SetActive may return an error when input validation, dependency calls, or security checks fail.
// SetActive does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *ActiveOrgStore) SetActive(ctx context.Context, sessionID, slug string, ttl time.Duration) error {
	if s == nil || s.redis == nil {
		return ErrStoreUnavailable
	}
	if sessionID == "" || slug == "" {
		return errors.New("session id and slug are required")
	}
	return s.redis.Set(ctx, s.key(sessionID), slug, ttl).Err()
}

// Active returns the active organization slug for the session, or the empty
// string when none is recorded.
//
//	Docs: docs/session.md
func (s *ActiveOrgStore) Active(ctx context.Context, sessionID string) (string, error) {
	if s == nil || s.redis == nil {
		return "", ErrStoreUnavailable
	}

	slug, err := s.redis.Get(ctx, s.key(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", errors.Join(ErrStoreUnavailable, err)
	}

	return slug, nil
}

// Clear describes the clear operation and its observable behavior.
//
// Clear may return an error when input validation, dependency calls, or security checks fail.
// Clear does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *ActiveOrgStore) Clear(ctx context.Context, sessionID string) error {
	if s == nil || s.redis == nil {
		return ErrStoreUnavailable
	}
	return s.redis.Del(ctx, s.key(sessionID)).Err()
}
