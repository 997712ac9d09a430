package session

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SigningMethod defines a public type used by goGate APIs.
//
// SigningMethod instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SigningMethod string

const (
	// MethodEd25519 is an exported constant or variable used by the session provider.
	MethodEd25519 SigningMethod = "ed25519"
	// MethodHS256 is an exported constant or variable used by the session provider.
	MethodHS256 SigningMethod = "hs256"
)

// TokenConfig defines a public type used by goGate APIs.
//
// TokenConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenConfig struct {
	TTL           time.Duration
	SigningMethod SigningMethod
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
}

// Claims defines a public type used by goGate APIs.
//
// Claims instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Claims struct {
	UID string `json:"uid"`
	SID string `json:"sid"`
	Org string `json:"org,omitempty"`
	jwt.RegisteredClaims
}

// TokenCodec issues and parses the signed session token carried in the session
// cookie. Verification only needs the public half; a host that never mints
// tokens may omit the private key.
//
// TokenCodec instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenCodec struct {
	config    TokenConfig
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
}

// NewTokenCodec describes the newtokencodec operation and its observable behavior.
//
// NewTokenCodec may return an error when input validation, dependency calls, or security checks fail.
// NewTokenCodec does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewTokenCodec(cfg TokenConfig) (*TokenCodec, error) {
	if cfg.TTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}

	c := &TokenCodec{config: cfg}

	switch cfg.SigningMethod {
	case "", MethodEd25519:
		c.method = jwt.SigningMethodEdDSA
		if len(cfg.PublicKey) != ed25519.PublicKeySize {
			return nil, errors.New("ed25519 requires a 32-byte public key")
		}
		c.verifyKey = ed25519.PublicKey(cfg.PublicKey)

		if len(cfg.PrivateKey) > 0 {
			switch len(cfg.PrivateKey) {
			case ed25519.PrivateKeySize:
				c.signKey = ed25519.PrivateKey(cfg.PrivateKey)
			case ed25519.SeedSize:
				c.signKey = ed25519.NewKeyFromSeed(cfg.PrivateKey)
			default:
				return nil, errors.New("ed25519 private key must be a 64-byte key or 32-byte seed")
			}
		}
	case MethodHS256:
		c.method = jwt.SigningMethodHS256
		if len(cfg.PrivateKey) == 0 {
			return nil, errors.New("hs256 requires a shared secret")
		}
		c.signKey = cfg.PrivateKey
		c.verifyKey = cfg.PrivateKey
	default:
		return nil, errors.New("unsupported signing method")
	}

	return c, nil
}

// Issue describes the issue operation and its observable behavior.
//
// Issue may return an error when input validation, dependency calls, or security checks fail.
// Issue does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *TokenCodec) Issue(userID, sessionID, org string) (string, error) {
	if c == nil || c.signKey == nil {
		return "", errors.New("codec has no signing key")
	}
	if userID == "" || sessionID == "" {
		return "", errors.New("user and session identifiers are required")
	}

	now := time.Now()
	claims := Claims{
		UID: userID,
		SID: sessionID,
		Org: org,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.config.TTL)),
		},
	}

	return jwt.NewWithClaims(c.method, claims).SignedString(c.signKey)
}

// Parse describes the parse operation and its observable behavior.
//
// Parse may return an error when input validation, dependency calls, or security checks fail.
// Parse does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *TokenCodec) Parse(token string) (*Claims, error) {
	if c == nil || c.verifyKey == nil {
		return nil, errors.New("codec has no verify key")
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != c.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return c.verifyKey, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid session token")
	}
	if claims.UID == "" || claims.SID == "" {
		return nil, errors.New("session token missing identity claims")
	}

	return claims, nil
}
