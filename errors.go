package goGate

import "errors"

var (
	// ErrEngineNotReady is an exported constant or variable used by the routing engine.
	ErrEngineNotReady = errors.New("engine not ready")
	// ErrBuilderReused is an exported constant or variable used by the routing engine.
	ErrBuilderReused = errors.New("builder already used")
	// ErrRedisRequired is an exported constant or variable used by the routing engine.
	ErrRedisRequired = errors.New("redis client required")
	// ErrSessionProviderRequired is an exported constant or variable used by the routing engine.
	ErrSessionProviderRequired = errors.New("session provider required")
	// ErrInvalidRouteConfig is an exported constant or variable used by the routing engine.
	ErrInvalidRouteConfig = errors.New("invalid route configuration")
	// ErrInvalidRedirectConfig is an exported constant or variable used by the routing engine.
	ErrInvalidRedirectConfig = errors.New("invalid redirect configuration")
)
