package middleware

import (
	"context"
	"net/http"

	goGate "github.com/MrEthical07/goGate"
)

type decisionContextKey struct{}

func DecisionFromContext(ctx context.Context) (goGate.Decision, bool) {
	d, ok := ctx.Value(decisionContextKey{}).(goGate.Decision)
	return d, ok
}

func Gate(engine *goGate.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := engine.Ready(); err != nil {
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
				return
			}

			ctx := goGate.WithClientIP(r.Context(), clientIP(r))
			decision := engine.DecideRequest(ctx, r)

			if decision.Redirected() {
				http.Redirect(w, r, decision.Location(), engine.RedirectStatus())
				return
			}

			ctx = context.WithValue(ctx, decisionContextKey{}, decision)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}

	host := r.RemoteAddr
	for i := len(host) - 1; i >= 0; i-- {
		if host[i] == ':' {
			return host[:i]
		}
	}

	return host
}
