package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mrouhi13/laum/internal/security"
	"github.com/mrouhi13/laum/pkg/logger"
)

type ctxKey int

const claimsKey ctxKey = iota

// RequireStaff rejects requests without a valid staff bearer token and
// stores the token claims in the request context.
func RequireStaff(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthorized(w)
				return
			}

			claims, err := security.ValidateJWT(token, secret)
			if err != nil {
				logger.Debug("Rejected staff token", "error", err, "path", r.URL.Path)
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFrom returns the staff claims stored by RequireStaff.
func ClaimsFrom(ctx context.Context) (*security.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*security.Claims)
	return claims, ok
}

// WithClaims stores claims in ctx, for handlers invoked outside RequireStaff.
func WithClaims(ctx context.Context, claims *security.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="laum"`)
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"staff token required"}}`))
}
