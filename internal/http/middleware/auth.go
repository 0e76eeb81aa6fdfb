package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dentalops/leadflow/internal/http/apierror"
)

type contextKey string

const usernameKey contextKey = "username"

// TokenVerifier validates a bearer token and returns its subject.
type TokenVerifier interface {
	VerifyAccess(token string) (string, error)
}

// RequireAuth enforces a bearer access token on dashboard endpoints.
func RequireAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				apierror.Detail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
				return
			}
			username, err := verifier.VerifyAccess(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				apierror.Detail(w, http.StatusUnauthorized, "Token is invalid or expired")
				return
			}
			ctx := context.WithValue(r.Context(), usernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UsernameFromContext returns the authenticated username, if any.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok
}
