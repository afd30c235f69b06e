// Package auth, as part of the authentication module.
// This file, `middleware.go`, defines the bearer-token guard placed in front of protected routes.
// Middleware are functions that process HTTP requests before they reach the main handler.
// In Nest.js this role is played by a Guard implementing `CanActivate`.
package auth

import (
	"errors"
	"net/http"
	// `strings` for splitting the Authorization header.
	"strings"

	"github.com/user/agency-go/apperror"
	"github.com/user/agency-go/metrics"
)

// JWTMiddleware creates the authentication middleware for protected routes.
//
// A request without an Authorization header, or with one that is not "Bearer {token}",
// is rejected with 401. A token that fails verification (bad signature, malformed,
// expired, or a refresh token presented as an access token) is rejected with 403.
// Otherwise the caller's Identity is placed on the request context.
func JWTMiddleware(tokens *TokenManager, m *metrics.Metrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				m.ObserveTokenVerification("missing")
				apperror.WriteError(w, r, apperror.NewUnauthenticatedError("Authorization header is missing", nil))
				return
			}

			// The Authorization header should be in the format "Bearer {token}".
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
				m.ObserveTokenVerification("missing")
				apperror.WriteError(w, r, apperror.NewUnauthenticatedError("Authorization header format must be Bearer {token}", nil))
				return
			}

			claims, err := tokens.Verify(parts[1], AccessToken)
			if err != nil {
				if errors.Is(err, ErrTokenExpired) {
					m.ObserveTokenVerification("expired")
					apperror.WriteError(w, r, apperror.NewForbiddenError("Token has expired", err))
					return
				}
				m.ObserveTokenVerification("invalid")
				apperror.WriteError(w, r, apperror.NewForbiddenError("Invalid token", err))
				return
			}

			m.ObserveTokenVerification("ok")
			ctx := NewContextWithIdentity(r.Context(), Identity{
				Username: claims.Username,
				TokenID:  claims.ID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
