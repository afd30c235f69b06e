package auth

import (
	"context"
)

// `contextKey` is a custom type for context keys. Using a custom type prevents collisions
// with context keys defined in other packages. It's a common Go idiom.
type contextKey string

const identityContextKey contextKey = "auth_identity"

// Identity is the verified caller attached to a request by JWTMiddleware.
type Identity struct {
	Username string
	// TokenID is the `jti` of the access token that authenticated the request.
	TokenID string
}

// NewContextWithIdentity returns a child context carrying id.
func NewContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext extracts the Identity stored by NewContextWithIdentity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(Identity)
	return id, ok
}

// UsernameFromContext is a shortcut for handlers that only need the username.
func UsernameFromContext(ctx context.Context) (string, bool) {
	id, ok := IdentityFromContext(ctx)
	if !ok || id.Username == "" {
		return "", false
	}
	return id.Username, true
}
