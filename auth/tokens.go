package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	// Third-party library for JWT handling. `jwt/v5` indicates version 5.
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/samber/oops"

	"github.com/user/agency-go/config"
)

// TokenType distinguishes access tokens from refresh tokens inside the claims.
type TokenType string

const (
	// AccessToken authorizes individual API calls.
	AccessToken TokenType = "access"
	// RefreshToken is only good for minting new access tokens.
	RefreshToken TokenType = "refresh"

	tokenIssuer = "agency"
)

var (
	// ErrTokenExpired is returned by Verify for a well-formed token past its expiry.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid covers bad signatures, wrong algorithms, malformed payloads and wrong token types.
	ErrTokenInvalid = errors.New("token is invalid")
)

// Secret is the process-wide HMAC signing key.
// It is built once from configuration and injected; it never prints its value.
type Secret struct {
	key []byte
}

// NewSecret wraps the configured signing key.
func NewSecret(key string) (Secret, error) {
	if key == "" {
		return Secret{}, errors.New("signing secret must not be empty")
	}
	return Secret{key: []byte(key)}, nil
}

// String redacts the key.
func (s Secret) String() string { return "[REDACTED]" }

// LogValue redacts the key for slog.
func (s Secret) LogValue() slog.Value { return slog.StringValue("[REDACTED]") }

// Claims is the payload of both token kinds. Only the username identifies the caller;
// the password hash is never embedded.
type Claims struct {
	Username  string    `json:"username"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies signed, time-limited tokens.
type TokenManager struct {
	secret     Secret
	accessTTL  time.Duration
	refreshTTL time.Duration
	// now is swapped in tests to move the clock.
	now func() time.Time
}

// NewTokenManager creates a TokenManager. Lifetimes are capped at the configured maxima
// (15 minutes for access tokens, 7 days for refresh tokens).
func NewTokenManager(secret Secret, cfg config.AuthConfig) *TokenManager {
	accessTTL := cfg.AccessTokenDuration
	if accessTTL <= 0 || accessTTL > config.MaxAccessTokenDuration {
		accessTTL = config.MaxAccessTokenDuration
	}
	refreshTTL := cfg.RefreshTokenDuration
	if refreshTTL <= 0 || refreshTTL > config.MaxRefreshTokenDuration {
		refreshTTL = config.MaxRefreshTokenDuration
	}
	return &TokenManager{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// IssueAccessToken creates a short-lived access token for username.
func (m *TokenManager) IssueAccessToken(username string) (string, time.Time, error) {
	return m.issue(username, AccessToken, m.accessTTL)
}

// IssueRefreshToken creates a long-lived refresh token for username.
func (m *TokenManager) IssueRefreshToken(username string) (string, time.Time, error) {
	return m.issue(username, RefreshToken, m.refreshTTL)
}

func (m *TokenManager) issue(username string, tokenType TokenType, ttl time.Duration) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		Username:  username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret.key)
	if err != nil {
		return "", time.Time{}, oops.Code("TOKEN_SIGN_FAILED").With("token_type", tokenType).Wrap(err)
	}
	return signed, expiresAt, nil
}

// Verify parses tokenString and checks signature, expiry, issuer and token type.
// The algorithm is pinned to HS256, so tokens declaring "none", RS256 or any other
// algorithm are rejected before the key is consulted.
func (m *TokenManager) Verify(tokenString string, expected TokenType) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(m.now),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.TokenType != expected {
		return nil, fmt.Errorf("%w: expected %s token, got %q", ErrTokenInvalid, expected, claims.TokenType)
	}
	if claims.Username == "" {
		return nil, fmt.Errorf("%w: username claim is missing", ErrTokenInvalid)
	}

	return claims, nil
}
