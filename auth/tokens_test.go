package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/agency-go/config"
)

func TestNewSecret(t *testing.T) {
	_, err := NewSecret("")
	assert.Error(t, err)

	s, err := NewSecret(testSecret)
	require.NoError(t, err)
	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "[REDACTED]", s.LogValue().String())
}

func TestTokenManager_AccessTokenLifetime(t *testing.T) {
	clock := newTestClock()
	tm := newTestTokenManager(t, testSecret, clock)

	token, expiresAt, err := tm.IssueAccessToken("alice")
	require.NoError(t, err)
	assert.Equal(t, clock.now.Add(15*time.Minute), expiresAt)

	clock.Advance(14*time.Minute + 59*time.Second)
	claims, err := tm.Verify(token, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice", claims.Subject)
	assert.NotEmpty(t, claims.ID)

	clock.Advance(2 * time.Second)
	_, err = tm.Verify(token, AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenManager_RefreshTokenLifetime(t *testing.T) {
	clock := newTestClock()
	tm := newTestTokenManager(t, testSecret, clock)

	token, expiresAt, err := tm.IssueRefreshToken("alice")
	require.NoError(t, err)
	assert.Equal(t, clock.now.Add(7*24*time.Hour), expiresAt)

	clock.Advance(6 * 24 * time.Hour)
	_, err = tm.Verify(token, RefreshToken)
	require.NoError(t, err)

	clock.Advance(24*time.Hour + time.Second)
	_, err = tm.Verify(token, RefreshToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenManager_LifetimesAreCapped(t *testing.T) {
	s, err := NewSecret(testSecret)
	require.NoError(t, err)

	clock := newTestClock()
	tm := NewTokenManager(s, config.AuthConfig{
		AccessTokenDuration:  time.Hour,
		RefreshTokenDuration: 30 * 24 * time.Hour,
	})
	tm.now = clock.Now

	_, accessExp, err := tm.IssueAccessToken("alice")
	require.NoError(t, err)
	assert.Equal(t, clock.now.Add(config.MaxAccessTokenDuration), accessExp)

	_, refreshExp, err := tm.IssueRefreshToken("alice")
	require.NoError(t, err)
	assert.Equal(t, clock.now.Add(config.MaxRefreshTokenDuration), refreshExp)
}

func TestTokenManager_UniqueTokenIDs(t *testing.T) {
	tm := newTestTokenManager(t, testSecret, nil)

	first, _, err := tm.IssueAccessToken("alice")
	require.NoError(t, err)
	second, _, err := tm.IssueAccessToken("alice")
	require.NoError(t, err)

	c1, err := tm.Verify(first, AccessToken)
	require.NoError(t, err)
	c2, err := tm.Verify(second, AccessToken)
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestTokenManager_VerifyRejects(t *testing.T) {
	tm := newTestTokenManager(t, testSecret, nil)
	valid, _, err := tm.IssueAccessToken("alice")
	require.NoError(t, err)

	otherSecret, _, err := newTestTokenManager(t, "a-completely-different-signing-secret!!", nil).IssueAccessToken("alice")
	require.NoError(t, err)

	refresh, _, err := tm.IssueRefreshToken("alice")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "different secret", token: otherSecret},
		{name: "tampered claim", token: tamperUsername(t, valid, "alice", "admin")},
		{name: "alg none", token: signWith(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, "alice", AccessToken)},
		{name: "HS512 with the right key", token: signWith(t, jwt.SigningMethodHS512, []byte(testSecret), "alice", AccessToken)},
		{name: "refresh token used as access token", token: refresh},
		{name: "missing username", token: signWith(t, jwt.SigningMethodHS256, []byte(testSecret), "", AccessToken)},
		{name: "garbage", token: "not.a.jwt"},
		{name: "empty", token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := tm.Verify(tt.token, AccessToken)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestTokenManager_AccessTokenIsNotARefreshToken(t *testing.T) {
	tm := newTestTokenManager(t, testSecret, nil)
	access, _, err := tm.IssueAccessToken("alice")
	require.NoError(t, err)

	_, err = tm.Verify(access, RefreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenManager_RejectsTokenIssuedInTheFuture(t *testing.T) {
	clock := newTestClock()
	tm := newTestTokenManager(t, testSecret, clock)

	token, _, err := tm.IssueAccessToken("alice")
	require.NoError(t, err)

	clock.Advance(-time.Minute)
	_, err = tm.Verify(token, AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

// signWith builds a token with otherwise valid claims but an arbitrary algorithm.
func signWith(t *testing.T, method jwt.SigningMethod, key interface{}, username string, tokenType TokenType) string {
	t.Helper()
	now := time.Now()
	claims := &Claims{
		Username:  username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

// tamperUsername rewrites the payload segment while keeping the old signature.
func tamperUsername(t *testing.T, token, from, to string) string {
	t.Helper()
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	tampered := strings.ReplaceAll(string(payload), `"`+from+`"`, `"`+to+`"`)
	require.NotEqual(t, string(payload), tampered)

	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(tampered))
	return strings.Join(parts, ".")
}
