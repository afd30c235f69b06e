package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/agency-go/config"
	"github.com/user/agency-go/metrics"
	"github.com/user/agency-go/validation"
)

const testSecret = "test-signing-secret-with-at-least-32-bytes"

var testAuthConfig = config.AuthConfig{
	JWTSecret:            testSecret,
	AccessTokenDuration:  15 * time.Minute,
	RefreshTokenDuration: 7 * 24 * time.Hour,
	BcryptCost:           bcrypt.MinCost,
}

// testClock is a settable clock for TokenManager.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func newTestTokenManager(t *testing.T, secret string, clock *testClock) *TokenManager {
	t.Helper()
	s, err := NewSecret(secret)
	require.NoError(t, err)
	tm := NewTokenManager(s, testAuthConfig)
	if clock != nil {
		tm.now = clock.Now
	}
	return tm
}

type testEnv struct {
	store   *MemoryStore
	hasher  *BcryptHasher
	tokens  *TokenManager
	metrics *metrics.Metrics
	service *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store:   NewMemoryStore(),
		hasher:  NewBcryptHasher(bcrypt.MinCost),
		tokens:  newTestTokenManager(t, testSecret, nil),
		metrics: metrics.New(),
	}
	env.service = NewAuthService(env.store, env.hasher, env.tokens, validation.New(), env.metrics)
	return env
}
