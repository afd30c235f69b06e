package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/agency-go/auth"
	"github.com/user/agency-go/config"
	"github.com/user/agency-go/metrics"
)

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Database: &config.DatabaseConfig{QueryTimeout: time.Second},
		Auth: &config.AuthConfig{
			JWTSecret:            "router-test-secret-with-32-bytes!!",
			AccessTokenDuration:  config.MaxAccessTokenDuration,
			RefreshTokenDuration: config.MaxRefreshTokenDuration,
			BcryptCost:           bcrypt.MinCost,
		},
		Cookie: &config.CookieConfig{Name: "refreshToken", Path: "/", Secure: true, SameSite: "strict"},
		Server: &config.ServerConfig{
			Port:               "0",
			RequestTimeout:     5 * time.Second,
			CORSAllowedOrigins: []string{"http://localhost:3000"},
		},
	}
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	store := auth.NewMemoryStore()
	h, err := newRouter(routerDeps{
		Config:  testConfig(),
		Store:   store,
		Counter: store,
		Metrics: metrics.New(),
	})
	require.NoError(t, err)
	return h
}

func send(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func loginToken(t *testing.T, h http.Handler, username, password string) string {
	t.Helper()
	rec := send(t, h, http.MethodPost, "/login", `{"username":"`+username+`","password":"`+password+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp auth.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func TestSessionScenario(t *testing.T) {
	h := newTestServer(t)

	rec := send(t, h, http.MethodPost, "/register", `{"username":"alice","password":"password1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	token := loginToken(t, h, "alice", "password1")

	rec = send(t, h, http.MethodGet, "/profile", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"username":"alice","email":null,"name":null,"address":null}`, rec.Body.String())

	rec = send(t, h, http.MethodPost, "/login", `{"username":"alice","password":"wrongpw"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")

	rec = send(t, h, http.MethodGet, "/profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfileUpdate(t *testing.T) {
	h := newTestServer(t)
	require.Equal(t, http.StatusCreated, send(t, h, http.MethodPost, "/register", `{"username":"alice","password":"password1"}`, "").Code)
	token := loginToken(t, h, "alice", "password1")

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "missing address", body: `{"email":"alice@example.com","name":"Alice"}`, wantStatus: http.StatusBadRequest},
		{name: "empty name", body: `{"email":"alice@example.com","name":"","address":"1 Main St"}`, wantStatus: http.StatusBadRequest},
		{name: "bad email", body: `{"email":"nope","name":"Alice","address":"1 Main St"}`, wantStatus: http.StatusBadRequest},
		{name: "complete", body: `{"email":"alice@example.com","name":"Alice","address":"1 Main St"}`, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := send(t, h, http.MethodPut, "/profile", tt.body, token)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}

	rec := send(t, h, http.MethodGet, "/profile", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"username":"alice","email":"alice@example.com","name":"Alice","address":"1 Main St"}`, rec.Body.String())

	rec = send(t, h, http.MethodPut, "/profile", `{"email":"alice@example.com","name":"Alice","address":"1 Main St"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfileOfVanishedUser(t *testing.T) {
	h := newTestServer(t)

	// A validly signed token for a user the store has never seen.
	other, err := newRouter(routerDeps{Config: testConfig(), Store: auth.NewMemoryStore(), Counter: auth.NewMemoryStore()})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, send(t, other, http.MethodPost, "/register", `{"username":"ghost","password":"password1"}`, "").Code)
	token := loginToken(t, other, "ghost", "password1")

	rec := send(t, h, http.MethodGet, "/profile", "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnsignedTokenIsForbidden(t *testing.T) {
	h := newTestServer(t)

	rec := send(t, h, http.MethodGet, "/profile", "", "eyJhbGciOiJub25lIn0.eyJ1c2VybmFtZSI6ImFsaWNlIn0.")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORBIDDEN")
}

func TestDashboard(t *testing.T) {
	h := newTestServer(t)
	for _, name := range []string{"alice", "bob"} {
		require.Equal(t, http.StatusCreated, send(t, h, http.MethodPost, "/register", `{"username":"`+name+`","password":"password1"}`, "").Code)
	}
	token := loginToken(t, h, "alice", "password1")

	rec := send(t, h, http.MethodGet, "/dashboard", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"stats":{"totalUsers":2}}`, rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, send(t, h, http.MethodGet, "/dashboard", "", "").Code)
}

func TestLogoutTwice(t *testing.T) {
	h := newTestServer(t)
	assert.Equal(t, http.StatusOK, send(t, h, http.MethodPost, "/logout", "", "").Code)
	assert.Equal(t, http.StatusOK, send(t, h, http.MethodPost, "/logout", "", "").Code)
}

func TestAuxiliaryRoutes(t *testing.T) {
	h := newTestServer(t)

	rec := send(t, h, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Backend is live", rec.Body.String())

	send(t, h, http.MethodPost, "/login", `{"username":"x","password":"y"}`, "")
	rec = send(t, h, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "agency_auth_events_total")
	assert.Contains(t, rec.Body.String(), "agency_http_request_duration_seconds")
}

func TestCORSAllowsConfiguredOriginWithCredentials(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRecoverJSON(t *testing.T) {
	h := recoverJSON(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error","code":"SERVER_ERROR"}`, rec.Body.String())
}

func TestNewRouterRejectsEmptySecret(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.JWTSecret = ""
	_, err := newRouter(routerDeps{Config: cfg, Store: auth.NewMemoryStore(), Counter: auth.NewMemoryStore()})
	assert.Error(t, err)
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCmd()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate"}, names)
	assert.NotNil(t, cmd.RunE, "a bare invocation serves")

	serve, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)
	assert.NotNil(t, serve.Flags().Lookup("migrate"))
}

func TestSetupLogger(t *testing.T) {
	assert.NoError(t, setupLogger("debug"))
	assert.NoError(t, setupLogger("WARN"))
	assert.Error(t, setupLogger("loud"))
}

func TestBareRootCommandServes(t *testing.T) {
	t.Setenv("DB_USER", "")
	t.Setenv("JWT_SECRET", "")

	cmd := NewRootCmd()
	cmd.SetArgs([]string{})

	// With no configuration, serving fails on the config check before any listener starts.
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
