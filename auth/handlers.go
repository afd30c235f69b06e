// Package auth, as part of the authentication module.
// This file, `handlers.go`, is the HTTP half of the Session Controller.
// It acts as the "Controller" layer, analogous to an `AuthController` in Nest.js.
package auth

import (
	"net/http"

	"github.com/user/agency-go/apperror"
	"github.com/user/agency-go/metrics"
	"github.com/user/agency-go/validation"
)

// Handlers wraps the AuthService to provide HTTP handlers.
type Handlers struct {
	service *AuthService
	cookies *CookieManager
	metrics *metrics.Metrics
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *AuthService, cookies *CookieManager, m *metrics.Metrics) *Handlers {
	return &Handlers{service: service, cookies: cookies, metrics: m}
}

// The `godoc` comments below are read by `swaggo/swag` to generate the OpenAPI document,
// similar to the decorators from `@nestjs/swagger`.

// HandleRegister godoc
// @Summary User Registration
// @Description Registers a new user. No token is issued; the client logs in afterwards.
// @Tags Auth
// @Accept json
// @Produce json
// @Param registerBody body auth.RegisterRequest true "User registration details"
// @Success 201 {object} auth.MessageResponse "User registered successfully"
// @Failure 400 {object} apperror.ErrorResponse "Missing fields, short password or duplicate username"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /register [post]
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := validation.Decode(w, r, &req); err != nil {
			apperror.WriteError(w, r, err)
			return
		}

		if _, err := h.service.Register(r.Context(), req); err != nil {
			apperror.WriteError(w, r, err)
			return
		}

		apperror.WriteJSON(w, http.StatusCreated, MessageResponse{Message: "User registered successfully"})
	}
}

// HandleLogin godoc
// @Summary User Login
// @Description Checks credentials, returns an access token and sets the refresh token as an HttpOnly cookie.
// @Tags Auth
// @Accept json
// @Produce json
// @Param loginBody body auth.LoginRequest true "User login credentials"
// @Success 200 {object} auth.TokenResponse "Login successful"
// @Header 200 {string} Set-Cookie "refreshToken=...; HttpOnly; Secure; SameSite=Strict"
// @Failure 400 {object} apperror.ErrorResponse "Missing fields or invalid credentials"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := validation.Decode(w, r, &req); err != nil {
			apperror.WriteError(w, r, err)
			return
		}

		session, err := h.service.Login(r.Context(), req)
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}

		// The refresh token only ever travels in the cookie.
		h.cookies.Set(w, session.RefreshToken, session.RefreshExpiresAt)
		apperror.WriteJSON(w, http.StatusOK, TokenResponse{Token: session.AccessToken})
	}
}

// HandleRefreshToken godoc
// @Summary Refresh Access Token
// @Description Issues a new access token from the refresh token cookie. The refresh token is not rotated.
// @Tags Auth
// @Produce json
// @Success 200 {object} auth.TokenResponse "New access token"
// @Failure 403 {object} apperror.ErrorResponse "Missing, invalid or expired refresh token"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /refresh-token [post]
func (h *Handlers) HandleRefreshToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, _ := h.cookies.Read(r)

		resp, err := h.service.Refresh(r.Context(), token)
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}

		apperror.WriteJSON(w, http.StatusOK, resp)
	}
}

// HandleLogout godoc
// @Summary Logout
// @Description Clears the refresh token cookie. Always succeeds, so calling it twice is fine.
// @Tags Auth
// @Produce json
// @Success 200 {object} auth.MessageResponse "Logged out"
// @Router /logout [post]
func (h *Handlers) HandleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.cookies.Clear(w)
		h.metrics.ObserveAuth(metrics.OpLogout, metrics.ResultSuccess)
		apperror.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Logged out successfully"})
	}
}

// HandleChangePassword godoc
// @Summary Change Password
// @Description Replaces the caller's password after verifying the old one. Outstanding tokens stay valid.
// @Tags Auth
// @Accept json
// @Produce json
// @Param changePasswordBody body auth.ChangePasswordRequest true "Old and new password"
// @Success 200 {object} auth.MessageResponse "Password changed"
// @Failure 400 {object} apperror.ErrorResponse "Missing fields, short new password or wrong old password"
// @Failure 401 {object} apperror.ErrorResponse "Missing bearer token"
// @Failure 403 {object} apperror.ErrorResponse "Invalid or expired bearer token"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Security BearerAuth
// @Router /change-password [post]
func (h *Handlers) HandleChangePassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := UsernameFromContext(r.Context())
		if !ok {
			apperror.WriteError(w, r, apperror.NewUnauthenticatedError("Authentication required", nil))
			return
		}

		var req ChangePasswordRequest
		if err := validation.Decode(w, r, &req); err != nil {
			apperror.WriteError(w, r, err)
			return
		}

		if err := h.service.ChangePassword(r.Context(), username, req); err != nil {
			apperror.WriteError(w, r, err)
			return
		}

		apperror.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Password changed successfully"})
	}
}
