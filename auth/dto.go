// Package auth, as part of the authentication module.
// This file, `dto.go`, defines the request and response bodies of the session endpoints.
// Validation rules are declared with `validate` tags and enforced by the validation package,
// much like class-validator decorators on Nest.js DTOs.
package auth

import "time"

// RegisterRequest is the body of POST /register.
// @Description Request body for user registration
type RegisterRequest struct {
	// example: alice
	Username string `json:"username" validate:"required,max=64,nocontrol"`
	// example: password1
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest is the body of POST /login.
// Only presence is checked here; a short password simply fails to match.
// @Description Request body for user login
type LoginRequest struct {
	// example: alice
	Username string `json:"username" validate:"required,nocontrol"`
	// example: password1
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest is the body of POST /change-password.
// @Description Request body for changing the caller's password
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// TokenResponse carries an access token. The refresh token never appears in a JSON body.
// @Description Access token returned by login and refresh
type TokenResponse struct {
	// example: eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9...
	Token string `json:"token"`
}

// MessageResponse is a plain acknowledgement.
// @Description Simple status message
type MessageResponse struct {
	// example: User registered successfully
	Message string `json:"message"`
}

// Session is the result of a successful login: one access token for the response body and
// one refresh token for the cookie.
type Session struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}
