// Package users, as part of the user profile management module.
// This file, `dto.go`, defines Data Transfer Objects (DTOs) for the users module.
// DTOs are simple objects used to transfer data between layers, especially between
// handlers (controllers) and services, and for API request/response bodies.
package users

import "github.com/user/agency-go/auth"

// ProfileResponse represents the data returned for a user profile.
// Fields the user has never set are returned as null.
// @Description User profile information
type ProfileResponse struct {
	// example: alice
	Username string `json:"username"`
	// example: alice@example.com
	Email *string `json:"email"`
	// example: Alice Example
	Name *string `json:"name"`
	// example: 1 Main Street
	Address *string `json:"address"`
}

// UpdateProfileRequest represents the body of PUT /profile.
// All three fields are required; a partial update is rejected.
// @Description Request body for updating the caller's profile
type UpdateProfileRequest struct {
	// example: alice@example.com
	Email string `json:"email" validate:"required,email,max=254"`
	// example: Alice Example
	Name string `json:"name" validate:"required,max=200,nonul"`
	// example: 1 Main Street
	Address string `json:"address" validate:"required,max=500,nonul"`
}

func newProfileResponse(u *auth.User) *ProfileResponse {
	return &ProfileResponse{
		Username: u.Username,
		Email:    u.Email,
		Name:     u.Name,
		Address:  u.Address,
	}
}
