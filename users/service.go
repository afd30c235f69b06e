// Package users, as part of the user profile management module.
// This file, `service.go`, contains the business logic for reading and updating profiles.
// It acts as the "Service" layer, analogous to a Service class in Nest.js.
package users

import (
	"context"

	"github.com/user/agency-go/auth"
	"github.com/user/agency-go/validation"
)

// UserService provides methods for user profile management.
// Profiles live in the same CredentialStore as the password hashes.
type UserService struct {
	store     auth.CredentialStore
	validator *validation.Validator
}

// NewUserService creates a new UserService.
func NewUserService(store auth.CredentialStore, v *validation.Validator) *UserService {
	return &UserService{store: store, validator: v}
}

// GetProfile retrieves the profile of username.
func (s *UserService) GetProfile(ctx context.Context, username string) (*ProfileResponse, error) {
	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		return nil, err // NotFound or Database, already typed by the store
	}
	return newProfileResponse(user), nil
}

// UpdateProfile replaces all three profile fields of username.
func (s *UserService) UpdateProfile(ctx context.Context, username string, req UpdateProfileRequest) (*ProfileResponse, error) {
	if err := s.validator.Validate(&req); err != nil {
		return nil, err
	}

	user, err := s.store.UpdateProfile(ctx, username, auth.Profile{
		Email:   &req.Email,
		Name:    &req.Name,
		Address: &req.Address,
	})
	if err != nil {
		return nil, err
	}
	return newProfileResponse(user), nil
}
