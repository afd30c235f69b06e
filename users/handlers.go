// Package users encapsulates all functionality related to user profile management.
// This file, `handlers.go`, is responsible for handling the /profile endpoints.
// It acts as the "Controller" layer, like a Nest.js Controller injecting its Service.
package users

import (
	"net/http"

	"github.com/user/agency-go/apperror"
	// `auth` provides the identity that JWTMiddleware put on the request context.
	"github.com/user/agency-go/auth"
	"github.com/user/agency-go/validation"
)

// UserHandlers provides HTTP handlers for user profile management.
type UserHandlers struct {
	service *UserService
}

// NewUserHandlers creates new UserHandlers.
func NewUserHandlers(service *UserService) *UserHandlers {
	return &UserHandlers{service: service}
}

// HandleGetProfile godoc
// @Summary Get current user's profile
// @Description Retrieves the profile of the authenticated user.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} users.ProfileResponse "Successfully retrieved user profile"
// @Failure 401 {object} apperror.ErrorResponse "Missing bearer token"
// @Failure 403 {object} apperror.ErrorResponse "Invalid or expired bearer token"
// @Failure 404 {object} apperror.ErrorResponse "User not found"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /profile [get]
func (h *UserHandlers) HandleGetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := auth.UsernameFromContext(r.Context())
		if !ok {
			// Only reachable if the route was mounted without JWTMiddleware.
			apperror.WriteError(w, r, apperror.NewUnauthenticatedError("Authentication required", nil))
			return
		}

		profile, err := h.service.GetProfile(r.Context(), username)
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}

		apperror.WriteJSON(w, http.StatusOK, profile)
	}
}

// HandleUpdateProfile godoc
// @Summary Update current user's profile
// @Description Replaces email, name and address of the authenticated user. All three fields are required.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body users.UpdateProfileRequest true "Complete profile"
// @Success 200 {object} users.ProfileResponse "Updated profile"
// @Failure 400 {object} apperror.ErrorResponse "Missing or invalid fields"
// @Failure 401 {object} apperror.ErrorResponse "Missing bearer token"
// @Failure 403 {object} apperror.ErrorResponse "Invalid or expired bearer token"
// @Failure 404 {object} apperror.ErrorResponse "User not found"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /profile [put]
func (h *UserHandlers) HandleUpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := auth.UsernameFromContext(r.Context())
		if !ok {
			apperror.WriteError(w, r, apperror.NewUnauthenticatedError("Authentication required", nil))
			return
		}

		var req UpdateProfileRequest
		if err := validation.Decode(w, r, &req); err != nil {
			apperror.WriteError(w, r, err)
			return
		}

		profile, err := h.service.UpdateProfile(r.Context(), username, req)
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}

		apperror.WriteJSON(w, http.StatusOK, profile)
	}
}
