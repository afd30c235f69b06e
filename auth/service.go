// Package auth, as part of the authentication module.
// This file, `service.go`, holds the Session Controller's business logic: register, login,
// refresh and change-password. It composes the CredentialStore, the PasswordHasher and the
// TokenManager and maps every failure onto an apperror type. It is analogous to an
// `AuthService` provider in Nest.js.
package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/user/agency-go/apperror"
	"github.com/user/agency-go/metrics"
	"github.com/user/agency-go/validation"
)

// invalidCredentialsMessage is shared by the "no such user" and "wrong password" branches
// of Login and ChangePassword so the two cannot be told apart.
const invalidCredentialsMessage = "Invalid username or password"

// AuthService provides the session flows.
// Dependencies are injected through the constructor rather than resolved from globals.
type AuthService struct {
	store     CredentialStore
	hasher    PasswordHasher
	tokens    *TokenManager
	validator *validation.Validator
	metrics   *metrics.Metrics

	// dummyHash is compared against when the username is unknown so that
	// both login failure branches spend one bcrypt comparison.
	dummyHash string
}

// NewAuthService creates a new AuthService. m may be nil.
// The dummy hash is computed here so no login request pays for it.
func NewAuthService(store CredentialStore, hasher PasswordHasher, tokens *TokenManager, v *validation.Validator, m *metrics.Metrics) *AuthService {
	return &AuthService{
		store:     store,
		hasher:    hasher,
		tokens:    tokens,
		validator: v,
		metrics:   m,
		dummyHash: newDummyHash(hasher),
	}
}

// Register creates a new user. No tokens are issued; the client logs in afterwards.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if err := s.validator.Validate(&req); err != nil {
		s.metrics.ObserveAuth(metrics.OpRegister, metrics.ResultFailure)
		return nil, err
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		s.observeErr(metrics.OpRegister, err)
		return nil, err
	}

	// The store enforces uniqueness atomically; there is no separate existence check to race with.
	user, err := s.store.Create(ctx, req.Username, hash, nil)
	if err != nil {
		s.observeErr(metrics.OpRegister, err)
		return nil, err
	}

	s.metrics.ObserveAuth(metrics.OpRegister, metrics.ResultSuccess)
	slog.InfoContext(ctx, "user registered", "username", user.Username)
	return user, nil
}

// Login checks the credentials and issues one access token and one refresh token.
// An unknown username and a wrong password produce the same InvalidCredentials error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	if err := s.validator.Validate(&req); err != nil {
		s.metrics.ObserveAuth(metrics.OpLogin, metrics.ResultFailure)
		return nil, err
	}

	user, err := s.store.FindByUsername(ctx, req.Username)
	if err != nil {
		if apperror.IsNotFound(err) {
			s.hasher.Verify(req.Password, s.dummyHash)
			s.metrics.ObserveAuth(metrics.OpLogin, metrics.ResultFailure)
			return nil, apperror.NewInvalidCredentialsError(invalidCredentialsMessage, nil)
		}
		s.metrics.ObserveAuth(metrics.OpLogin, metrics.ResultError)
		return nil, err
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		s.metrics.ObserveAuth(metrics.OpLogin, metrics.ResultFailure)
		return nil, apperror.NewInvalidCredentialsError(invalidCredentialsMessage, nil)
	}

	session, err := s.issueSession(user.Username)
	if err != nil {
		s.metrics.ObserveAuth(metrics.OpLogin, metrics.ResultError)
		return nil, err
	}

	s.metrics.ObserveAuth(metrics.OpLogin, metrics.ResultSuccess)
	slog.InfoContext(ctx, "user logged in", "username", user.Username)
	return session, nil
}

// Refresh verifies a refresh token and issues a new access token for the same user.
// The refresh token itself is not rotated and stays valid until it expires.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	if refreshToken == "" {
		s.metrics.ObserveAuth(metrics.OpRefresh, metrics.ResultFailure)
		return nil, apperror.NewForbiddenError("Refresh token is missing", nil)
	}

	claims, err := s.tokens.Verify(refreshToken, RefreshToken)
	if err != nil {
		s.metrics.ObserveAuth(metrics.OpRefresh, metrics.ResultFailure)
		if errors.Is(err, ErrTokenExpired) {
			return nil, apperror.NewForbiddenError("Refresh token has expired", err)
		}
		return nil, apperror.NewForbiddenError("Invalid refresh token", err)
	}

	token, _, err := s.tokens.IssueAccessToken(claims.Username)
	if err != nil {
		s.metrics.ObserveAuth(metrics.OpRefresh, metrics.ResultError)
		return nil, apperror.NewInternalError("failed to issue access token", err)
	}

	s.metrics.ObserveAuth(metrics.OpRefresh, metrics.ResultSuccess)
	slog.DebugContext(ctx, "access token refreshed", "username", claims.Username)
	return &TokenResponse{Token: token}, nil
}

// ChangePassword replaces the caller's password after checking the old one.
// Tokens issued before the change remain valid until they expire.
func (s *AuthService) ChangePassword(ctx context.Context, username string, req ChangePasswordRequest) error {
	if err := s.validator.Validate(&req); err != nil {
		s.metrics.ObserveAuth(metrics.OpChangePassword, metrics.ResultFailure)
		return err
	}

	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		s.observeErr(metrics.OpChangePassword, err)
		return err
	}

	if !s.hasher.Verify(req.OldPassword, user.PasswordHash) {
		s.metrics.ObserveAuth(metrics.OpChangePassword, metrics.ResultFailure)
		return apperror.NewInvalidCredentialsError("Old password is incorrect", nil)
	}

	hash, err := s.hashPassword(req.NewPassword)
	if err != nil {
		s.observeErr(metrics.OpChangePassword, err)
		return err
	}

	if err := s.store.UpdatePasswordHash(ctx, username, hash); err != nil {
		s.observeErr(metrics.OpChangePassword, err)
		return err
	}

	s.metrics.ObserveAuth(metrics.OpChangePassword, metrics.ResultSuccess)
	slog.InfoContext(ctx, "password changed", "username", username)
	return nil
}

func (s *AuthService) issueSession(username string) (*Session, error) {
	access, accessExp, err := s.tokens.IssueAccessToken(username)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue access token", err)
	}
	refresh, refreshExp, err := s.tokens.IssueRefreshToken(username)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue refresh token", err)
	}
	return &Session{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// hashPassword maps hasher failures onto client or server errors.
func (s *AuthService) hashPassword(password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	switch {
	case err == nil:
		return hash, nil
	case errors.Is(err, ErrEmptyPassword):
		return "", apperror.NewValidationError("password is required", nil)
	case errors.Is(err, ErrPasswordTooLong):
		return "", apperror.NewValidationError("password must be at most 72 bytes", nil)
	default:
		return "", apperror.NewInternalError("failed to hash password", err)
	}
}

func newDummyHash(hasher PasswordHasher) string {
	hash, err := hasher.Hash("agency-dummy-password")
	if err != nil {
		// Verify returns false for a malformed hash, which is all that is needed here.
		return ""
	}
	return hash
}

// observeErr records a failure, separating client errors from server errors.
func (s *AuthService) observeErr(op string, err error) {
	if appErr, ok := apperror.FromError(err); ok && !appErr.IsServerError() {
		s.metrics.ObserveAuth(op, metrics.ResultFailure)
		return
	}
	s.metrics.ObserveAuth(op, metrics.ResultError)
}
