// Package auth, as part of the authentication module.
// This file, `store.go`, is the Credential Store: the durable mapping from username
// to password hash and profile. It plays the role a TypeORM Repository would in Nest.js.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/user/agency-go/apperror"
	"github.com/user/agency-go/db"
)

// CredentialStore persists users keyed by username.
// Implementations return *apperror.AppError values: NotFound for a missing user,
// DuplicateUsername when Create loses the uniqueness race, Database for anything else.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	// Create inserts a new user. Uniqueness of the username is enforced atomically by the store.
	Create(ctx context.Context, username, passwordHash string, profile *Profile) (*User, error)
	UpdateProfile(ctx context.Context, username string, profile Profile) (*User, error)
	UpdatePasswordHash(ctx context.Context, username, passwordHash string) error
}

const (
	findUserQuery = `
		SELECT username, password_hash, email, name, address, created_at, updated_at
		FROM users
		WHERE username = $1`

	createUserQuery = `
		INSERT INTO users (username, password_hash, email, name, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	updateProfileQuery = `
		UPDATE users
		SET email = $2, name = $3, address = $4, updated_at = now()
		WHERE username = $1
		RETURNING username, password_hash, email, name, address, created_at, updated_at`

	updatePasswordQuery = `
		UPDATE users
		SET password_hash = $2, updated_at = now()
		WHERE username = $1`
)

// PostgresStore is the PostgreSQL-backed CredentialStore.
type PostgresStore struct {
	db db.DBTX
	// timeout bounds every statement so a slow database cannot hold a request forever.
	timeout time.Duration
}

// NewPostgresStore creates a PostgresStore over a pool (or any db.DBTX).
// A non-positive timeout disables the per-call bound.
func NewPostgresStore(conn db.DBTX, timeout time.Duration) *PostgresStore {
	return &PostgresStore{db: conn, timeout: timeout}
}

func (s *PostgresStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// FindByUsername loads a user by username.
func (s *PostgresStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	user, err := scanUser(s.db.QueryRow(ctx, findUserQuery, username))
	if err != nil {
		// A username PostgreSQL cannot even encode cannot belong to a stored user.
		if errors.Is(err, pgx.ErrNoRows) || isUnstorableText(err) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user %q not found", username), nil)
		}
		return nil, apperror.NewDatabaseError("failed to load user",
			oops.Code("STORE_FIND_FAILED").With("username", username).Wrap(err))
	}
	return user, nil
}

// Create inserts a user. The username primary key makes concurrent registrations of the same
// name resolve to exactly one success; the loser gets a DuplicateUsername error.
func (s *PostgresStore) Create(ctx context.Context, username, passwordHash string, profile *Profile) (*User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	user := &User{Username: username, PasswordHash: passwordHash}
	if profile != nil {
		user.Email, user.Name, user.Address = profile.Email, profile.Name, profile.Address
	}

	err := s.db.QueryRow(ctx, createUserQuery,
		user.Username, user.PasswordHash, user.Email, user.Name, user.Address,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, apperror.NewDuplicateUsernameError("Username already exists", nil)
		}
		if isUnstorableText(err) {
			return nil, apperror.NewValidationError("username contains characters that cannot be stored", nil)
		}
		return nil, apperror.NewDatabaseError("failed to create user",
			oops.Code("STORE_CREATE_FAILED").With("username", username).Wrap(err))
	}
	return user, nil
}

// UpdateProfile replaces the profile fields of an existing user.
func (s *PostgresStore) UpdateProfile(ctx context.Context, username string, profile Profile) (*User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	user, err := scanUser(s.db.QueryRow(ctx, updateProfileQuery,
		username, profile.Email, profile.Name, profile.Address))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user %q not found", username), nil)
		}
		if isUnstorableText(err) {
			return nil, apperror.NewValidationError("profile contains characters that cannot be stored", nil)
		}
		return nil, apperror.NewDatabaseError("failed to update profile",
			oops.Code("STORE_UPDATE_PROFILE_FAILED").With("username", username).Wrap(err))
	}
	return user, nil
}

// UpdatePasswordHash stores a new password hash for an existing user.
func (s *PostgresStore) UpdatePasswordHash(ctx context.Context, username, passwordHash string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tag, err := s.db.Exec(ctx, updatePasswordQuery, username, passwordHash)
	if err != nil {
		return apperror.NewDatabaseError("failed to update password",
			oops.Code("STORE_UPDATE_PASSWORD_FAILED").With("username", username).Wrap(err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("user %q not found", username), nil)
	}
	return nil
}

// isUnstorableText reports whether PostgreSQL refused a string it cannot encode, such as one containing NUL.
func isUnstorableText(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CharacterNotInRepertoire
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.Username, &u.PasswordHash, &u.Email, &u.Name, &u.Address, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
