// Package auth is responsible for handling authentication and authorization logic.
// This includes credential storage, password hashing, access/refresh token issuance (JWT),
// the bearer-token middleware and the register/login/refresh/logout/change-password flows.
// In a Nest.js analogy, this directory would correspond to an "AuthModule",
// containing services, controllers (handlers in Go), DTOs, and entities related to authentication.
package auth

import "time"

// User represents a user in the system as stored by the CredentialStore.
// The username is the primary key. Profile fields are nil until the user sets them.
type User struct {
	Username string `json:"username"`
	// `json:"-"` keeps the hash out of every API response.
	PasswordHash string    `json:"-"`
	Email        *string   `json:"email"`
	Name         *string   `json:"name"`
	Address      *string   `json:"address"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile holds the mutable, user-editable fields of a User.
type Profile struct {
	Email   *string
	Name    *string
	Address *string
}

// Profile returns the user's profile fields.
func (u *User) Profile() Profile {
	return Profile{Email: u.Email, Name: u.Name, Address: u.Address}
}
