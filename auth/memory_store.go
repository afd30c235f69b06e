package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/user/agency-go/apperror"
)

// MemoryStore is an in-process CredentialStore. It backs the router and service
// tests; its contents are lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]User
	now   func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]User), now: time.Now}
}

func (s *MemoryStore) FindByUsername(_ context.Context, username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	if !ok {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("user %q not found", username), nil)
	}
	return &u, nil
}

func (s *MemoryStore) Create(_ context.Context, username, passwordHash string, profile *Profile) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		return nil, apperror.NewDuplicateUsernameError("Username already exists", nil)
	}

	now := s.now()
	u := User{Username: username, PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now}
	if profile != nil {
		u.Email, u.Name, u.Address = profile.Email, profile.Name, profile.Address
	}
	s.users[username] = u
	return &u, nil
}

func (s *MemoryStore) UpdateProfile(_ context.Context, username string, profile Profile) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("user %q not found", username), nil)
	}
	u.Email, u.Name, u.Address = profile.Email, profile.Name, profile.Address
	u.UpdatedAt = s.now()
	s.users[username] = u
	return &u, nil
}

func (s *MemoryStore) UpdatePasswordHash(_ context.Context, username, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return apperror.NewNotFoundError(fmt.Sprintf("user %q not found", username), nil)
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = s.now()
	s.users[username] = u
	return nil
}

// Count returns the number of stored users.
func (s *MemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), nil
}
