package identity

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu    sync.RWMutex
	users map[string]User // keyed by normalized mobile
}

// NewMemoryRepository builds an in-memory user store for development and
// testing. It enforces the same mobile uniqueness as the database.
func NewMemoryRepository() Repository {
	return &memoryRepository{users: make(map[string]User)}
}

func (r *memoryRepository) Create(_ context.Context, user User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Mobile]; exists {
		return ErrDuplicateMobile
	}
	r.users[user.Mobile] = user
	return nil
}

func (r *memoryRepository) FindByMobile(_ context.Context, mobile string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[mobile]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *memoryRepository) FindByEmailAndRole(_ context.Context, email, role string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Email == email && user.Role == role {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *memoryRepository) UpdatePINHash(_ context.Context, id string, hash []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for mobile, user := range r.users {
		if user.ID == id {
			user.PINHash = hash
			r.users[mobile] = user
			return nil
		}
	}
	return ErrNotFound
}

func (r *memoryRepository) UpdatePINHashByMobile(_ context.Context, mobile string, hash []byte) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[mobile]
	if !ok {
		return User{}, ErrNotFound
	}
	user.PINHash = hash
	r.users[mobile] = user
	return user, nil
}
