package users

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is a simple in-memory repository useful for tests.
// It is not intended for production use.
type MemoryRepo struct {
	mu     sync.Mutex
	byName map[string]User
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byName: make(map[string]User)}
}

func (r *MemoryRepo) Create(ctx context.Context, u NewUser) (uuid.UUID, error) {
	if _, err := roleToDB(u.Role); err != nil {
		return uuid.Nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[u.Username]; ok {
		return uuid.Nil, ErrUsernameTaken
	}
	now := time.Now().UTC()
	rec := User{
		ID:           uuid.New(),
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.byName[u.Username] = rec
	return rec.ID, nil
}

func (r *MemoryRepo) FindByUsername(ctx context.Context, username string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byName[username]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}
