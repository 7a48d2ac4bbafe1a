package memory

import (
	"context"
	"sync"

	"github.com/quickmart/backend/internal/user/service/models/user"
)

// UserRepository is the in-process account store used by tests.
type UserRepository struct {
	mu      sync.Mutex
	nextID  int64
	byEmail map[string]user.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		nextID:  1,
		byEmail: make(map[string]user.User),
	}
}

func (r *UserRepository) Create(_ context.Context, email string, passwordHash string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[email]; ok {
		return 0, user.ErrEmailTaken
	}

	u := user.User{
		ID:           r.nextID,
		Email:        email,
		PasswordHash: passwordHash,
	}
	r.nextID++
	r.byEmail[email] = u

	return u.ID, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byEmail[email]
	if !ok {
		return nil, user.ErrInvalidCredentials
	}

	return &u, nil
}
