package iuserrepo

import (
	"context"

	"github.com/quickmart/backend/internal/user/service/models/user"
)

// Repository owns the user accounts. Create returns user.ErrEmailTaken when
// the email is already registered.
type Repository interface {
	Create(ctx context.Context, email string, passwordHash string) (int64, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}
