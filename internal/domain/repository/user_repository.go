package repository

import (
	"context"

	"github.com/gracegather/community-api/internal/domain/entity"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateProfile(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}
