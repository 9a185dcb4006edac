package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/eventhub-backend/internal/domain/entity"
)

// ErrNotFound is returned by repositories when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicateUsername is returned when the unique username constraint fires.
var ErrDuplicateUsername = errors.New("username already exists")

// UserRepository is the persistence gateway for users.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	SearchByUsername(ctx context.Context, fragment string) ([]*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
}
