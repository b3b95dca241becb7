package repositories

import (
	"context"
	"errors"

	"cafeconnect/internal/models"
)

var (
	// ErrNotFound is returned when no document matches the requested identity.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("already exists")
)

// Repository defines the data access shared by every collection.
// GetAll returns documents ordered by creation time, newest first.
type Repository[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, doc *T) error
	Update(ctx context.Context, doc *T) error
	Delete(ctx context.Context, id string) (*T, error)
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// CafeRepository defines the data access for cafes.
type CafeRepository interface {
	Repository[models.Cafe]
}

// MenuRepository defines the data access for menu items.
type MenuRepository interface {
	Repository[models.Menu]
}

// UserRepository defines the data access for users.
type UserRepository interface {
	Repository[models.User]
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// OrderRepository defines the data access for orders.
type OrderRepository interface {
	Repository[models.Order]
	// GetByUserID returns a user's orders, most recent order date first.
	GetByUserID(ctx context.Context, userID string) ([]models.Order, error)
	// GetByCafeID returns a cafe's orders, optionally restricted to one status.
	GetByCafeID(ctx context.Context, cafeID string, status models.OrderStatus) ([]models.Order, error)
}
