package repository

import (
	"context"

	"github.com/oksasatya/go-library-records/internal/domain/entity"
)

// Page bounds a list query. Limit <= 0 means DefaultLimit.
type Page struct {
	Skip  int
	Limit int
}

const DefaultLimit = 100

// Normalize applies the default window.
func (p Page) Normalize() Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	return p
}

// UserRepository defines the interface for user-related database operations.
// Single-record reads return a domain NotFound error when nothing matches.
// GetForUpdate locks the row for the rest of the surrounding transaction.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetForUpdate(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, p Page) ([]entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id int64) error
}
