package repository

import (
	"context"

	"github.com/oksasatya/go-library-records/internal/domain/entity"
)

type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	List(ctx context.Context, p Page) ([]entity.Category, error)
	Update(ctx context.Context, c *entity.Category) error
	Delete(ctx context.Context, id int64) error
}

type BookRepository interface {
	Create(ctx context.Context, b *entity.Book) error
	GetByID(ctx context.Context, id int64) (*entity.Book, error)
	List(ctx context.Context, p Page) ([]entity.Book, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]entity.Book, error)
	ListByAuthor(ctx context.Context, author string) ([]entity.Book, error)
	ListByEditorial(ctx context.Context, editorial string) ([]entity.Book, error)
	Update(ctx context.Context, b *entity.Book) error
	Delete(ctx context.Context, id int64) error
}

// CopyRepository covers copies of books. GetForUpdate locks the row for the
// rest of the surrounding transaction.
type CopyRepository interface {
	Create(ctx context.Context, c *entity.Copy) error
	GetByID(ctx context.Context, id int64) (*entity.Copy, error)
	GetForUpdate(ctx context.Context, id int64) (*entity.Copy, error)
	List(ctx context.Context, p Page) ([]entity.Copy, error)
	ListByBook(ctx context.Context, bookID int64) ([]entity.Copy, error)
	ListAvailableByBook(ctx context.Context, bookID int64) ([]entity.Copy, error)
	Update(ctx context.Context, c *entity.Copy) error
	SetAvailable(ctx context.Context, id int64, available bool) error
	Delete(ctx context.Context, id int64) error
}
