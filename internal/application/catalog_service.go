package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-library-records/internal/domain"
	"github.com/oksasatya/go-library-records/internal/domain/entity"
	repo "github.com/oksasatya/go-library-records/internal/domain/repository"
)

// BookIndexer keeps a search index of the catalog in sync.
type BookIndexer interface {
	IndexBook(ctx context.Context, b entity.Book) error
	DeleteBook(ctx context.Context, id int64) error
	SearchBooks(ctx context.Context, q string, size int) ([]entity.Book, error)
}

// CatalogService manages categories, books and copies.
type CatalogService struct {
	Store   repo.Store
	Indexer BookIndexer // optional
	Logger  *logrus.Logger
}

func NewCatalogService(store repo.Store, indexer BookIndexer, logger *logrus.Logger) *CatalogService {
	return &CatalogService{Store: store, Indexer: indexer, Logger: logger}
}

// ---- categories ----

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*entity.Category, error) {
	c := &entity.Category{Name: name}
	if err := s.Store.Categories().Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*entity.Category, error) {
	return s.Store.Categories().GetByID(ctx, id)
}

func (s *CatalogService) GetCategoryByName(ctx context.Context, name string) (*entity.Category, error) {
	return s.Store.Categories().GetByName(ctx, name)
}

func (s *CatalogService) ListCategories(ctx context.Context, p repo.Page) ([]entity.Category, error) {
	return s.Store.Categories().List(ctx, p)
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id int64, name string) (*entity.Category, error) {
	c := &entity.Category{ID: id, Name: name}
	if err := s.Store.Categories().Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategory leaves the category's books in place.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	return s.Store.Categories().Delete(ctx, id)
}

// ---- books ----

type BookInput struct {
	Title      string
	Author     string
	Editorial  string
	PubYear    int
	Edition    int
	CategoryID int64
}

type UpdateBookInput struct {
	Title      *string
	Author     *string
	Editorial  *string
	PubYear    *int
	Edition    *int
	CategoryID *int64
}

func (s *CatalogService) CreateBook(ctx context.Context, in BookInput) (*entity.Book, error) {
	b := &entity.Book{
		Title:      in.Title,
		Author:     in.Author,
		Editorial:  in.Editorial,
		PubYear:    in.PubYear,
		Edition:    in.Edition,
		CategoryID: in.CategoryID,
	}
	err := s.Store.WithinTx(ctx, func(tx repo.Store) error {
		if _, err := tx.Categories().GetByID(ctx, b.CategoryID); err != nil {
			return err
		}
		return tx.Books().Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	s.index(ctx, *b)
	return b, nil
}

func (s *CatalogService) GetBook(ctx context.Context, id int64) (*entity.Book, error) {
	return s.Store.Books().GetByID(ctx, id)
}

func (s *CatalogService) ListBooks(ctx context.Context, p repo.Page) ([]entity.Book, error) {
	return s.Store.Books().List(ctx, p)
}

func (s *CatalogService) BooksByCategory(ctx context.Context, categoryID int64) ([]entity.Book, error) {
	return s.Store.Books().ListByCategory(ctx, categoryID)
}

func (s *CatalogService) BooksByAuthor(ctx context.Context, author string) ([]entity.Book, error) {
	return s.Store.Books().ListByAuthor(ctx, author)
}

func (s *CatalogService) BooksByEditorial(ctx context.Context, editorial string) ([]entity.Book, error) {
	return s.Store.Books().ListByEditorial(ctx, editorial)
}

func (s *CatalogService) UpdateBook(ctx context.Context, id int64, in UpdateBookInput) (*entity.Book, error) {
	var out *entity.Book
	err := s.Store.WithinTx(ctx, func(tx repo.Store) error {
		b, err := tx.Books().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if in.CategoryID != nil && *in.CategoryID != b.CategoryID {
			if _, err := tx.Categories().GetByID(ctx, *in.CategoryID); err != nil {
				return err
			}
			b.CategoryID = *in.CategoryID
		}
		if in.Title != nil {
			b.Title = *in.Title
		}
		if in.Author != nil {
			b.Author = *in.Author
		}
		if in.Editorial != nil {
			b.Editorial = *in.Editorial
		}
		if in.PubYear != nil {
			b.PubYear = *in.PubYear
		}
		if in.Edition != nil {
			b.Edition = *in.Edition
		}
		if err := tx.Books().Update(ctx, b); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.index(ctx, *out)
	return out, nil
}

// DeleteBook leaves the book's copies in place.
func (s *CatalogService) DeleteBook(ctx context.Context, id int64) error {
	if err := s.Store.Books().Delete(ctx, id); err != nil {
		return err
	}
	if s.Indexer != nil {
		c, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
		defer cancel()
		if err := s.Indexer.DeleteBook(c, id); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("book_id", id).Warn("search delete failed")
		}
	}
	return nil
}

// SearchBooks returns an empty result when no index is configured.
func (s *CatalogService) SearchBooks(ctx context.Context, q string, size int) ([]entity.Book, error) {
	if s.Indexer == nil {
		return []entity.Book{}, nil
	}
	return s.Indexer.SearchBooks(ctx, q, size)
}

func (s *CatalogService) index(ctx context.Context, b entity.Book) {
	if s.Indexer == nil {
		return
	}
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := s.Indexer.IndexBook(c, b); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("book_id", b.ID).Warn("search index failed")
	}
}

// ---- copies ----

type CopyInput struct {
	BookID    int64
	Available *bool
	Attention bool
}

type UpdateCopyInput struct {
	BookID    *int64
	Available *bool
	Attention *bool
}

// CreateCopy adds a copy of an existing book. New copies are available
// unless stated otherwise.
func (s *CatalogService) CreateCopy(ctx context.Context, in CopyInput) (*entity.Copy, error) {
	c := &entity.Copy{BookID: in.BookID, Available: true, Attention: in.Attention}
	if in.Available != nil {
		c.Available = *in.Available
	}
	err := s.Store.WithinTx(ctx, func(tx repo.Store) error {
		if _, err := tx.Books().GetByID(ctx, c.BookID); err != nil {
			return err
		}
		return tx.Copies().Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) GetCopy(ctx context.Context, id int64) (*entity.Copy, error) {
	return s.Store.Copies().GetByID(ctx, id)
}

func (s *CatalogService) ListCopies(ctx context.Context, p repo.Page) ([]entity.Copy, error) {
	return s.Store.Copies().List(ctx, p)
}

func (s *CatalogService) CopiesByBook(ctx context.Context, bookID int64) ([]entity.Copy, error) {
	return s.Store.Copies().ListByBook(ctx, bookID)
}

// AvailableCopiesByBook lists copies that are available and not held for
// attention.
func (s *CatalogService) AvailableCopiesByBook(ctx context.Context, bookID int64) ([]entity.Copy, error) {
	return s.Store.Copies().ListAvailableByBook(ctx, bookID)
}

// UpdateCopy refuses to mark a copy available while an active loan holds it.
func (s *CatalogService) UpdateCopy(ctx context.Context, id int64, in UpdateCopyInput) (*entity.Copy, error) {
	var out *entity.Copy
	err := s.Store.WithinTx(ctx, func(tx repo.Store) error {
		c, err := tx.Copies().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if in.BookID != nil && *in.BookID != c.BookID {
			if _, err := tx.Books().GetByID(ctx, *in.BookID); err != nil {
				return err
			}
			c.BookID = *in.BookID
		}
		if in.Available != nil {
			if *in.Available && !c.Available {
				onLoan, err := tx.Loans().HasActiveForCopy(ctx, c.ID)
				if err != nil {
					return err
				}
				if onLoan {
					return domain.ErrCopyOnLoan
				}
			}
			c.Available = *in.Available
		}
		if in.Attention != nil {
			c.Attention = *in.Attention
		}
		if err := tx.Copies().Update(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CatalogService) DeleteCopy(ctx context.Context, id int64) error {
	return s.Store.Copies().Delete(ctx, id)
}
