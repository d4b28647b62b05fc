package memory

import (
	"context"

	"github.com/oksasatya/go-library-records/internal/domain"
	"github.com/oksasatya/go-library-records/internal/domain/entity"
	"github.com/oksasatya/go-library-records/internal/domain/repository"
)

type categoryRepo struct{ s *Store }

func (r categoryRepo) Create(ctx context.Context, c *entity.Category) error {
	return r.s.do(ctx, func(st *state) error {
		c.ID = st.categories.nextID()
		st.categories.rows[c.ID] = *c
		return nil
	})
}

func (r categoryRepo) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	var out *entity.Category
	err := r.s.do(ctx, func(st *state) error {
		c, ok := st.categories.rows[id]
		if !ok {
			return domain.NotFound("category", id)
		}
		out = &c
		return nil
	})
	return out, err
}

func (r categoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	var out *entity.Category
	err := r.s.do(ctx, func(st *state) error {
		found := st.categories.filter(func(c entity.Category) bool { return c.Name == name })
		if len(found) == 0 {
			return domain.NotFound("category", name)
		}
		out = &found[0]
		return nil
	})
	return out, err
}

func (r categoryRepo) List(ctx context.Context, p repository.Page) ([]entity.Category, error) {
	var out []entity.Category
	err := r.s.do(ctx, func(st *state) error {
		out = st.categories.page(p)
		return nil
	})
	return out, err
}

func (r categoryRepo) Update(ctx context.Context, c *entity.Category) error {
	return r.s.do(ctx, func(st *state) error {
		if _, ok := st.categories.rows[c.ID]; !ok {
			return domain.NotFound("category", c.ID)
		}
		st.categories.rows[c.ID] = *c
		return nil
	})
}

func (r categoryRepo) Delete(ctx context.Context, id int64) error {
	return r.s.do(ctx, func(st *state) error {
		if _, ok := st.categories.rows[id]; !ok {
			return domain.NotFound("category", id)
		}
		delete(st.categories.rows, id)
		return nil
	})
}

type bookRepo struct{ s *Store }

func (r bookRepo) Create(ctx context.Context, b *entity.Book) error {
	return r.s.do(ctx, func(st *state) error {
		b.ID = st.books.nextID()
		st.books.rows[b.ID] = *b
		return nil
	})
}

func (r bookRepo) GetByID(ctx context.Context, id int64) (*entity.Book, error) {
	var out *entity.Book
	err := r.s.do(ctx, func(st *state) error {
		b, ok := st.books.rows[id]
		if !ok {
			return domain.NotFound("book", id)
		}
		out = &b
		return nil
	})
	return out, err
}

func (r bookRepo) List(ctx context.Context, p repository.Page) ([]entity.Book, error) {
	var out []entity.Book
	err := r.s.do(ctx, func(st *state) error {
		out = st.books.page(p)
		return nil
	})
	return out, err
}

func (r bookRepo) where(ctx context.Context, keep func(entity.Book) bool) ([]entity.Book, error) {
	var out []entity.Book
	err := r.s.do(ctx, func(st *state) error {
		out = st.books.filter(keep)
		return nil
	})
	return out, err
}

func (r bookRepo) ListByCategory(ctx context.Context, categoryID int64) ([]entity.Book, error) {
	return r.where(ctx, func(b entity.Book) bool { return b.CategoryID == categoryID })
}

func (r bookRepo) ListByAuthor(ctx context.Context, author string) ([]entity.Book, error) {
	return r.where(ctx, func(b entity.Book) bool { return b.Author == author })
}

func (r bookRepo) ListByEditorial(ctx context.Context, editorial string) ([]entity.Book, error) {
	return r.where(ctx, func(b entity.Book) bool { return b.Editorial == editorial })
}

func (r bookRepo) Update(ctx context.Context, b *entity.Book) error {
	return r.s.do(ctx, func(st *state) error {
		if _, ok := st.books.rows[b.ID]; !ok {
			return domain.NotFound("book", b.ID)
		}
		st.books.rows[b.ID] = *b
		return nil
	})
}

func (r bookRepo) Delete(ctx context.Context, id int64) error {
	return r.s.do(ctx, func(st *state) error {
		if _, ok := st.books.rows[id]; !ok {
			return domain.NotFound("book", id)
		}
		delete(st.books.rows, id)
		return nil
	})
}

type copyRepo struct{ s *Store }

func (r copyRepo) Create(ctx context.Context, c *entity.Copy) error {
	return r.s.do(ctx, func(st *state) error {
		c.ID = st.copies.nextID()
		st.copies.rows[c.ID] = *c
		return nil
	})
}

func (r copyRepo) GetByID(ctx context.Context, id int64) (*entity.Copy, error) {
	var out *entity.Copy
	err := r.s.do(ctx, func(st *state) error {
		c, ok := st.copies.rows[id]
		if !ok {
			return domain.NotFound("copy", id)
		}
		out = &c
		return nil
	})
	return out, err
}

// GetForUpdate needs no row lock here: transactions already hold the store lock.
func (r copyRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Copy, error) {
	return r.GetByID(ctx, id)
}

func (r copyRepo) List(ctx context.Context, p repository.Page) ([]entity.Copy, error) {
	var out []entity.Copy
	err := r.s.do(ctx, func(st *state) error {
		out = st.copies.page(p)
		return nil
	})
	return out, err
}

func (r copyRepo) where(ctx context.Context, keep func(entity.Copy) bool) ([]entity.Copy, error) {
	var out []entity.Copy
	err := r.s.do(ctx, func(st *state) error {
		out = st.copies.filter(keep)
		return nil
	})
	return out, err
}

func (r copyRepo) ListByBook(ctx context.Context, bookID int64) ([]entity.Copy, error) {
	return r.where(ctx, func(c entity.Copy) bool { return c.BookID == bookID })
}

func (r copyRepo) ListAvailableByBook(ctx context.Context, bookID int64) ([]entity.Copy, error) {
	return r.where(ctx, func(c entity.Copy) bool { return c.BookID == bookID && c.Lendable() })
}

func (r copyRepo) Update(ctx context.Context, c *entity.Copy) error {
	return r.s.do(ctx, func(st *state) error {
		if _, ok := st.copies.rows[c.ID]; !ok {
			return domain.NotFound("copy", c.ID)
		}
		st.copies.rows[c.ID] = *c
		return nil
	})
}

func (r copyRepo) SetAvailable(ctx context.Context, id int64, available bool) error {
	return r.s.do(ctx, func(st *state) error {
		c, ok := st.copies.rows[id]
		if !ok {
			return domain.NotFound("copy", id)
		}
		c.Available = available
		st.copies.rows[id] = c
		return nil
	})
}

func (r copyRepo) Delete(ctx context.Context, id int64) error {
	return r.s.do(ctx, func(st *state) error {
		if _, ok := st.copies.rows[id]; !ok {
			return domain.NotFound("copy", id)
		}
		delete(st.copies.rows, id)
		return nil
	})
}
