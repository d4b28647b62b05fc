package postgres

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-library-records/internal/domain"
	"github.com/oksasatya/go-library-records/internal/domain/entity"
	"github.com/oksasatya/go-library-records/internal/domain/repository"
)

const (
	tableCategories = "categories"
	tableBooks      = "books"
	tableCopies     = "copies"
)

var (
	categoryColumns = []any{"id", "name"}
	bookColumns     = []any{"id", "title", "author", "editorial", "pub_year", "edition", "category_id"}
	copyColumns     = []any{"id", "book_id", "available", "attention"}
)

// ---- categories ----

type CategoryRepository struct {
	q querier
}

func scanCategory(row pgx.Row) (entity.Category, error) {
	var c entity.Category
	err := row.Scan(&c.ID, &c.Name)
	return c, err
}

func selectCategories() *goqu.SelectDataset {
	return dialect().From(tableCategories).Select(categoryColumns...).Order(goqu.I("id").Asc())
}

func (r *CategoryRepository) Create(ctx context.Context, c *entity.Category) error {
	if err := r.q.QueryRow(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, c.Name).Scan(&c.ID); err != nil {
		return translate("insert category", err)
	}
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	return queryOne(ctx, r.q, selectCategories().Where(goqu.C("id").Eq(id)), scanCategory, domain.NotFound("category", id))
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	ds := selectCategories().Where(goqu.C("name").Eq(name)).Limit(1)
	return queryOne(ctx, r.q, ds, scanCategory, domain.NotFound("category", name))
}

func (r *CategoryRepository) List(ctx context.Context, p repository.Page) ([]entity.Category, error) {
	return queryMany(ctx, r.q, paged(selectCategories(), p), scanCategory)
}

func (r *CategoryRepository) Update(ctx context.Context, c *entity.Category) error {
	return execAffecting(ctx, r.q, domain.NotFound("category", c.ID),
		`UPDATE categories SET name = $1 WHERE id = $2`, c.Name, c.ID)
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	return execAffecting(ctx, r.q, domain.NotFound("category", id), `DELETE FROM categories WHERE id = $1`, id)
}

// ---- books ----

type BookRepository struct {
	q querier
}

func scanBook(row pgx.Row) (entity.Book, error) {
	var b entity.Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Editorial, &b.PubYear, &b.Edition, &b.CategoryID)
	return b, err
}

func selectBooks() *goqu.SelectDataset {
	return dialect().From(tableBooks).Select(bookColumns...).Order(goqu.I("id").Asc())
}

func (r *BookRepository) Create(ctx context.Context, b *entity.Book) error {
	row := r.q.QueryRow(ctx, `
		INSERT INTO books (title, author, editorial, pub_year, edition, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, b.Title, b.Author, b.Editorial, b.PubYear, b.Edition, b.CategoryID)
	if err := row.Scan(&b.ID); err != nil {
		return translate("insert book", err)
	}
	return nil
}

func (r *BookRepository) GetByID(ctx context.Context, id int64) (*entity.Book, error) {
	return queryOne(ctx, r.q, selectBooks().Where(goqu.C("id").Eq(id)), scanBook, domain.NotFound("book", id))
}

func (r *BookRepository) List(ctx context.Context, p repository.Page) ([]entity.Book, error) {
	return queryMany(ctx, r.q, paged(selectBooks(), p), scanBook)
}

func (r *BookRepository) ListByCategory(ctx context.Context, categoryID int64) ([]entity.Book, error) {
	return queryMany(ctx, r.q, selectBooks().Where(goqu.C("category_id").Eq(categoryID)), scanBook)
}

func (r *BookRepository) ListByAuthor(ctx context.Context, author string) ([]entity.Book, error) {
	return queryMany(ctx, r.q, selectBooks().Where(goqu.C("author").Eq(author)), scanBook)
}

func (r *BookRepository) ListByEditorial(ctx context.Context, editorial string) ([]entity.Book, error) {
	return queryMany(ctx, r.q, selectBooks().Where(goqu.C("editorial").Eq(editorial)), scanBook)
}

func (r *BookRepository) Update(ctx context.Context, b *entity.Book) error {
	return execAffecting(ctx, r.q, domain.NotFound("book", b.ID), `
		UPDATE books
		SET title = $1, author = $2, editorial = $3, pub_year = $4, edition = $5, category_id = $6
		WHERE id = $7
	`, b.Title, b.Author, b.Editorial, b.PubYear, b.Edition, b.CategoryID, b.ID)
}

func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	return execAffecting(ctx, r.q, domain.NotFound("book", id), `DELETE FROM books WHERE id = $1`, id)
}

// ---- copies ----

type CopyRepository struct {
	q querier
}

func scanCopy(row pgx.Row) (entity.Copy, error) {
	var c entity.Copy
	err := row.Scan(&c.ID, &c.BookID, &c.Available, &c.Attention)
	return c, err
}

func selectCopies() *goqu.SelectDataset {
	return dialect().From(tableCopies).Select(copyColumns...).Order(goqu.I("id").Asc())
}

func availableCopiesOfBook(bookID int64) *goqu.SelectDataset {
	return selectCopies().Where(
		goqu.C("book_id").Eq(bookID),
		goqu.C("available").IsTrue(),
		goqu.C("attention").IsFalse(),
	)
}

func (r *CopyRepository) Create(ctx context.Context, c *entity.Copy) error {
	row := r.q.QueryRow(ctx, `
		INSERT INTO copies (book_id, available, attention)
		VALUES ($1, $2, $3)
		RETURNING id
	`, c.BookID, c.Available, c.Attention)
	if err := row.Scan(&c.ID); err != nil {
		return translate("insert copy", err)
	}
	return nil
}

func (r *CopyRepository) GetByID(ctx context.Context, id int64) (*entity.Copy, error) {
	return queryOne(ctx, r.q, selectCopies().Where(goqu.C("id").Eq(id)), scanCopy, domain.NotFound("copy", id))
}

// GetForUpdate takes a row lock; only meaningful inside WithinTx.
func (r *CopyRepository) GetForUpdate(ctx context.Context, id int64) (*entity.Copy, error) {
	ds := selectCopies().Where(goqu.C("id").Eq(id)).ForUpdate(exp.Wait)
	return queryOne(ctx, r.q, ds, scanCopy, domain.NotFound("copy", id))
}

func (r *CopyRepository) List(ctx context.Context, p repository.Page) ([]entity.Copy, error) {
	return queryMany(ctx, r.q, paged(selectCopies(), p), scanCopy)
}

func (r *CopyRepository) ListByBook(ctx context.Context, bookID int64) ([]entity.Copy, error) {
	return queryMany(ctx, r.q, selectCopies().Where(goqu.C("book_id").Eq(bookID)), scanCopy)
}

func (r *CopyRepository) ListAvailableByBook(ctx context.Context, bookID int64) ([]entity.Copy, error) {
	return queryMany(ctx, r.q, availableCopiesOfBook(bookID), scanCopy)
}

func (r *CopyRepository) Update(ctx context.Context, c *entity.Copy) error {
	return execAffecting(ctx, r.q, domain.NotFound("copy", c.ID), `
		UPDATE copies SET book_id = $1, available = $2, attention = $3 WHERE id = $4
	`, c.BookID, c.Available, c.Attention, c.ID)
}

func (r *CopyRepository) SetAvailable(ctx context.Context, id int64, available bool) error {
	return execAffecting(ctx, r.q, domain.NotFound("copy", id),
		`UPDATE copies SET available = $1 WHERE id = $2`, available, id)
}

func (r *CopyRepository) Delete(ctx context.Context, id int64) error {
	return execAffecting(ctx, r.q, domain.NotFound("copy", id), `DELETE FROM copies WHERE id = $1`, id)
}

var (
	_ repository.CategoryRepository = (*CategoryRepository)(nil)
	_ repository.BookRepository     = (*BookRepository)(nil)
	_ repository.CopyRepository     = (*CopyRepository)(nil)
)
