package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-library-records/internal/domain"
	"github.com/oksasatya/go-library-records/internal/domain/entity"
	"github.com/oksasatya/go-library-records/internal/domain/repository"
)

func TestStore_AssignsSequentialIDsPerEntity(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	c1 := &entity.Category{Name: "Poetry"}
	c2 := &entity.Category{Name: "History"}
	b1 := &entity.Book{Title: "Odes", CategoryID: 1}
	require.NoError(t, s.Categories().Create(ctx, c1))
	require.NoError(t, s.Categories().Create(ctx, c2))
	require.NoError(t, s.Books().Create(ctx, b1))

	assert.EqualValues(t, 1, c1.ID)
	assert.EqualValues(t, 2, c2.ID)
	assert.EqualValues(t, 1, b1.ID)
}

func TestStore_MissingRecordsReturnNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.Users().GetByID(ctx, 9)
	assert.True(t, errors.Is(err, domain.NotFound("user", 9)))

	_, err = s.Users().GetByEmail(ctx, "nobody@x.com")
	assert.True(t, domain.IsNotFound(err))

	err = s.Copies().SetAvailable(ctx, 4, true)
	assert.True(t, errors.Is(err, domain.NotFound("copy", 4)))

	err = s.Loans().Delete(ctx, 1)
	assert.True(t, domain.IsNotFound(err))

	books, err := s.Books().ListByAuthor(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestStore_ListPagination(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Copies().Create(ctx, &entity.Copy{BookID: 1, Available: true}))
	}

	page, err := s.Copies().List(ctx, repository.Page{Skip: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.EqualValues(t, 2, page[0].ID)
	assert.EqualValues(t, 3, page[1].ID)

	page, err = s.Copies().List(ctx, repository.Page{Skip: 10})
	require.NoError(t, err)
	assert.Empty(t, page)

	page, err = s.Copies().List(ctx, repository.Page{})
	require.NoError(t, err)
	assert.Len(t, page, 5)
}

func TestStore_AvailableCopiesExcludeAttention(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Copies().Create(ctx, &entity.Copy{BookID: 1, Available: true}))
	require.NoError(t, s.Copies().Create(ctx, &entity.Copy{BookID: 1, Available: true, Attention: true}))
	require.NoError(t, s.Copies().Create(ctx, &entity.Copy{BookID: 1, Available: false}))
	require.NoError(t, s.Copies().Create(ctx, &entity.Copy{BookID: 2, Available: true}))

	avail, err := s.Copies().ListAvailableByBook(ctx, 1)
	require.NoError(t, err)
	require.Len(t, avail, 1)
	assert.EqualValues(t, 1, avail[0].ID)

	all, err := s.Copies().ListByBook(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestStore_LoanQueries(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Loans().Create(ctx, &entity.Loan{UserID: 1, CopyID: 1, Active: true}))
	require.NoError(t, s.Loans().Create(ctx, &entity.Loan{UserID: 1, CopyID: 2, Active: false}))
	require.NoError(t, s.Loans().Create(ctx, &entity.Loan{UserID: 2, CopyID: 2, Active: true}))

	n, err := s.Loans().CountActiveByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	byCopy, err := s.Loans().ListByCopy(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, byCopy, 2)

	has, err := s.Loans().HasActiveForCopy(ctx, 1)
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, s.Loans().SetActive(ctx, 1, false))
	has, err = s.Loans().HasActiveForCopy(ctx, 1)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestStore_WithinTx_CommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	err := s.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Categories().Create(ctx, &entity.Category{Name: "Drama"}); err != nil {
			return err
		}
		// nested calls reuse the open transaction
		return tx.WithinTx(ctx, func(inner repository.Store) error {
			return inner.Categories().Create(ctx, &entity.Category{Name: "Essay"})
		})
	})
	require.NoError(t, err)

	cats, err := s.Categories().List(ctx, repository.Page{})
	require.NoError(t, err)
	assert.Len(t, cats, 2)
}

func TestStore_WithinTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Copies().Create(ctx, &entity.Copy{BookID: 1, Available: true}))

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(tx repository.Store) error {
		require.NoError(t, tx.Copies().SetAvailable(ctx, 1, false))
		require.NoError(t, tx.Loans().Create(ctx, &entity.Loan{UserID: 1, CopyID: 1, Active: true}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	c, err := s.Copies().GetByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, c.Available)

	loans, err := s.Loans().List(ctx, repository.Page{})
	require.NoError(t, err)
	assert.Empty(t, loans)
}

func TestStore_WithinTx_RollsBackOnPanic(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	assert.Panics(t, func() {
		_ = s.WithinTx(ctx, func(tx repository.Store) error {
			_ = tx.Categories().Create(ctx, &entity.Category{Name: "Lost"})
			panic("unexpected")
		})
	})

	cats, err := s.Categories().List(ctx, repository.Page{})
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewStore()

	err := s.Categories().Create(ctx, &entity.Category{Name: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}
