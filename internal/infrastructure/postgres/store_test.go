package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-library-records/internal/domain"
	"github.com/oksasatya/go-library-records/internal/domain/repository"
)

func TestSelectByID_UsesPlaceholders(t *testing.T) {
	query, args, err := toSQL(selectUsers().Where(userIDIs(42)))
	require.NoError(t, err)

	assert.Contains(t, query, `FROM "users"`)
	assert.Contains(t, query, `"id" = $1`)
	assert.Contains(t, query, `ORDER BY "id" ASC`)
	assert.Equal(t, []any{int64(42)}, args)
}

func TestLockUser_SelectsForUpdate(t *testing.T) {
	query, args, err := toSQL(lockUser(7))
	require.NoError(t, err)

	assert.Contains(t, query, `"id" = $1`)
	assert.Contains(t, query, `FOR UPDATE`)
	assert.Equal(t, []any{int64(7)}, args)
}

func TestAvailableCopiesOfBook_ExcludesAttention(t *testing.T) {
	query, args, err := toSQL(availableCopiesOfBook(9))
	require.NoError(t, err)

	assert.Contains(t, query, `"book_id" = $1`)
	assert.Contains(t, query, `"available" IS TRUE`)
	assert.Contains(t, query, `"attention" IS FALSE`)
	assert.Equal(t, []any{int64(9)}, args)
}

func TestActiveLoansOfUser(t *testing.T) {
	query, _, err := toSQL(activeLoansOfUser(3))
	require.NoError(t, err)

	assert.Contains(t, query, `FROM "loans"`)
	assert.Contains(t, query, `"user_id" = $1`)
	assert.Contains(t, query, `"active" IS TRUE`)
}

func TestPaged_AppliesDefaults(t *testing.T) {
	query, args, err := toSQL(paged(selectBooks(), repository.Page{Skip: -4}))
	require.NoError(t, err)

	assert.Contains(t, query, "LIMIT")
	assert.Contains(t, query, "OFFSET")
	assert.Len(t, args, 2)
}

func TestTranslate(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "second active loan on a copy",
			err:  &pgconn.PgError{Code: uniqueViolation, ConstraintName: oneActiveLoanPerCopy},
			want: domain.ErrCopyUnavailable,
		},
		{
			name: "return date before loan date",
			err:  &pgconn.PgError{Code: checkViolation, ConstraintName: returnAfterLoanDateChk},
			want: domain.ErrInvalidDateRange,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, translate("insert loan", tc.err), tc.want)
		})
	}

	t.Run("other errors are store failures", func(t *testing.T) {
		err := translate("insert book", errors.New("connection reset"))
		assert.Equal(t, domain.KindStore, domain.KindOf(err))
		assert.Equal(t, domain.CodeStoreFailure, domain.CodeOf(err))
	})
}
