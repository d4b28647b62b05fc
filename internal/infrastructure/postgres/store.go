package postgres

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-library-records/internal/domain"
	"github.com/oksasatya/go-library-records/internal/domain/repository"
)

const (
	dialectPostgres = "postgres"

	uniqueViolation        = "23505"
	checkViolation         = "23514"
	oneActiveLoanPerCopy   = "loans_one_active_per_copy"
	returnAfterLoanDateChk = "loans_return_after_loan"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	pool *pgxpool.Pool
	q    querier
	inTx bool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, q: pool}
}

func (s *Store) Users() repository.UserRepository          { return &UserRepository{q: s.q} }
func (s *Store) Categories() repository.CategoryRepository { return &CategoryRepository{q: s.q} }
func (s *Store) Books() repository.BookRepository          { return &BookRepository{q: s.q} }
func (s *Store) Copies() repository.CopyRepository         { return &CopyRepository{q: s.q} }
func (s *Store) Loans() repository.LoanRepository          { return &LoanRepository{q: s.q} }

// WithinTx runs fn in a single transaction: commit on nil, rollback on error
// or panic. Nested calls join the outer transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) (err error) {
	if s.inTx {
		return fn(s)
	}
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.StoreFailure("begin transaction", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if cErr := tx.Commit(ctx); cErr != nil {
			err = domain.StoreFailure("commit transaction", cErr)
		}
	}()
	return fn(&Store{pool: s.pool, q: tx, inTx: true})
}

var _ repository.Store = (*Store)(nil)

func dialect() goqu.DialectWrapper {
	return goqu.Dialect(dialectPostgres)
}

// toSQL renders a select with $n placeholders.
func toSQL(ds *goqu.SelectDataset) (string, []any, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return "", nil, domain.StoreFailure("build query", err)
	}
	return query, args, nil
}

func paged(ds *goqu.SelectDataset, p repository.Page) *goqu.SelectDataset {
	p = p.Normalize()
	return ds.Offset(uint(p.Skip)).Limit(uint(p.Limit))
}

func queryOne[T any](ctx context.Context, q querier, ds *goqu.SelectDataset, scan func(pgx.Row) (T, error), notFound *domain.Error) (*T, error) {
	query, args, err := toSQL(ds)
	if err != nil {
		return nil, err
	}
	v, err := scan(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound
		}
		return nil, domain.StoreFailure("query", err)
	}
	return &v, nil
}

func queryMany[T any](ctx context.Context, q querier, ds *goqu.SelectDataset, scan func(pgx.Row) (T, error)) ([]T, error) {
	query, args, err := toSQL(ds)
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.StoreFailure("query", err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, domain.StoreFailure("scan row", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreFailure("iterate rows", err)
	}
	return out, nil
}

// execAffecting runs a write that must touch one row.
func execAffecting(ctx context.Context, q querier, notFound *domain.Error, sql string, args ...any) error {
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return translate("exec", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}

// translate maps constraint violations that encode business rules onto
// domain errors; everything else is a store failure.
func translate(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == uniqueViolation && pgErr.ConstraintName == oneActiveLoanPerCopy:
			return domain.ErrCopyUnavailable
		case pgErr.Code == checkViolation && pgErr.ConstraintName == returnAfterLoanDateChk:
			return domain.ErrInvalidDateRange
		}
	}
	return domain.StoreFailure(op, err)
}
