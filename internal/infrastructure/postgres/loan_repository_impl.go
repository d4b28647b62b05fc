package postgres

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-library-records/internal/domain"
	"github.com/oksasatya/go-library-records/internal/domain/entity"
	"github.com/oksasatya/go-library-records/internal/domain/repository"
)

const tableLoans = "loans"

var loanColumns = []any{"id", "copy_id", "user_id", "loan_date", "return_date", "active"}

type LoanRepository struct {
	q querier
}

func scanLoan(row pgx.Row) (entity.Loan, error) {
	var l entity.Loan
	err := row.Scan(&l.ID, &l.CopyID, &l.UserID, &l.LoanDate, &l.ReturnDate, &l.Active)
	return l, err
}

func selectLoans() *goqu.SelectDataset {
	return dialect().From(tableLoans).Select(loanColumns...).Order(goqu.I("id").Asc())
}

func activeLoansOfUser(userID int64) *goqu.SelectDataset {
	return selectLoans().Where(goqu.C("user_id").Eq(userID), goqu.C("active").IsTrue())
}

func (r *LoanRepository) Create(ctx context.Context, l *entity.Loan) error {
	row := r.q.QueryRow(ctx, `
		INSERT INTO loans (copy_id, user_id, loan_date, return_date, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, l.CopyID, l.UserID, l.LoanDate, l.ReturnDate, l.Active)
	if err := row.Scan(&l.ID); err != nil {
		return translate("insert loan", err)
	}
	return nil
}

func (r *LoanRepository) GetByID(ctx context.Context, id int64) (*entity.Loan, error) {
	return queryOne(ctx, r.q, selectLoans().Where(goqu.C("id").Eq(id)), scanLoan, domain.NotFound("loan", id))
}

func (r *LoanRepository) List(ctx context.Context, p repository.Page) ([]entity.Loan, error) {
	return queryMany(ctx, r.q, paged(selectLoans(), p), scanLoan)
}

func (r *LoanRepository) ListByUser(ctx context.Context, userID int64) ([]entity.Loan, error) {
	return queryMany(ctx, r.q, selectLoans().Where(goqu.C("user_id").Eq(userID)), scanLoan)
}

func (r *LoanRepository) ListActiveByUser(ctx context.Context, userID int64) ([]entity.Loan, error) {
	return queryMany(ctx, r.q, activeLoansOfUser(userID), scanLoan)
}

func (r *LoanRepository) ListByCopy(ctx context.Context, copyID int64) ([]entity.Loan, error) {
	return queryMany(ctx, r.q, selectLoans().Where(goqu.C("copy_id").Eq(copyID)), scanLoan)
}

func (r *LoanRepository) CountActiveByUser(ctx context.Context, userID int64) (int, error) {
	ds := dialect().From(tableLoans).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.C("user_id").Eq(userID), goqu.C("active").IsTrue())
	query, args, err := toSQL(ds)
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, domain.StoreFailure("count active loans", err)
	}
	return n, nil
}

func (r *LoanRepository) HasActiveForCopy(ctx context.Context, copyID int64) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM loans WHERE copy_id = $1 AND active)`, copyID,
	).Scan(&exists)
	if err != nil {
		return false, domain.StoreFailure("check active loan", err)
	}
	return exists, nil
}

// UpdateDates overwrites both dates and refreshes l from the stored row.
func (r *LoanRepository) UpdateDates(ctx context.Context, l *entity.Loan) error {
	row := r.q.QueryRow(ctx, `
		UPDATE loans SET loan_date = $1, return_date = $2
		WHERE id = $3
		RETURNING id, copy_id, user_id, loan_date, return_date, active
	`, l.LoanDate, l.ReturnDate, l.ID)
	updated, err := scanLoan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NotFound("loan", l.ID)
		}
		return translate("update loan", err)
	}
	*l = updated
	return nil
}

func (r *LoanRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return execAffecting(ctx, r.q, domain.NotFound("loan", id),
		`UPDATE loans SET active = $1 WHERE id = $2`, active, id)
}

func (r *LoanRepository) Delete(ctx context.Context, id int64) error {
	return execAffecting(ctx, r.q, domain.NotFound("loan", id), `DELETE FROM loans WHERE id = $1`, id)
}

var _ repository.LoanRepository = (*LoanRepository)(nil)
