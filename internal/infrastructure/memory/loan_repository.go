package memory

import (
	"context"

	"github.com/oksasatya/go-library-records/internal/domain"
	"github.com/oksasatya/go-library-records/internal/domain/entity"
	"github.com/oksasatya/go-library-records/internal/domain/repository"
)

type loanRepo struct{ s *Store }

func (r loanRepo) Create(ctx context.Context, l *entity.Loan) error {
	return r.s.do(ctx, func(st *state) error {
		l.ID = st.loans.nextID()
		st.loans.rows[l.ID] = *l
		return nil
	})
}

func (r loanRepo) GetByID(ctx context.Context, id int64) (*entity.Loan, error) {
	var out *entity.Loan
	err := r.s.do(ctx, func(st *state) error {
		l, ok := st.loans.rows[id]
		if !ok {
			return domain.NotFound("loan", id)
		}
		out = &l
		return nil
	})
	return out, err
}

func (r loanRepo) List(ctx context.Context, p repository.Page) ([]entity.Loan, error) {
	var out []entity.Loan
	err := r.s.do(ctx, func(st *state) error {
		out = st.loans.page(p)
		return nil
	})
	return out, err
}

func (r loanRepo) where(ctx context.Context, keep func(entity.Loan) bool) ([]entity.Loan, error) {
	var out []entity.Loan
	err := r.s.do(ctx, func(st *state) error {
		out = st.loans.filter(keep)
		return nil
	})
	return out, err
}

func (r loanRepo) ListByUser(ctx context.Context, userID int64) ([]entity.Loan, error) {
	return r.where(ctx, func(l entity.Loan) bool { return l.UserID == userID })
}

func (r loanRepo) ListActiveByUser(ctx context.Context, userID int64) ([]entity.Loan, error) {
	return r.where(ctx, func(l entity.Loan) bool { return l.UserID == userID && l.Active })
}

func (r loanRepo) ListByCopy(ctx context.Context, copyID int64) ([]entity.Loan, error) {
	return r.where(ctx, func(l entity.Loan) bool { return l.CopyID == copyID })
}

func (r loanRepo) CountActiveByUser(ctx context.Context, userID int64) (int, error) {
	active, err := r.ListActiveByUser(ctx, userID)
	return len(active), err
}

func (r loanRepo) HasActiveForCopy(ctx context.Context, copyID int64) (bool, error) {
	active, err := r.where(ctx, func(l entity.Loan) bool { return l.CopyID == copyID && l.Active })
	return len(active) > 0, err
}

func (r loanRepo) UpdateDates(ctx context.Context, l *entity.Loan) error {
	return r.s.do(ctx, func(st *state) error {
		cur, ok := st.loans.rows[l.ID]
		if !ok {
			return domain.NotFound("loan", l.ID)
		}
		cur.LoanDate = l.LoanDate
		cur.ReturnDate = l.ReturnDate
		st.loans.rows[l.ID] = cur
		*l = cur
		return nil
	})
}

func (r loanRepo) SetActive(ctx context.Context, id int64, active bool) error {
	return r.s.do(ctx, func(st *state) error {
		l, ok := st.loans.rows[id]
		if !ok {
			return domain.NotFound("loan", id)
		}
		l.Active = active
		st.loans.rows[id] = l
		return nil
	})
}

func (r loanRepo) Delete(ctx context.Context, id int64) error {
	return r.s.do(ctx, func(st *state) error {
		if _, ok := st.loans.rows[id]; !ok {
			return domain.NotFound("loan", id)
		}
		delete(st.loans.rows, id)
		return nil
	})
}
