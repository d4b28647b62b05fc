package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-library-records/internal/domain"
	"github.com/oksasatya/go-library-records/internal/domain/entity"
	repo "github.com/oksasatya/go-library-records/internal/domain/repository"
)

const (
	DefaultMaxActiveLoans = 3
	DefaultLoanPeriod     = 8 * 24 * time.Hour
)

// LoanRules are the tunable limits of the loan lifecycle.
type LoanRules struct {
	MaxActiveLoans    int
	DefaultLoanPeriod time.Duration
}

func (r LoanRules) withDefaults() LoanRules {
	if r.MaxActiveLoans <= 0 {
		r.MaxActiveLoans = DefaultMaxActiveLoans
	}
	if r.DefaultLoanPeriod <= 0 {
		r.DefaultLoanPeriod = DefaultLoanPeriod
	}
	return r
}

// LoanService owns the loan lifecycle: issue, change dates, toggle and
// return (delete). Each operation runs in one store transaction.
type LoanService struct {
	Store     repo.Store
	Rules     LoanRules
	Publisher EventPublisher
	Logger    *logrus.Logger

	now func() time.Time
}

func NewLoanService(store repo.Store, rules LoanRules, pub EventPublisher, logger *logrus.Logger) *LoanService {
	if pub == nil {
		pub = NopPublisher{}
	}
	return &LoanService{Store: store, Rules: rules.withDefaults(), Publisher: pub, Logger: logger, now: time.Now}
}

// IssueLoanInput leaves LoanDate nil for now and ReturnDate nil for
// LoanDate + DefaultLoanPeriod.
type IssueLoanInput struct {
	UserID     int64
	CopyID     int64
	LoanDate   *time.Time
	ReturnDate *time.Time
}

// IssueLoan lends a copy to a user. Checks run in order and the first
// failure wins: the user must exist and hold fewer than MaxActiveLoans active
// loans, the copy must exist, be available and carry no active loan, and the
// return date must be after the loan date. On success the loan is active and
// the copy is no longer available.
func (s *LoanService) IssueLoan(ctx context.Context, in IssueLoanInput) (*entity.Loan, error) {
	loanDate := s.now().UTC()
	if in.LoanDate != nil {
		loanDate = *in.LoanDate
	}
	returnDate := loanDate.Add(s.Rules.DefaultLoanPeriod)
	if in.ReturnDate != nil {
		returnDate = *in.ReturnDate
	}

	loan := &entity.Loan{
		CopyID:     in.CopyID,
		UserID:     in.UserID,
		LoanDate:   loanDate,
		ReturnDate: returnDate,
		Active:     true,
	}
	err := s.Store.WithinTx(ctx, func(tx repo.Store) error {
		if err := s.checkLoanLimit(ctx, tx, in.UserID); err != nil {
			return err
		}
		cp, err := tx.Copies().GetForUpdate(ctx, in.CopyID)
		if err != nil {
			return err
		}
		if !cp.Available {
			return domain.ErrCopyUnavailable
		}
		if err := checkCopyFree(ctx, tx, cp.ID); err != nil {
			return err
		}
		if !returnDate.After(loanDate) {
			return domain.ErrInvalidDateRange
		}
		if err := tx.Loans().Create(ctx, loan); err != nil {
			return err
		}
		return tx.Copies().SetAvailable(ctx, cp.ID, false)
	})
	if err != nil {
		return nil, err
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"loan_id": loan.ID,
			"user_id": loan.UserID,
			"copy_id": loan.CopyID,
		}).Info("loan issued")
	}
	publishLoanEvent(ctx, s.Publisher, s.Logger, entity.LoanIssued, *loan, s.now())
	return loan, nil
}

// checkLoanLimit locks the borrower row so concurrent issues for the same
// user count active loans one at a time.
func (s *LoanService) checkLoanLimit(ctx context.Context, tx repo.Store, userID int64) error {
	if _, err := tx.Users().GetForUpdate(ctx, userID); err != nil {
		return err
	}
	n, err := tx.Loans().CountActiveByUser(ctx, userID)
	if err != nil {
		return err
	}
	if n >= s.Rules.MaxActiveLoans {
		return domain.ErrLoanLimitExceeded
	}
	return nil
}

func checkCopyFree(ctx context.Context, tx repo.Store, copyID int64) error {
	taken, err := tx.Loans().HasActiveForCopy(ctx, copyID)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrCopyUnavailable
	}
	return nil
}

// UpdateLoan overwrites both dates. Active and the copy are left alone.
func (s *LoanService) UpdateLoan(ctx context.Context, id int64, loanDate, returnDate time.Time) (*entity.Loan, error) {
	var out *entity.Loan
	err := s.Store.WithinTx(ctx, func(tx repo.Store) error {
		l, err := tx.Loans().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !returnDate.After(loanDate) {
			return domain.ErrInvalidDateRange
		}
		l.LoanDate = loanDate
		l.ReturnDate = returnDate
		if err := tx.Loans().UpdateDates(ctx, l); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ToggleLoanActive flips the loan's active flag without touching the copy.
// Re-activation counts as a new loan for the borrower's limit, and is refused
// while another active loan holds the copy.
func (s *LoanService) ToggleLoanActive(ctx context.Context, id int64) (*entity.Loan, error) {
	var out *entity.Loan
	err := s.Store.WithinTx(ctx, func(tx repo.Store) error {
		l, err := tx.Loans().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !l.Active {
			if err := s.checkLoanLimit(ctx, tx, l.UserID); err != nil {
				return err
			}
			if err := checkCopyFree(ctx, tx, l.CopyID); err != nil {
				return err
			}
		}
		l.Active = !l.Active
		if err := tx.Loans().SetActive(ctx, l.ID, l.Active); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	publishLoanEvent(ctx, s.Publisher, s.Logger, entity.LoanStatusToggled, *out, s.now())
	return out, nil
}

// DeleteLoan returns the copy: it is marked available, then the loan record
// is removed. An inactive loan leaves the copy alone when another active
// loan now holds it. A copy that no longer exists does not block the delete.
func (s *LoanService) DeleteLoan(ctx context.Context, id int64) (*entity.Loan, error) {
	var out *entity.Loan
	err := s.Store.WithinTx(ctx, func(tx repo.Store) error {
		l, err := tx.Loans().GetByID(ctx, id)
		if err != nil {
			return err
		}
		free := l.Active
		if !free {
			taken, err := tx.Loans().HasActiveForCopy(ctx, l.CopyID)
			if err != nil {
				return err
			}
			free = !taken
		}
		if free {
			if err := tx.Copies().SetAvailable(ctx, l.CopyID, true); err != nil {
				if !domain.IsNotFound(err) {
					return err
				}
				if s.Logger != nil {
					s.Logger.WithFields(logrus.Fields{"loan_id": l.ID, "copy_id": l.CopyID}).Warn("returned loan references a missing copy")
				}
			}
		}
		if err := tx.Loans().Delete(ctx, l.ID); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"loan_id": out.ID, "copy_id": out.CopyID}).Info("loan returned")
	}
	publishLoanEvent(ctx, s.Publisher, s.Logger, entity.LoanReturned, *out, s.now())
	return out, nil
}

func (s *LoanService) GetLoan(ctx context.Context, id int64) (*entity.Loan, error) {
	return s.Store.Loans().GetByID(ctx, id)
}

func (s *LoanService) ListLoans(ctx context.Context, p repo.Page) ([]entity.Loan, error) {
	return s.Store.Loans().List(ctx, p)
}

func (s *LoanService) LoansByUser(ctx context.Context, userID int64) ([]entity.Loan, error) {
	return s.Store.Loans().ListByUser(ctx, userID)
}

func (s *LoanService) ActiveLoansByUser(ctx context.Context, userID int64) ([]entity.Loan, error) {
	return s.Store.Loans().ListActiveByUser(ctx, userID)
}

func (s *LoanService) LoansByCopy(ctx context.Context, copyID int64) ([]entity.Loan, error) {
	return s.Store.Loans().ListByCopy(ctx, copyID)
}
