package repository

import (
	"context"

	"github.com/oksasatya/go-library-records/internal/domain/entity"
)

type LoanRepository interface {
	Create(ctx context.Context, l *entity.Loan) error
	GetByID(ctx context.Context, id int64) (*entity.Loan, error)
	List(ctx context.Context, p Page) ([]entity.Loan, error)
	ListByUser(ctx context.Context, userID int64) ([]entity.Loan, error)
	ListActiveByUser(ctx context.Context, userID int64) ([]entity.Loan, error)
	ListByCopy(ctx context.Context, copyID int64) ([]entity.Loan, error)
	CountActiveByUser(ctx context.Context, userID int64) (int, error)
	HasActiveForCopy(ctx context.Context, copyID int64) (bool, error)
	UpdateDates(ctx context.Context, l *entity.Loan) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
}
