package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-library-records/internal/domain/entity"
)

// EventPublisher is satisfied by *helpers.RabbitPublisher.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// NopPublisher drops every event. Used when EVENTS_ENABLED=false.
type NopPublisher struct{}

func (NopPublisher) PublishJSON(context.Context, any) error { return nil }

const publishTimeout = 3 * time.Second

// publishLoanEvent is best-effort: the loan change is already committed, so
// a broker failure is logged and swallowed.
func publishLoanEvent(ctx context.Context, pub EventPublisher, logger *logrus.Logger, typ entity.LoanEventType, l entity.Loan, at time.Time) {
	if pub == nil {
		return
	}
	ev := entity.LoanEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		LoanID:     l.ID,
		UserID:     l.UserID,
		CopyID:     l.CopyID,
		LoanDate:   l.LoanDate,
		ReturnDate: l.ReturnDate,
		Active:     l.Active,
		OccurredAt: at.UTC(),
	}
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := pub.PublishJSON(c, ev); err != nil && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"event":   typ,
			"loan_id": l.ID,
		}).Warn("publish loan event failed")
	}
}
