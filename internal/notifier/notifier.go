// Package notifier turns loan events into borrower emails.
package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-library-records/internal/domain"
	"github.com/oksasatya/go-library-records/internal/domain/entity"
	repo "github.com/oksasatya/go-library-records/internal/domain/repository"
	"github.com/oksasatya/go-library-records/pkg/mailer"
	mailtpl "github.com/oksasatya/go-library-records/pkg/mailer/templates"
)

// Sender is satisfied by *mailer.Mailgun.
type Sender interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// Outcome tells the consumer what to do with a delivery.
type Outcome int

const (
	Ack     Outcome = iota
	Drop            // nack without requeue
	Requeue         // nack and requeue
)

func (o Outcome) String() string {
	switch o {
	case Ack:
		return "ack"
	case Drop:
		return "drop"
	default:
		return "requeue"
	}
}

var templateFor = map[entity.LoanEventType]string{
	entity.LoanIssued:        mailtpl.LoanIssued,
	entity.LoanReturned:      mailtpl.LoanReturned,
	entity.LoanStatusToggled: mailtpl.LoanStatusToggled,
}

// Handler renders and sends one email per loan event.
type Handler struct {
	Store       repo.Store
	Sender      Sender
	LibraryName string
	Logger      *logrus.Logger
	SendTimeout time.Duration
}

func NewHandler(store repo.Store, sender Sender, library string, logger *logrus.Logger) *Handler {
	return &Handler{Store: store, Sender: sender, LibraryName: library, Logger: logger, SendTimeout: 15 * time.Second}
}

// Handle processes one message body. Messages that can never succeed are
// dropped, including sends the mail provider rejects; store failures and
// transient send failures are requeued.
func (h *Handler) Handle(ctx context.Context, body []byte) (Outcome, error) {
	var ev entity.LoanEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return Drop, fmt.Errorf("decode event: %w", err)
	}
	name, ok := templateFor[ev.Type]
	if !ok {
		return Drop, fmt.Errorf("unknown event type %q", ev.Type)
	}

	u, err := h.Store.Users().GetByID(ctx, ev.UserID)
	if err != nil {
		if domain.IsNotFound(err) {
			return Drop, err
		}
		return Requeue, err
	}

	data := mailtpl.NewLoanEmailData(h.LibraryName, u.Name, u.Email,
		mailtpl.WithLoan(ev.LoanID, ev.CopyID, ev.LoanDate, ev.ReturnDate, ev.Active),
		mailtpl.WithBookTitle(h.bookTitle(ctx, ev.CopyID)),
		mailtpl.WithOccurredAt(ev.OccurredAt),
	)
	subject, text, html, err := mailtpl.Render(name, data)
	if err != nil {
		return Drop, err
	}

	c, cancel := context.WithTimeout(ctx, h.SendTimeout)
	defer cancel()
	if err := h.Sender.Send(c, mailer.Message{To: u.Email, Subject: subject, Text: text, HTML: html}); err != nil {
		if errors.Is(err, mailer.ErrRejected) {
			return Drop, fmt.Errorf("send: %w", err)
		}
		return Requeue, fmt.Errorf("send: %w", err)
	}
	return Ack, nil
}

// bookTitle is a lookup for the email body only; a deleted copy or book
// leaves the title empty.
func (h *Handler) bookTitle(ctx context.Context, copyID int64) string {
	cp, err := h.Store.Copies().GetByID(ctx, copyID)
	if err != nil {
		return ""
	}
	b, err := h.Store.Books().GetByID(ctx, cp.BookID)
	if err != nil {
		return ""
	}
	return b.Title
}

// Run consumes deliveries until ctx is done or the channel closes.
func (h *Handler) Run(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			h.settle(ctx, d)
		}
	}
}

func (h *Handler) settle(ctx context.Context, d amqp.Delivery) {
	out, err := h.Handle(ctx, d.Body)
	if err != nil && h.Logger != nil {
		h.Logger.WithError(err).WithFields(logrus.Fields{
			"message_id": d.MessageId,
			"outcome":    out.String(),
		}).Warn("loan event not delivered")
	}
	var ackErr error
	switch out {
	case Ack:
		ackErr = d.Ack(false)
	case Drop:
		ackErr = d.Nack(false, false)
	default:
		ackErr = d.Nack(false, true)
	}
	if ackErr != nil && h.Logger != nil {
		h.Logger.WithError(ackErr).Error("settle delivery failed")
	}
}
