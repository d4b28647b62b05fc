package templates

import (
	"strings"
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithBookTitle(title string) Option {
	return func(d *EmailData) {
		if s := strings.TrimSpace(title); s != "" {
			d.BookTitle = s
		}
	}
}

func WithLoan(loanID, copyID int64, loanDate, returnDate time.Time, active bool) Option {
	return func(d *EmailData) {
		d.LoanID = loanID
		d.CopyID = copyID
		d.LoanDate = loanDate.UTC()
		d.ReturnDate = returnDate.UTC()
		d.Active = active
	}
}

func WithOccurredAt(t time.Time) Option {
	return func(d *EmailData) { d.OccurredAt = t.UTC() }
}

// NewLoanEmailData fills the recipient and library fields, then applies opts.
func NewLoanEmailData(library, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:        name,
		Email:       email,
		LibraryName: library,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}
