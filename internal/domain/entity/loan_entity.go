package entity

import "time"

type Loan struct {
	ID         int64     `json:"id"`
	CopyID     int64     `json:"copy_id"`
	UserID     int64     `json:"user_id"`
	LoanDate   time.Time `json:"loan_date"`
	ReturnDate time.Time `json:"return_date"`
	Active     bool      `json:"active"`
}

// LoanEventType names the lifecycle transitions published for loans.
type LoanEventType string

const (
	LoanIssued        LoanEventType = "loan.issued"
	LoanReturned      LoanEventType = "loan.returned"
	LoanStatusToggled LoanEventType = "loan.status_toggled"
)

// LoanEvent is the JSON payload put on the loan events queue.
type LoanEvent struct {
	ID         string        `json:"id"`
	Type       LoanEventType `json:"type"`
	LoanID     int64         `json:"loan_id"`
	UserID     int64         `json:"user_id"`
	CopyID     int64         `json:"copy_id"`
	LoanDate   time.Time     `json:"loan_date"`
	ReturnDate time.Time     `json:"return_date"`
	Active     bool          `json:"active"`
	OccurredAt time.Time     `json:"occurred_at"`
}
