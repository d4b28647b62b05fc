package entity

import (
	"time"
)

// User is a borrower account.
// Password holds a bcrypt hash and is never serialized.
type User struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Password       string    `json:"-"`
	Active         bool      `json:"active"`
	RegisterDate   time.Time `json:"register_date"`
	ExpirationDate time.Time `json:"expiration_date"`
}
