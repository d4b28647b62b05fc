package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure for the request surface.
type Kind int

const (
	KindStore Kind = iota
	KindNotFound
	KindValidation
	KindBusinessRule
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindBusinessRule:
		return "business_rule"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "store"
	}
}

// Error is a typed domain failure with a stable code.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Code so that errors.Is(err, ErrCopyUnavailable) holds for
// any error carrying the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

const (
	CodeLoanLimitExceeded  = "LOAN_LIMIT_EXCEEDED"
	CodeCopyUnavailable    = "COPY_UNAVAILABLE"
	CodeInvalidDateRange   = "INVALID_DATE_RANGE"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeCopyOnLoan         = "COPY_ON_LOAN"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodePasswordTooLong    = "PASSWORD_TOO_LONG"
	CodeStoreFailure       = "STORE_FAILURE"
)

var (
	ErrLoanLimitExceeded = &Error{Kind: KindBusinessRule, Code: CodeLoanLimitExceeded, Message: "user has reached the maximum number of loans"}
	ErrCopyUnavailable   = &Error{Kind: KindBusinessRule, Code: CodeCopyUnavailable, Message: "copy not available"}
	ErrInvalidDateRange  = &Error{Kind: KindValidation, Code: CodeInvalidDateRange, Message: "return date must be after loan date"}
	ErrDuplicateEmail    = &Error{Kind: KindBusinessRule, Code: CodeDuplicateEmail, Message: "email already registered"}
	ErrCopyOnLoan        = &Error{Kind: KindBusinessRule, Code: CodeCopyOnLoan, Message: "copy has an active loan and cannot be marked available"}

	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Code: CodeInvalidCredentials, Message: "invalid credentials"}
	ErrPasswordTooLong    = &Error{Kind: KindValidation, Code: CodePasswordTooLong, Message: "password must be at most 72 bytes"}

	// ErrNotFound matches every per-entity NotFound error through KindOf; use
	// IsNotFound rather than errors.Is for the generic check.
	ErrNotFound = errors.New("not found")
)

// NotFound builds the NotFound error for an entity, e.g. NotFound("copy", 7)
// carries code COPY_NOT_FOUND.
func NotFound(entity string, id any) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    strings.ToUpper(entity) + "_NOT_FOUND",
		Message: fmt.Sprintf("%s %v not found", entity, id),
		Err:     ErrNotFound,
	}
}

// StoreFailure wraps a persistence error.
func StoreFailure(op string, err error) *Error {
	return &Error{Kind: KindStore, Code: CodeStoreFailure, Message: op, Err: err}
}

// KindOf classifies err. Errors that are not *Error are store failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStore
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// CodeOf returns the stable code of err, or STORE_FAILURE.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeStoreFailure
}
