package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrBusy is returned when a row lock could not be acquired within the
// configured lock_timeout. The whole operation is safe to retry.
var ErrBusy = errors.New("resource busy, retry the operation")

// ValidationError rejects a request before any mutation happens; the caller
// can correct the input and retry.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func newValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// InsufficientStockError aborts the invoicing saga mid-flight; the
// transaction rolls back in full and the caller may retry after restocking.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s (available: %d, requested: %d)",
		e.ProductID, e.Available, e.Requested)
}

// isLockTimeout detects PostgreSQL's lock_not_available error (SQLSTATE
// 55P03) raised when SET LOCAL lock_timeout expires on a FOR UPDATE wait.
func isLockTimeout(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "55P03") || strings.Contains(msg, "lock timeout")
}
