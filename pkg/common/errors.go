package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// ValidationError rejects a request before any state change is made.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// InsufficientBalanceError is raised inside the locked wallet mutation when a
// debit exceeds the spendable balance. The surrounding transaction rolls back.
type InsufficientBalanceError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: available %s, requested %s",
		e.Available.StringFixed(2), e.Requested.StringFixed(2))
}

// AlreadyProcessedError guards terminal-status rows against a second
// approval or rejection. No side effect is applied.
type AlreadyProcessedError struct {
	Entity string
	ID     int
	Status string
}

func (e *AlreadyProcessedError) Error() string {
	return fmt.Sprintf("%s %d already processed (status %s)", e.Entity, e.ID, e.Status)
}

type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// HTTPStatus maps the error taxonomy onto response codes. Unknown errors are
// reported as 500 so business-rule violations stay distinguishable.
func HTTPStatus(err error) int {
	var (
		ve *ValidationError
		ie *InsufficientBalanceError
		ae *AlreadyProcessedError
		ne *NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.As(err, &ie):
		return http.StatusBadRequest
	case errors.As(err, &ae):
		return http.StatusConflict
	case errors.As(err, &ne):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
