package errors

import (
	"errors"
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	ok := errors.As(err, &validationError)
	return ok
}

var (
	ErrInvalidTransactionType = NewValidationError("Type must be 'INCOME' or 'EXPENSE'")
	ErrNegativeAmount         = NewValidationError("Amount must not be negative")
	ErrAmountPrecision        = NewValidationError("Amount must have at most 2 decimal places")
	ErrMissingCategory        = NewValidationError("Category must be provided")
	ErrCategoryTooLong        = NewValidationError("Category must be of length less than 100")
	ErrMissingDate            = NewValidationError("Date must be provided")
	ErrMissingPeriod          = NewValidationError("Period must be provided")
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrBudgetNotFound      = errors.New("budget not found")
)
