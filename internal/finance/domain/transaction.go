package domain

import (
	"time"

	financeErrors "github.com/monetra/FinanceTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
)

const (
	TypeIncome  = "INCOME"
	TypeExpense = "EXPENSE"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 1000
)

type Transaction struct {
	ID        int64           `json:"id"`
	UserID    string          `json:"user_id"` // user UUID
	Type      string          `json:"type"`    // "INCOME" or "EXPENSE"
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"` // calendar date, midnight UTC
	Note      string          `json:"note"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TransactionFilter narrows a user's ledger listing. All fields are optional
// and combined with AND; nil pointers mean "no bound".
type TransactionFilter struct {
	Type      string
	Category  string
	DateFrom  *time.Time
	DateTo    *time.Time
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	Search    string
	Skip      int
	Limit     int
}

// Normalized clamps pagination to the documented bounds instead of failing:
// Limit in [1, 1000] with 50 as the unset default, Skip >= 0.
func (f TransactionFilter) Normalized() TransactionFilter {
	if f.Limit == 0 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit < 1 {
		f.Limit = 1
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
	if f.Skip < 0 {
		f.Skip = 0
	}
	return f
}

type TransactionRepository interface {
	Save(transaction *Transaction) error
	FindByID(transactionID int64) (*Transaction, error)
	FindByFilter(userID string, filter TransactionFilter) ([]Transaction, error)
	FindInDateRange(userID string, from, to time.Time) ([]Transaction, error)
	FindExpensesInDateRange(userID, category string, from, to time.Time) ([]Transaction, error)
	Update(transaction Transaction) error
	Delete(transactionID int64) error
}

func IsValidTransactionType(transactionType string) bool {
	return transactionType == TypeIncome || transactionType == TypeExpense
}

func (t *Transaction) Validate() error {
	if !IsValidTransactionType(t.Type) {
		return financeErrors.ErrInvalidTransactionType
	}
	if t.Amount.IsNegative() {
		return financeErrors.ErrNegativeAmount
	}
	if t.Amount.Exponent() < -2 {
		return financeErrors.ErrAmountPrecision
	}
	if t.Category == "" {
		return financeErrors.ErrMissingCategory
	}
	if len(t.Category) > 100 {
		return financeErrors.ErrCategoryTooLong
	}
	if t.Date.IsZero() {
		return financeErrors.ErrMissingDate
	}
	return nil
}
