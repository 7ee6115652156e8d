package domain

import (
	"time"

	financeErrors "github.com/monetra/FinanceTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
)

// Well-known period tags. The tag is stored and matched literally; other
// values are accepted and fall back to the monthly window when compared.
const (
	PeriodMonthly = "MONTHLY"
	PeriodWeekly  = "WEEKLY"
	PeriodYearly  = "YEARLY"
)

type Budget struct {
	ID        int64           `json:"id"`
	UserID    string          `json:"user_id"` // user UUID
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"` // budget ceiling, not a balance
	Period    string          `json:"period"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type BudgetRepository interface {
	Save(budget *Budget) error
	FindByID(budgetID int64) (*Budget, error)
	FindByUser(userID string) ([]Budget, error)
	Update(budget Budget) error
	Delete(budgetID int64) error
}

func (b *Budget) Validate() error {
	if b.Category == "" {
		return financeErrors.ErrMissingCategory
	}
	if len(b.Category) > 100 {
		return financeErrors.ErrCategoryTooLong
	}
	if b.Amount.IsNegative() {
		return financeErrors.ErrNegativeAmount
	}
	if b.Amount.Exponent() < -2 {
		return financeErrors.ErrAmountPrecision
	}
	if b.Period == "" {
		return financeErrors.ErrMissingPeriod
	}
	return nil
}
