package application

import (
	"fmt"
	"time"

	"github.com/monetra/FinanceTracker/internal/finance/domain"
	financeErrors "github.com/monetra/FinanceTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

type BudgetService struct {
	budgets      domain.BudgetRepository
	transactions domain.TransactionRepository
}

func NewBudgetService(budgets domain.BudgetRepository, transactions domain.TransactionRepository) *BudgetService {
	return &BudgetService{budgets: budgets, transactions: transactions}
}

// BudgetComparison joins one budget row against actual spend in the window
// implied by its period tag. Remaining goes negative on overspend.
type BudgetComparison struct {
	BudgetID     int64
	Category     string
	Period       string
	BudgetAmount decimal.Decimal
	Spent        decimal.Decimal
	Remaining    decimal.Decimal
	PercentUsed  decimal.Decimal
}

func (s *BudgetService) CreateBudget(budget *domain.Budget) error {
	if err := budget.Validate(); err != nil {
		return err
	}
	return s.budgets.Save(budget)
}

func (s *BudgetService) GetUserBudgets(userID string) ([]domain.Budget, error) {
	budgets, err := s.budgets.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	if budgets == nil {
		return []domain.Budget{}, nil
	}
	return budgets, nil
}

// BudgetUpdate carries a partial update; nil fields are left unchanged.
type BudgetUpdate struct {
	Category *string
	Amount   *decimal.Decimal
	Period   *string
}

func (s *BudgetService) UpdateBudget(budgetID int64, userID string, update BudgetUpdate) (*domain.Budget, error) {
	budget, err := s.budgets.FindByID(budgetID)
	if err != nil {
		return nil, err
	}
	if budget.UserID != userID {
		return nil, financeErrors.ErrBudgetNotFound
	}

	if update.Category != nil {
		budget.Category = *update.Category
	}
	if update.Amount != nil {
		budget.Amount = *update.Amount
	}
	if update.Period != nil {
		budget.Period = *update.Period
	}
	if err := budget.Validate(); err != nil {
		return nil, err
	}

	if err := s.budgets.Update(*budget); err != nil {
		return nil, err
	}
	return budget, nil
}

func (s *BudgetService) DeleteBudget(budgetID int64, userID string) error {
	budget, err := s.budgets.FindByID(budgetID)
	if err != nil {
		return err
	}
	if budget.UserID != userID {
		return financeErrors.ErrBudgetNotFound
	}
	return s.budgets.Delete(budgetID)
}

// CompareToActuals computes spent/remaining/percent-used for every budget the
// user has defined. A zero budget ceiling reports 0% used rather than failing
// on division; remaining is then just the negated spend.
func (s *BudgetService) CompareToActuals(userID string, today time.Time) ([]BudgetComparison, error) {
	budgets, err := s.budgets.FindByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("fetch budgets: %w", err)
	}

	comparisons := make([]BudgetComparison, 0, len(budgets))
	for _, budget := range budgets {
		from, to := PeriodRange(today, budget.Period)
		expenses, err := s.transactions.FindExpensesInDateRange(userID, budget.Category, from, to)
		if err != nil {
			return nil, fmt.Errorf("fetch expenses for category %q: %w", budget.Category, err)
		}

		var spent decimal.Decimal
		for _, t := range expenses {
			spent = spent.Add(t.Amount)
		}

		percentUsed := decimal.Zero
		if budget.Amount.IsPositive() {
			percentUsed = spent.Div(budget.Amount).Mul(oneHundred).Round(2)
		}

		comparisons = append(comparisons, BudgetComparison{
			BudgetID:     budget.ID,
			Category:     budget.Category,
			Period:       budget.Period,
			BudgetAmount: budget.Amount,
			Spent:        spent,
			Remaining:    budget.Amount.Sub(spent),
			PercentUsed:  percentUsed,
		})
	}
	return comparisons, nil
}
