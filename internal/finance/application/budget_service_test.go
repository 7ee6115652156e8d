package application

import (
	"testing"
	"time"

	"github.com/monetra/FinanceTracker/internal/finance/domain"
	financeErrors "github.com/monetra/FinanceTracker/internal/finance/errors"
	"github.com/monetra/FinanceTracker/internal/finance/infrastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func budget(id int64, category, value, period string) domain.Budget {
	return domain.Budget{
		ID: id, UserID: testUserID, Category: category,
		Amount: amount(value), Period: period,
	}
}

func TestCompareToActuals_MonthlyBudget(t *testing.T) {
	budgets := &infrastructure.MockBudgetRepository{Budgets: []domain.Budget{
		budget(1, "Food", "400.00", domain.PeriodMonthly),
	}}
	transactions := &infrastructure.MockTransactionRepository{Transactions: []domain.Transaction{
		expense(1, "Food", "50.00", date(2025, time.June, 1)),
		expense(2, "Food", "30.00", date(2025, time.June, 10)),
		expense(3, "Food", "500.00", date(2025, time.May, 20)), // outside monthly window
		expense(4, "Rent", "900.00", date(2025, time.June, 2)), // other category
	}}
	service := NewBudgetService(budgets, transactions)

	comparisons, err := service.CompareToActuals(testUserID, date(2025, time.June, 15))
	require.NoError(t, err)
	require.Len(t, comparisons, 1)

	c := comparisons[0]
	assert.Equal(t, "Food", c.Category)
	assert.True(t, c.Spent.Equal(amount("80.00")), "spent: %s", c.Spent)
	assert.True(t, c.Remaining.Equal(amount("320.00")), "remaining: %s", c.Remaining)
	assert.True(t, c.PercentUsed.Equal(amount("20")), "percent: %s", c.PercentUsed)
}

func TestCompareToActuals_OverspendGoesNegative(t *testing.T) {
	budgets := &infrastructure.MockBudgetRepository{Budgets: []domain.Budget{
		budget(1, "Food", "100.00", domain.PeriodMonthly),
	}}
	transactions := &infrastructure.MockTransactionRepository{Transactions: []domain.Transaction{
		expense(1, "Food", "150.00", date(2025, time.June, 5)),
	}}
	service := NewBudgetService(budgets, transactions)

	comparisons, err := service.CompareToActuals(testUserID, date(2025, time.June, 15))
	require.NoError(t, err)
	require.Len(t, comparisons, 1)
	assert.True(t, comparisons[0].Remaining.Equal(amount("-50.00")))
	assert.True(t, comparisons[0].PercentUsed.Equal(amount("150")))
}

func TestCompareToActuals_ZeroBudgetHasZeroPercent(t *testing.T) {
	budgets := &infrastructure.MockBudgetRepository{Budgets: []domain.Budget{
		budget(1, "Food", "0.00", domain.PeriodMonthly),
	}}
	transactions := &infrastructure.MockTransactionRepository{Transactions: []domain.Transaction{
		expense(1, "Food", "25.00", date(2025, time.June, 5)),
	}}
	service := NewBudgetService(budgets, transactions)

	comparisons, err := service.CompareToActuals(testUserID, date(2025, time.June, 15))
	require.NoError(t, err)
	require.Len(t, comparisons, 1)
	assert.True(t, comparisons[0].PercentUsed.IsZero())
	assert.True(t, comparisons[0].Remaining.Equal(amount("-25.00")))
}

func TestCompareToActuals_WeeklyWindow(t *testing.T) {
	budgets := &infrastructure.MockBudgetRepository{Budgets: []domain.Budget{
		budget(1, "Food", "100.00", domain.PeriodWeekly),
	}}
	transactions := &infrastructure.MockTransactionRepository{Transactions: []domain.Transaction{
		expense(1, "Food", "10.00", date(2025, time.June, 9)),  // 6 days back, included
		expense(2, "Food", "20.00", date(2025, time.June, 8)),  // 7 days back, excluded
		expense(3, "Food", "40.00", date(2025, time.June, 15)), // today, included
	}}
	service := NewBudgetService(budgets, transactions)

	comparisons, err := service.CompareToActuals(testUserID, date(2025, time.June, 15))
	require.NoError(t, err)
	require.Len(t, comparisons, 1)
	assert.True(t, comparisons[0].Spent.Equal(amount("50.00")), "spent: %s", comparisons[0].Spent)
}

func TestCompareToActuals_NoBudgetsYieldsEmptySlice(t *testing.T) {
	service := NewBudgetService(&infrastructure.MockBudgetRepository{}, &infrastructure.MockTransactionRepository{})

	comparisons, err := service.CompareToActuals(testUserID, date(2025, time.June, 15))
	require.NoError(t, err)
	assert.NotNil(t, comparisons)
	assert.Empty(t, comparisons)
}

func TestCreateBudget_Validates(t *testing.T) {
	service := NewBudgetService(&infrastructure.MockBudgetRepository{}, &infrastructure.MockTransactionRepository{})

	b := budget(0, "", "100.00", domain.PeriodMonthly)
	err := service.CreateBudget(&b)
	assert.True(t, financeErrors.IsValidationError(err))

	b = budget(0, "Food", "-1.00", domain.PeriodMonthly)
	err = service.CreateBudget(&b)
	assert.True(t, financeErrors.IsValidationError(err))

	b = budget(0, "Food", "100.00", "")
	err = service.CreateBudget(&b)
	assert.True(t, financeErrors.IsValidationError(err))

	// any non-empty period tag is accepted as-is
	b = budget(0, "Food", "100.00", "quarterly")
	require.NoError(t, service.CreateBudget(&b))
	assert.NotZero(t, b.ID)
}

func TestUpdateBudget_OwnershipCheck(t *testing.T) {
	budgets := &infrastructure.MockBudgetRepository{Budgets: []domain.Budget{
		{ID: 1, UserID: "someone-else", Category: "Food", Amount: amount("100.00"), Period: domain.PeriodMonthly},
	}}
	service := NewBudgetService(budgets, &infrastructure.MockTransactionRepository{})

	newAmount := amount("200.00")
	_, err := service.UpdateBudget(1, testUserID, BudgetUpdate{Amount: &newAmount})
	assert.ErrorIs(t, err, financeErrors.ErrBudgetNotFound)

	err = service.DeleteBudget(1, testUserID)
	assert.ErrorIs(t, err, financeErrors.ErrBudgetNotFound)
}

func TestUpdateBudget_PartialUpdate(t *testing.T) {
	budgets := &infrastructure.MockBudgetRepository{Budgets: []domain.Budget{
		budget(1, "Food", "100.00", domain.PeriodMonthly),
	}}
	service := NewBudgetService(budgets, &infrastructure.MockTransactionRepository{})

	newAmount := amount("250.00")
	updated, err := service.UpdateBudget(1, testUserID, BudgetUpdate{Amount: &newAmount})
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(amount("250.00")))
	assert.Equal(t, "Food", updated.Category)
	assert.Equal(t, domain.PeriodMonthly, updated.Period)
}
