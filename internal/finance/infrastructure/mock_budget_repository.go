package infrastructure

import (
	"time"

	"github.com/monetra/FinanceTracker/internal/finance/domain"
	financeErrors "github.com/monetra/FinanceTracker/internal/finance/errors"
)

type MockBudgetRepository struct {
	Budgets []domain.Budget
	Err     error
	nextID  int64
}

func (m *MockBudgetRepository) Save(budget *domain.Budget) error {
	if m.Err != nil {
		return m.Err
	}
	m.nextID++
	budget.ID = m.nextID
	budget.CreatedAt = time.Now()
	budget.UpdatedAt = budget.CreatedAt
	m.Budgets = append(m.Budgets, *budget)
	return nil
}

func (m *MockBudgetRepository) FindByID(budgetID int64) (*domain.Budget, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, b := range m.Budgets {
		if b.ID == budgetID {
			found := b
			return &found, nil
		}
	}
	return nil, financeErrors.ErrBudgetNotFound
}

func (m *MockBudgetRepository) FindByUser(userID string) ([]domain.Budget, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var budgets []domain.Budget
	for _, b := range m.Budgets {
		if b.UserID == userID {
			budgets = append(budgets, b)
		}
	}
	return budgets, nil
}

func (m *MockBudgetRepository) Update(budget domain.Budget) error {
	if m.Err != nil {
		return m.Err
	}
	for i, b := range m.Budgets {
		if b.ID == budget.ID {
			budget.UpdatedAt = time.Now()
			m.Budgets[i] = budget
			return nil
		}
	}
	return financeErrors.ErrBudgetNotFound
}

func (m *MockBudgetRepository) Delete(budgetID int64) error {
	if m.Err != nil {
		return m.Err
	}
	for i, b := range m.Budgets {
		if b.ID == budgetID {
			m.Budgets = append(m.Budgets[:i], m.Budgets[i+1:]...)
			return nil
		}
	}
	return financeErrors.ErrBudgetNotFound
}
