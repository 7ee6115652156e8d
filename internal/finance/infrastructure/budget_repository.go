package infrastructure

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/monetra/FinanceTracker/internal/finance/domain"
	financeErrors "github.com/monetra/FinanceTracker/internal/finance/errors"
)

type BudgetRepository struct {
	db *sql.DB
}

func NewBudgetRepository(db *sql.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) Save(budget *domain.Budget) error {
	query := `
		INSERT INTO budgets (user_id, category, amount, period, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(query, budget.UserID, budget.Category, budget.Amount, budget.Period).
		Scan(&budget.ID, &budget.CreatedAt, &budget.UpdatedAt)
	if err != nil {
		return fmt.Errorf("could not create budget: %w", err)
	}
	return nil
}

func (r *BudgetRepository) FindByID(budgetID int64) (*domain.Budget, error) {
	query := `
		SELECT id, user_id, category, amount, period, created_at, updated_at
		FROM budgets
		WHERE id = $1
	`
	var budget domain.Budget
	err := r.db.QueryRow(query, budgetID).Scan(
		&budget.ID, &budget.UserID, &budget.Category, &budget.Amount,
		&budget.Period, &budget.CreatedAt, &budget.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrBudgetNotFound
		}
		return nil, fmt.Errorf("could not find budget: %w", err)
	}
	return &budget, nil
}

func (r *BudgetRepository) FindByUser(userID string) ([]domain.Budget, error) {
	query := `
		SELECT id, user_id, category, amount, period, created_at, updated_at
		FROM budgets
		WHERE user_id = $1
		ORDER BY id ASC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("could not query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []domain.Budget
	for rows.Next() {
		var budget domain.Budget
		if err := rows.Scan(
			&budget.ID, &budget.UserID, &budget.Category, &budget.Amount,
			&budget.Period, &budget.CreatedAt, &budget.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("could not scan budget: %w", err)
		}
		budgets = append(budgets, budget)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not read budgets: %w", err)
	}
	return budgets, nil
}

func (r *BudgetRepository) Update(budget domain.Budget) error {
	query := `
		UPDATE budgets
		SET category = $1, amount = $2, period = $3, updated_at = NOW()
		WHERE id = $4
	`
	_, err := r.db.Exec(query, budget.Category, budget.Amount, budget.Period, budget.ID)
	if err != nil {
		return fmt.Errorf("could not update budget: %w", err)
	}
	return nil
}

func (r *BudgetRepository) Delete(budgetID int64) error {
	_, err := r.db.Exec(`DELETE FROM budgets WHERE id = $1`, budgetID)
	if err != nil {
		return fmt.Errorf("could not delete budget: %w", err)
	}
	return nil
}
