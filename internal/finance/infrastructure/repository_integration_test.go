package infrastructure

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/monetra/FinanceTracker/internal/finance/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const testSchema = `
CREATE TABLE transactions (
	id BIGSERIAL PRIMARY KEY,
	user_id UUID NOT NULL,
	type VARCHAR(10) NOT NULL,
	category VARCHAR(100) NOT NULL,
	amount NUMERIC(12, 2) NOT NULL,
	date DATE NOT NULL,
	note TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE budgets (
	id BIGSERIAL PRIMARY KEY,
	user_id UUID NOT NULL,
	category VARCHAR(100) NOT NULL,
	amount NUMERIC(12, 2) NOT NULL,
	period VARCHAR(20) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:16-alpine",
		postgres.WithDatabase("financetracker_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("could not terminate postgres container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	return db
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestTransactionRepository_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	db := setupTestDB(t)
	repo := NewTransactionRepository(db)

	userID := "6f1e5e7a-1111-4e2b-9c3d-000000000001"
	otherID := "6f1e5e7a-1111-4e2b-9c3d-000000000002"

	fixtures := []domain.Transaction{
		{UserID: userID, Type: domain.TypeExpense, Category: "Food", Amount: amount("50.00"), Date: date(2025, time.June, 1), Note: "groceries"},
		{UserID: userID, Type: domain.TypeExpense, Category: "Food", Amount: amount("30.00"), Date: date(2025, time.June, 10)},
		{UserID: userID, Type: domain.TypeIncome, Category: "Salary", Amount: amount("2000.00"), Date: date(2025, time.June, 5)},
		{UserID: userID, Type: domain.TypeExpense, Category: "Rent", Amount: amount("900.00"), Date: date(2025, time.May, 31)},
		{UserID: otherID, Type: domain.TypeExpense, Category: "Food", Amount: amount("99.99"), Date: date(2025, time.June, 5)},
	}
	for i := range fixtures {
		require.NoError(t, repo.Save(&fixtures[i]))
		assert.NotZero(t, fixtures[i].ID)
	}

	t.Run("filter is user scoped and ordered date desc id desc", func(t *testing.T) {
		transactions, err := repo.FindByFilter(userID, domain.TransactionFilter{})
		require.NoError(t, err)
		require.Len(t, transactions, 4)
		assert.Equal(t, "Food", transactions[0].Category) // 2025-06-10
		assert.Equal(t, "Salary", transactions[1].Category)
		assert.Equal(t, date(2025, time.May, 31), transactions[3].Date.UTC())
	})

	t.Run("search matches note or category, case insensitive", func(t *testing.T) {
		transactions, err := repo.FindByFilter(userID, domain.TransactionFilter{Search: "GROC"})
		require.NoError(t, err)
		require.Len(t, transactions, 1)
		assert.Equal(t, "groceries", transactions[0].Note)

		transactions, err = repo.FindByFilter(userID, domain.TransactionFilter{Search: "foo"})
		require.NoError(t, err)
		assert.Len(t, transactions, 2)
	})

	t.Run("amount bounds are inclusive", func(t *testing.T) {
		min := amount("30.00")
		max := amount("50.00")
		transactions, err := repo.FindByFilter(userID, domain.TransactionFilter{MinAmount: &min, MaxAmount: &max})
		require.NoError(t, err)
		assert.Len(t, transactions, 2)
	})

	t.Run("inverted amount bounds yield empty result, not an error", func(t *testing.T) {
		min := amount("500.00")
		max := amount("10.00")
		transactions, err := repo.FindByFilter(userID, domain.TransactionFilter{MinAmount: &min, MaxAmount: &max})
		require.NoError(t, err)
		assert.Empty(t, transactions)
	})

	t.Run("date range is inclusive on both ends", func(t *testing.T) {
		transactions, err := repo.FindInDateRange(userID, date(2025, time.June, 1), date(2025, time.June, 15))
		require.NoError(t, err)
		require.Len(t, transactions, 3)
		// ascending for aggregation
		assert.Equal(t, date(2025, time.June, 1), transactions[0].Date.UTC())

		transactions, err = repo.FindInDateRange(userID, date(2025, time.May, 31), date(2025, time.May, 31))
		require.NoError(t, err)
		assert.Len(t, transactions, 1)
	})

	t.Run("expense fetch filters type and category", func(t *testing.T) {
		expenses, err := repo.FindExpensesInDateRange(userID, "Food", date(2025, time.June, 1), date(2025, time.June, 30))
		require.NoError(t, err)
		require.Len(t, expenses, 2)
		total := expenses[0].Amount.Add(expenses[1].Amount)
		assert.True(t, total.Equal(amount("80.00")), "expected 80.00, got %s", total)
	})

	t.Run("amount survives the numeric round trip exactly", func(t *testing.T) {
		found, err := repo.FindByID(fixtures[0].ID)
		require.NoError(t, err)
		assert.True(t, found.Amount.Equal(amount("50.00")))
	})

	t.Run("update and delete", func(t *testing.T) {
		updated := fixtures[1]
		updated.Amount = amount("35.50")
		updated.Note = "snacks"
		require.NoError(t, repo.Update(updated))

		found, err := repo.FindByID(updated.ID)
		require.NoError(t, err)
		assert.True(t, found.Amount.Equal(amount("35.50")))
		assert.Equal(t, "snacks", found.Note)

		require.NoError(t, repo.Delete(updated.ID))
		_, err = repo.FindByID(updated.ID)
		assert.Error(t, err)
	})
}

func TestBudgetRepository_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	db := setupTestDB(t)
	repo := NewBudgetRepository(db)

	userID := "6f1e5e7a-1111-4e2b-9c3d-000000000003"
	budget := domain.Budget{UserID: userID, Category: "Food", Amount: amount("400.00"), Period: domain.PeriodMonthly}
	require.NoError(t, repo.Save(&budget))
	assert.NotZero(t, budget.ID)

	budgets, err := repo.FindByUser(userID)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.True(t, budgets[0].Amount.Equal(amount("400.00")))

	budget.Amount = amount("450.00")
	require.NoError(t, repo.Update(budget))
	found, err := repo.FindByID(budget.ID)
	require.NoError(t, err)
	assert.True(t, found.Amount.Equal(amount("450.00")))

	require.NoError(t, repo.Delete(budget.ID))
	budgets, err = repo.FindByUser(userID)
	require.NoError(t, err)
	assert.Empty(t, budgets)
}
