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

func TestCreateTransaction_UppercasesTypeAndValidates(t *testing.T) {
	repo := &infrastructure.MockTransactionRepository{}
	service := NewTransactionService(repo)

	transaction := domain.Transaction{
		UserID: testUserID, Type: "expense", Category: "Food",
		Amount: amount("12.50"), Date: date(2025, time.June, 3),
	}
	require.NoError(t, service.CreateTransaction(&transaction))
	assert.Equal(t, domain.TypeExpense, transaction.Type)
	assert.NotZero(t, transaction.ID)
}

func TestCreateTransaction_Rejections(t *testing.T) {
	service := NewTransactionService(&infrastructure.MockTransactionRepository{})
	valid := domain.Transaction{
		UserID: testUserID, Type: domain.TypeExpense, Category: "Food",
		Amount: amount("12.50"), Date: date(2025, time.June, 3),
	}

	tests := []struct {
		name   string
		mutate func(*domain.Transaction)
	}{
		{"unknown type", func(tr *domain.Transaction) { tr.Type = "TRANSFER" }},
		{"negative amount", func(tr *domain.Transaction) { tr.Amount = amount("-1.00") }},
		{"too many decimal places", func(tr *domain.Transaction) { tr.Amount = amount("1.005") }},
		{"missing category", func(tr *domain.Transaction) { tr.Category = "" }},
		{"missing date", func(tr *domain.Transaction) { tr.Date = time.Time{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transaction := valid
			tt.mutate(&transaction)
			err := service.CreateTransaction(&transaction)
			assert.True(t, financeErrors.IsValidationError(err), "got %v", err)
		})
	}

	// zero amount is allowed, sign is carried by the type
	transaction := valid
	transaction.Amount = amount("0.00")
	assert.NoError(t, service.CreateTransaction(&transaction))
}

func TestGetUserTransactions_FilterAndPagination(t *testing.T) {
	repo := &infrastructure.MockTransactionRepository{Transactions: []domain.Transaction{
		expense(1, "Food", "50.00", date(2025, time.June, 1)),
		expense(2, "Food", "30.00", date(2025, time.June, 10)),
		income(3, "Salary", "2000.00", date(2025, time.June, 5)),
	}}
	service := NewTransactionService(repo)

	transactions, err := service.GetUserTransactions(testUserID, domain.TransactionFilter{Type: "EXPENSE"})
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.Equal(t, int64(2), transactions[0].ID)

	transactions, err = service.GetUserTransactions(testUserID, domain.TransactionFilter{Skip: 2})
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, int64(1), transactions[0].ID)
}

func TestGetUserTransactions_EmptyResultIsNotAnError(t *testing.T) {
	service := NewTransactionService(&infrastructure.MockTransactionRepository{})

	transactions, err := service.GetUserTransactions(testUserID, domain.TransactionFilter{Category: "Nothing"})
	require.NoError(t, err)
	assert.NotNil(t, transactions)
	assert.Empty(t, transactions)
}

func TestGetTransaction_ForeignRowsReadAsNotFound(t *testing.T) {
	repo := &infrastructure.MockTransactionRepository{Transactions: []domain.Transaction{
		{ID: 1, UserID: "someone-else", Type: domain.TypeExpense, Category: "Food",
			Amount: amount("5.00"), Date: date(2025, time.June, 1)},
	}}
	service := NewTransactionService(repo)

	_, err := service.GetTransaction(1, testUserID)
	assert.ErrorIs(t, err, financeErrors.ErrTransactionNotFound)

	_, err = service.GetTransaction(99, testUserID)
	assert.ErrorIs(t, err, financeErrors.ErrTransactionNotFound)
}

func TestUpdateTransaction_PartialUpdate(t *testing.T) {
	repo := &infrastructure.MockTransactionRepository{Transactions: juneLedger()}
	service := NewTransactionService(repo)

	note := "lunch out"
	newAmount := amount("42.00")
	updated, err := service.UpdateTransaction(1, testUserID, TransactionUpdate{
		Amount: &newAmount,
		Note:   &note,
	})
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(amount("42.00")))
	assert.Equal(t, "lunch out", updated.Note)
	assert.Equal(t, "Food", updated.Category)

	badType := "TRANSFER"
	_, err = service.UpdateTransaction(1, testUserID, TransactionUpdate{Type: &badType})
	assert.True(t, financeErrors.IsValidationError(err))
}

func TestDeleteTransaction(t *testing.T) {
	repo := &infrastructure.MockTransactionRepository{Transactions: juneLedger()}
	service := NewTransactionService(repo)

	require.NoError(t, service.DeleteTransaction(1, testUserID))
	_, err := service.GetTransaction(1, testUserID)
	assert.ErrorIs(t, err, financeErrors.ErrTransactionNotFound)

	err = service.DeleteTransaction(2, "someone-else")
	assert.ErrorIs(t, err, financeErrors.ErrTransactionNotFound)
}
