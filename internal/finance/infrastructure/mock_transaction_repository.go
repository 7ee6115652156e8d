package infrastructure

import (
	"sort"
	"strings"
	"time"

	"github.com/monetra/FinanceTracker/internal/finance/domain"
	financeErrors "github.com/monetra/FinanceTracker/internal/finance/errors"
)

// MockTransactionRepository is an in-memory ledger with the same filtering
// and ordering semantics as the SQL repository, for service and handler
// tests without a live store.
type MockTransactionRepository struct {
	Transactions []domain.Transaction
	Err          error // returned by every method when set
	nextID       int64
}

func (m *MockTransactionRepository) Save(transaction *domain.Transaction) error {
	if m.Err != nil {
		return m.Err
	}
	m.nextID++
	transaction.ID = m.nextID
	transaction.CreatedAt = time.Now()
	transaction.UpdatedAt = transaction.CreatedAt
	m.Transactions = append(m.Transactions, *transaction)
	return nil
}

func (m *MockTransactionRepository) FindByID(transactionID int64) (*domain.Transaction, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, t := range m.Transactions {
		if t.ID == transactionID {
			found := t
			return &found, nil
		}
	}
	return nil, financeErrors.ErrTransactionNotFound
}

func (m *MockTransactionRepository) FindByFilter(userID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	filter = filter.Normalized()

	var matched []domain.Transaction
	for _, t := range m.Transactions {
		if t.UserID != userID {
			continue
		}
		if filter.Type != "" && t.Type != strings.ToUpper(filter.Type) {
			continue
		}
		if filter.Category != "" && t.Category != filter.Category {
			continue
		}
		if filter.DateFrom != nil && t.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && t.Date.After(*filter.DateTo) {
			continue
		}
		if filter.MinAmount != nil && t.Amount.LessThan(*filter.MinAmount) {
			continue
		}
		if filter.MaxAmount != nil && t.Amount.GreaterThan(*filter.MaxAmount) {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(t.Note), needle) &&
				!strings.Contains(strings.ToLower(t.Category), needle) {
				continue
			}
		}
		matched = append(matched, t)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].ID > matched[j].ID
	})

	if filter.Skip >= len(matched) {
		return nil, nil
	}
	matched = matched[filter.Skip:]
	if len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (m *MockTransactionRepository) FindInDateRange(userID string, from, to time.Time) ([]domain.Transaction, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var matched []domain.Transaction
	for _, t := range m.Transactions {
		if t.UserID != userID || t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		matched = append(matched, t)
	}
	sortAscending(matched)
	return matched, nil
}

func (m *MockTransactionRepository) FindExpensesInDateRange(userID, category string, from, to time.Time) ([]domain.Transaction, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var matched []domain.Transaction
	for _, t := range m.Transactions {
		if t.UserID != userID || t.Type != domain.TypeExpense {
			continue
		}
		if category != "" && t.Category != category {
			continue
		}
		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		matched = append(matched, t)
	}
	sortAscending(matched)
	return matched, nil
}

func (m *MockTransactionRepository) Update(transaction domain.Transaction) error {
	if m.Err != nil {
		return m.Err
	}
	for i, t := range m.Transactions {
		if t.ID == transaction.ID {
			transaction.UpdatedAt = time.Now()
			m.Transactions[i] = transaction
			return nil
		}
	}
	return financeErrors.ErrTransactionNotFound
}

func (m *MockTransactionRepository) Delete(transactionID int64) error {
	if m.Err != nil {
		return m.Err
	}
	for i, t := range m.Transactions {
		if t.ID == transactionID {
			m.Transactions = append(m.Transactions[:i], m.Transactions[i+1:]...)
			return nil
		}
	}
	return financeErrors.ErrTransactionNotFound
}

func sortAscending(transactions []domain.Transaction) {
	sort.Slice(transactions, func(i, j int) bool {
		if !transactions[i].Date.Equal(transactions[j].Date) {
			return transactions[i].Date.Before(transactions[j].Date)
		}
		return transactions[i].ID < transactions[j].ID
	})
}
