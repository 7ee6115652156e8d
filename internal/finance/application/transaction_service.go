package application

import (
	"strings"
	"time"

	"github.com/monetra/FinanceTracker/internal/finance/domain"
	financeErrors "github.com/monetra/FinanceTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
)

type TransactionService struct {
	repo domain.TransactionRepository
}

func NewTransactionService(repo domain.TransactionRepository) *TransactionService {
	return &TransactionService{repo: repo}
}

func (s *TransactionService) CreateTransaction(transaction *domain.Transaction) error {
	transaction.Type = strings.ToUpper(transaction.Type)
	if err := transaction.Validate(); err != nil {
		return err
	}
	return s.repo.Save(transaction)
}

func (s *TransactionService) GetUserTransactions(userID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	transactions, err := s.repo.FindByFilter(userID, filter.Normalized())
	if err != nil {
		return nil, err
	}
	if transactions == nil {
		return []domain.Transaction{}, nil
	}
	return transactions, nil
}

// GetTransaction reports a foreign user's row as not found, same as a
// missing one.
func (s *TransactionService) GetTransaction(transactionID int64, userID string) (*domain.Transaction, error) {
	transaction, err := s.repo.FindByID(transactionID)
	if err != nil {
		return nil, err
	}
	if transaction.UserID != userID {
		return nil, financeErrors.ErrTransactionNotFound
	}
	return transaction, nil
}

// TransactionUpdate carries a partial update; nil fields are left unchanged.
type TransactionUpdate struct {
	Type     *string
	Category *string
	Amount   *decimal.Decimal
	Date     *time.Time
	Note     *string
}

func (s *TransactionService) UpdateTransaction(transactionID int64, userID string, update TransactionUpdate) (*domain.Transaction, error) {
	transaction, err := s.GetTransaction(transactionID, userID)
	if err != nil {
		return nil, err
	}

	if update.Type != nil {
		transaction.Type = strings.ToUpper(*update.Type)
	}
	if update.Category != nil {
		transaction.Category = *update.Category
	}
	if update.Amount != nil {
		transaction.Amount = *update.Amount
	}
	if update.Date != nil {
		transaction.Date = *update.Date
	}
	if update.Note != nil {
		transaction.Note = *update.Note
	}
	if err := transaction.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(*transaction); err != nil {
		return nil, err
	}
	return transaction, nil
}

func (s *TransactionService) DeleteTransaction(transactionID int64, userID string) error {
	if _, err := s.GetTransaction(transactionID, userID); err != nil {
		return err
	}
	return s.repo.Delete(transactionID)
}
