package infrastructure

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/monetra/FinanceTracker/internal/finance/domain"
	financeErrors "github.com/monetra/FinanceTracker/internal/finance/errors"
)

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = "id, user_id, type, category, amount, date, note, created_at, updated_at"

func (r *TransactionRepository) Save(transaction *domain.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, type, category, amount, date, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(query,
		transaction.UserID, transaction.Type, transaction.Category,
		transaction.Amount, transaction.Date, nullableNote(transaction.Note),
	).Scan(&transaction.ID, &transaction.CreatedAt, &transaction.UpdatedAt)
	if err != nil {
		return fmt.Errorf("could not create transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) FindByID(transactionID int64) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	transaction, err := scanTransaction(r.db.QueryRow(query, transactionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("could not find transaction: %w", err)
	}
	return transaction, nil
}

// FindByFilter builds the filtered listing query. Every filter is optional
// and AND-combined; ordering is date desc then id desc so same-day rows come
// back newest-inserted first.
func (r *TransactionRepository) FindByFilter(userID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	filter = filter.Normalized()

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.Type != "" {
		args = append(args, strings.ToUpper(filter.Type))
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	if filter.MinAmount != nil {
		args = append(args, *filter.MinAmount)
		query += fmt.Sprintf(" AND amount >= $%d", len(args))
	}
	if filter.MaxAmount != nil {
		args = append(args, *filter.MaxAmount)
		query += fmt.Sprintf(" AND amount <= $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		query += fmt.Sprintf(" AND (note ILIKE $%d OR category ILIKE $%d)", n, n)
	}

	query += " ORDER BY date DESC, id DESC"
	args = append(args, filter.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, filter.Skip)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	return r.queryTransactions(query, args...)
}

// FindInDateRange is the aggregation fetch: every row of the user in the
// inclusive window, ascending, no pagination.
func (r *TransactionRepository) FindInDateRange(userID string, from, to time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC, id ASC
	`
	return r.queryTransactions(query, userID, from, to)
}

func (r *TransactionRepository) FindExpensesInDateRange(userID, category string, from, to time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND type = $2 AND date >= $3 AND date <= $4
	`
	args := []interface{}{userID, domain.TypeExpense, from, to}
	if category != "" {
		args = append(args, category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	query += " ORDER BY date ASC, id ASC"

	return r.queryTransactions(query, args...)
}

func (r *TransactionRepository) Update(transaction domain.Transaction) error {
	query := `
		UPDATE transactions
		SET type = $1, category = $2, amount = $3, date = $4, note = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := r.db.Exec(query,
		transaction.Type, transaction.Category, transaction.Amount,
		transaction.Date, nullableNote(transaction.Note), transaction.ID,
	)
	if err != nil {
		return fmt.Errorf("could not update transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) Delete(transactionID int64) error {
	_, err := r.db.Exec(`DELETE FROM transactions WHERE id = $1`, transactionID)
	if err != nil {
		return fmt.Errorf("could not delete transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) queryTransactions(query string, args ...interface{}) ([]domain.Transaction, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan transaction: %w", err)
		}
		transactions = append(transactions, *transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not read transactions: %w", err)
	}
	return transactions, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var transaction domain.Transaction
	var note sql.NullString
	err := row.Scan(
		&transaction.ID, &transaction.UserID, &transaction.Type, &transaction.Category,
		&transaction.Amount, &transaction.Date, &note,
		&transaction.CreatedAt, &transaction.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	transaction.Note = note.String
	return &transaction, nil
}

func nullableNote(note string) sql.NullString {
	return sql.NullString{String: note, Valid: note != ""}
}
