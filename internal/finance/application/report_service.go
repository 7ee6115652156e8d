package application

import (
	"fmt"
	"sort"
	"time"

	"github.com/monetra/FinanceTracker/internal/finance/domain"
	"github.com/shopspring/decimal"
)

const (
	defaultRecentLimit = 5
	maxRecentLimit     = 50
)

// ReportService computes the dashboard aggregates from a user's ledger.
// Fetching is pushed to the repository; grouping and summation happen here
// with exact decimal arithmetic. Callers inject "today" so every report is a
// deterministic function of its inputs.
type ReportService struct {
	repo domain.TransactionRepository
}

func NewReportService(repo domain.TransactionRepository) *ReportService {
	return &ReportService{repo: repo}
}

// MonthlySummary holds current-month-to-date totals. Balance may be negative.
type MonthlySummary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Balance      decimal.Decimal
}

// Trend holds per-month income and expense totals. The three slices are
// positionally aligned by index.
type Trend struct {
	Labels  []string
	Income  []decimal.Decimal
	Expense []decimal.Decimal
}

func (s *ReportService) Summary(userID string, today time.Time) (MonthlySummary, error) {
	from, to := CurrentMonthRange(today)
	transactions, err := s.repo.FindInDateRange(userID, from, to)
	if err != nil {
		return MonthlySummary{}, fmt.Errorf("fetch current month transactions: %w", err)
	}

	totals := sumBy(transactions, func(t domain.Transaction) string { return t.Type })
	income := totals[domain.TypeIncome]
	expense := totals[domain.TypeExpense]
	return MonthlySummary{
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income.Sub(expense),
	}, nil
}

// CategoryBreakdown sums the user's current-month EXPENSE transactions per
// category. Categories with no matching rows are absent from the result, not
// zero-filled; category tables have no continuity requirement.
func (s *ReportService) CategoryBreakdown(userID string, today time.Time) (map[string]decimal.Decimal, error) {
	from, to := CurrentMonthRange(today)
	transactions, err := s.repo.FindExpensesInDateRange(userID, "", from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch current month expenses: %w", err)
	}

	return sumBy(transactions, func(t domain.Transaction) string { return t.Category }), nil
}

// MonthlyTrend sums income and expense per calendar month over the trailing
// window ending at today's month. Every window month appears in the output
// even with zero transactions, so chart axes stay continuous. Months that
// show up in the data but fall outside the window (late-arriving historical
// rows) are appended as extra buckets rather than dropped.
func (s *ReportService) MonthlyTrend(userID string, today time.Time, months int) (Trend, error) {
	window := MonthWindow(today, months)
	from := window[0].Start
	_, to := CurrentMonthRange(today)

	transactions, err := s.repo.FindInDateRange(userID, from, to)
	if err != nil {
		return Trend{}, fmt.Errorf("fetch trend transactions: %w", err)
	}

	income := sumBy(filterByType(transactions, domain.TypeIncome), monthKey)
	expense := sumBy(filterByType(transactions, domain.TypeExpense), monthKey)

	labels := make([]string, 0, len(window))
	inWindow := make(map[string]bool, len(window))
	for _, bucket := range window {
		labels = append(labels, bucket.Label)
		inWindow[bucket.Label] = true
	}

	var extras []string
	for key := range income {
		if !inWindow[key] {
			inWindow[key] = true
			extras = append(extras, key)
		}
	}
	for key := range expense {
		if !inWindow[key] {
			inWindow[key] = true
			extras = append(extras, key)
		}
	}
	sort.Strings(extras)
	labels = append(labels, extras...)

	trend := Trend{
		Labels:  labels,
		Income:  make([]decimal.Decimal, len(labels)),
		Expense: make([]decimal.Decimal, len(labels)),
	}
	for i, label := range labels {
		trend.Income[i] = income[label]
		trend.Expense[i] = expense[label]
	}
	return trend, nil
}

// RecentTransactions returns the newest transactions (date desc, id desc).
// limit is clamped to [1, 50] with 5 as the unset default.
func (s *ReportService) RecentTransactions(userID string, limit int) ([]domain.Transaction, error) {
	if limit == 0 {
		limit = defaultRecentLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	transactions, err := s.repo.FindByFilter(userID, domain.TransactionFilter{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("fetch recent transactions: %w", err)
	}
	if transactions == nil {
		return []domain.Transaction{}, nil
	}
	return transactions, nil
}

// sumBy adds transaction amounts per grouping key. The zero decimal.Decimal
// is a valid 0, so absent keys read back as exact zero.
func sumBy(transactions []domain.Transaction, key func(domain.Transaction) string) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, t := range transactions {
		k := key(t)
		totals[k] = totals[k].Add(t.Amount)
	}
	return totals
}

func filterByType(transactions []domain.Transaction, transactionType string) []domain.Transaction {
	var filtered []domain.Transaction
	for _, t := range transactions {
		if t.Type == transactionType {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func monthKey(t domain.Transaction) string {
	return t.Date.Format("2006-01")
}
