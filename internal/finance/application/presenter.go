package application

import (
	"time"

	"github.com/monetra/FinanceTracker/internal/finance/domain"
	"github.com/shopspring/decimal"
)

// Response shapes for the HTTP layer. Monetary values stay decimal inside the
// services; they become floats only here, rounded to 2 decimal places. These
// functions are pure and do no I/O.

type SummaryReport struct {
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	Balance      float64 `json:"balance"`
}

type TrendReport struct {
	Labels  []string  `json:"labels"`
	Income  []float64 `json:"income"`
	Expense []float64 `json:"expense"`
}

type BudgetComparisonReport struct {
	BudgetID     int64   `json:"budget_id"`
	Category     string  `json:"category"`
	Period       string  `json:"period"`
	BudgetAmount float64 `json:"budget_amount"`
	Spent        float64 `json:"spent"`
	Remaining    float64 `json:"remaining"`
	PercentUsed  float64 `json:"percent_used"`
}

type TransactionResponse struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Category  string    `json:"category"`
	Amount    float64   `json:"amount"`
	Date      string    `json:"date"` // "2006-01-02"
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BudgetResponse struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Category  string    `json:"category"`
	Amount    float64   `json:"amount"`
	Period    string    `json:"period"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func PresentSummary(summary MonthlySummary) SummaryReport {
	return SummaryReport{
		TotalIncome:  toFloat(summary.TotalIncome),
		TotalExpense: toFloat(summary.TotalExpense),
		Balance:      toFloat(summary.Balance),
	}
}

func PresentCategoryTotals(totals map[string]decimal.Decimal) map[string]float64 {
	result := make(map[string]float64, len(totals))
	for category, total := range totals {
		result[category] = toFloat(total)
	}
	return result
}

func PresentTrend(trend Trend) TrendReport {
	report := TrendReport{
		Labels:  trend.Labels,
		Income:  make([]float64, len(trend.Income)),
		Expense: make([]float64, len(trend.Expense)),
	}
	for i, total := range trend.Income {
		report.Income[i] = toFloat(total)
	}
	for i, total := range trend.Expense {
		report.Expense[i] = toFloat(total)
	}
	return report
}

func PresentBudgetComparisons(comparisons []BudgetComparison) []BudgetComparisonReport {
	reports := make([]BudgetComparisonReport, len(comparisons))
	for i, c := range comparisons {
		reports[i] = BudgetComparisonReport{
			BudgetID:     c.BudgetID,
			Category:     c.Category,
			Period:       c.Period,
			BudgetAmount: toFloat(c.BudgetAmount),
			Spent:        toFloat(c.Spent),
			Remaining:    toFloat(c.Remaining),
			PercentUsed:  toFloat(c.PercentUsed),
		}
	}
	return reports
}

func PresentTransaction(t domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:        t.ID,
		UserID:    t.UserID,
		Type:      t.Type,
		Category:  t.Category,
		Amount:    toFloat(t.Amount),
		Date:      t.Date.Format("2006-01-02"),
		Note:      t.Note,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func PresentTransactions(transactions []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(transactions))
	for i, t := range transactions {
		responses[i] = PresentTransaction(t)
	}
	return responses
}

func PresentBudget(b domain.Budget) BudgetResponse {
	return BudgetResponse{
		ID:        b.ID,
		UserID:    b.UserID,
		Category:  b.Category,
		Amount:    toFloat(b.Amount),
		Period:    b.Period,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func PresentBudgets(budgets []domain.Budget) []BudgetResponse {
	responses := make([]BudgetResponse, len(budgets))
	for i, b := range budgets {
		responses[i] = PresentBudget(b)
	}
	return responses
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
