package interfaces

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/monetra/FinanceTracker/internal/finance/application"
	"github.com/monetra/FinanceTracker/internal/finance/domain"
	"github.com/shopspring/decimal"
)

// defaultTrendMonths is the trend window used when no months param is given.
const defaultTrendMonths = 6

type ReportServiceInterface interface {
	Summary(userID string, today time.Time) (application.MonthlySummary, error)
	CategoryBreakdown(userID string, today time.Time) (map[string]decimal.Decimal, error)
	MonthlyTrend(userID string, today time.Time, months int) (application.Trend, error)
	RecentTransactions(userID string, limit int) ([]domain.Transaction, error)
}

type DashboardHandler struct {
	service      ReportServiceInterface
	now          func() time.Time
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewDashboardHandler(
	service ReportServiceInterface,
	now func() time.Time,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *DashboardHandler {
	if service == nil {
		log.Fatal("Service must not be nil")
		return nil
	}
	if now == nil {
		now = time.Now
	}
	if respondJSON == nil {
		log.Fatal("RespondJSON function must not be nil")
		return nil
	}
	if respondError == nil {
		log.Fatal("RespondError function must not be nil")
		return nil
	}
	return &DashboardHandler{
		service:      service,
		now:          now,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *DashboardHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	summary, err := h.service.Summary(userID, h.now())
	if err != nil {
		log.Println("Error during summary computation:", err.Error())
		h.respondError(w, http.StatusInternalServerError, "Failed to compute summary")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Summary retrieved successfully.",
		"data":    application.PresentSummary(summary),
	})
}

func (h *DashboardHandler) HandleCategoryExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	totals, err := h.service.CategoryBreakdown(userID, h.now())
	if err != nil {
		log.Println("Error during category breakdown:", err.Error())
		h.respondError(w, http.StatusInternalServerError, "Failed to compute category breakdown")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Category breakdown retrieved successfully.",
		"data":    application.PresentCategoryTotals(totals),
	})
}

func (h *DashboardHandler) HandleMonthlyTrend(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	months := defaultTrendMonths
	if raw := r.URL.Query().Get("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid months value")
			return
		}
		months = parsed
	}

	trend, err := h.service.MonthlyTrend(userID, h.now(), months)
	if err != nil {
		log.Println("Error during trend computation:", err.Error())
		h.respondError(w, http.StatusInternalServerError, "Failed to compute monthly trend")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Monthly trend retrieved successfully.",
		"data":    application.PresentTrend(trend),
	})
}

func (h *DashboardHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid limit value")
			return
		}
		limit = parsed
	}

	transactions, err := h.service.RecentTransactions(userID, limit)
	if err != nil {
		log.Println("Error during recent transactions fetch:", err.Error())
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve recent transactions")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Recent transactions retrieved successfully.",
		"data":    application.PresentTransactions(transactions),
	})
}
