package interfaces

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/monetra/FinanceTracker/internal/finance/application"
	"github.com/monetra/FinanceTracker/internal/finance/domain"
	financeErrors "github.com/monetra/FinanceTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
)

type BudgetServiceInterface interface {
	CreateBudget(budget *domain.Budget) error
	GetUserBudgets(userID string) ([]domain.Budget, error)
	UpdateBudget(budgetID int64, userID string, update application.BudgetUpdate) (*domain.Budget, error)
	DeleteBudget(budgetID int64, userID string) error
	CompareToActuals(userID string, today time.Time) ([]application.BudgetComparison, error)
}

type BudgetHandler struct {
	service      BudgetServiceInterface
	reports      ReportServiceInterface
	now          func() time.Time
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewBudgetHandler(
	service BudgetServiceInterface,
	reports ReportServiceInterface,
	now func() time.Time,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *BudgetHandler {
	if service == nil {
		log.Fatal("Service must not be nil")
		return nil
	}
	if reports == nil {
		log.Fatal("Report service must not be nil")
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
	return &BudgetHandler{
		service:      service,
		reports:      reports,
		now:          now,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

type budgetRequest struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Period   string          `json:"period"`
}

func (h *BudgetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	budget := domain.Budget{
		UserID:   userID,
		Category: req.Category,
		Amount:   req.Amount,
		Period:   req.Period,
	}
	if err := h.service.CreateBudget(&budget); err != nil {
		if financeErrors.IsValidationError(err) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Println("Error during budget creation:", err.Error())
		h.respondError(w, http.StatusInternalServerError, "Failed to create budget")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Budget successfully created.",
		"data":    application.PresentBudget(budget),
	})
}

func (h *BudgetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	budgets, err := h.service.GetUserBudgets(userID)
	if err != nil {
		log.Println("Error during budget listing:", err.Error())
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve budgets")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Budgets retrieved successfully.",
		"data":    application.PresentBudgets(budgets),
	})
}

type budgetUpdateRequest struct {
	Category *string          `json:"category"`
	Amount   *decimal.Decimal `json:"amount"`
	Period   *string          `json:"period"`
}

func (h *BudgetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	budgetID, err := strconv.ParseInt(r.PathValue("budgetID"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid budget ID")
		return
	}

	var req budgetUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	budget, err := h.service.UpdateBudget(budgetID, userID, application.BudgetUpdate{
		Category: req.Category,
		Amount:   req.Amount,
		Period:   req.Period,
	})
	if err != nil {
		switch {
		case financeErrors.IsValidationError(err):
			h.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, financeErrors.ErrBudgetNotFound):
			h.respondError(w, http.StatusNotFound, "Budget not found")
		default:
			log.Println("Error during budget update:", err.Error())
			h.respondError(w, http.StatusInternalServerError, "Failed to update budget")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Budget successfully updated.",
		"data":    application.PresentBudget(*budget),
	})
}

func (h *BudgetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	budgetID, err := strconv.ParseInt(r.PathValue("budgetID"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid budget ID")
		return
	}

	if err := h.service.DeleteBudget(budgetID, userID); err != nil {
		if errors.Is(err, financeErrors.ErrBudgetNotFound) {
			h.respondError(w, http.StatusNotFound, "Budget not found")
			return
		}
		log.Println("Error during budget deletion:", err.Error())
		h.respondError(w, http.StatusInternalServerError, "Failed to delete budget")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Budget successfully deleted.",
	})
}

// HandleComparison reports every budget next to actual spend in its period
// window. Spend totals come from the user's EXPENSE rows only.
func (h *BudgetHandler) HandleComparison(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	comparisons, err := h.service.CompareToActuals(userID, h.now())
	if err != nil {
		log.Println("Error during budget comparison:", err.Error())
		h.respondError(w, http.StatusInternalServerError, "Failed to compare budgets")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Budget comparison retrieved successfully.",
		"data":    application.PresentBudgetComparisons(comparisons),
	})
}

// HandleSpent returns current-month expense totals per category, including
// categories with spend but no budget row.
func (h *BudgetHandler) HandleSpent(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	totals, err := h.reports.CategoryBreakdown(userID, h.now())
	if err != nil {
		log.Println("Error during budget spend lookup:", err.Error())
		h.respondError(w, http.StatusInternalServerError, "Failed to compute budget spend")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Budget spend retrieved successfully.",
		"data":    application.PresentCategoryTotals(totals),
	})
}
