package interfaces

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/monetra/FinanceTracker/internal/finance/application"
	"github.com/monetra/FinanceTracker/internal/finance/domain"
	"github.com/monetra/FinanceTracker/internal/finance/infrastructure"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedNow pins reports to mid June 2025 so period windows are stable.
func fixedNow() time.Time {
	return time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
}

func newBudgetHandler(budgets *infrastructure.MockBudgetRepository, transactions *infrastructure.MockTransactionRepository) *BudgetHandler {
	service := application.NewBudgetService(budgets, transactions)
	reports := application.NewReportService(transactions)
	return NewBudgetHandler(service, reports, fixedNow, respondJSON, respondError)
}

func TestHandleCreateBudget(t *testing.T) {
	repo := &infrastructure.MockBudgetRepository{}
	handler := newBudgetHandler(repo, &infrastructure.MockTransactionRepository{})

	w := httptest.NewRecorder()
	handler.HandleCreate(w, authorizedRequest(http.MethodPost, "/api/budgets",
		[]byte(`{"category":"Food","amount":400,"period":"monthly"}`)))

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var response struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	assert.Equal(t, "Food", response.Data["category"])
	assert.Equal(t, float64(400), response.Data["amount"])
	assert.Len(t, repo.Budgets, 1)
}

func TestHandleCreateBudget_Rejections(t *testing.T) {
	handler := newBudgetHandler(&infrastructure.MockBudgetRepository{}, &infrastructure.MockTransactionRepository{})

	tests := []struct {
		name string
		body string
	}{
		{"malformed body", "not json"},
		{"negative amount", `{"category":"Food","amount":-400,"period":"monthly"}`},
		{"missing category", `{"amount":400,"period":"monthly"}`},
		{"missing period", `{"category":"Food","amount":400}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.HandleCreate(w, authorizedRequest(http.MethodPost, "/api/budgets", []byte(tt.body)))
			assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
		})
	}
}

func TestHandleListBudgets_EmptyIsAnArray(t *testing.T) {
	handler := newBudgetHandler(&infrastructure.MockBudgetRepository{}, &infrastructure.MockTransactionRepository{})

	w := httptest.NewRecorder()
	handler.HandleList(w, authorizedRequest(http.MethodGet, "/api/budgets", nil))

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var response struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	assert.NotNil(t, response.Data)
	assert.Empty(t, response.Data)
}

func TestHandleUpdateBudget_Ownership(t *testing.T) {
	repo := &infrastructure.MockBudgetRepository{Budgets: []domain.Budget{
		{ID: 1, UserID: "someone-else", Category: "Food",
			Amount: decimal.RequireFromString("400"), Period: domain.PeriodMonthly},
	}}
	handler := newBudgetHandler(repo, &infrastructure.MockTransactionRepository{})

	req := authorizedRequest(http.MethodPut, "/api/budgets/1", []byte(`{"amount":500}`))
	req.SetPathValue("budgetID", "1")
	w := httptest.NewRecorder()
	handler.HandleUpdate(w, req)

	assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}

func TestHandleDeleteBudget(t *testing.T) {
	repo := &infrastructure.MockBudgetRepository{Budgets: []domain.Budget{
		{ID: 1, UserID: testUserID, Category: "Food",
			Amount: decimal.RequireFromString("400"), Period: domain.PeriodMonthly},
	}}
	handler := newBudgetHandler(repo, &infrastructure.MockTransactionRepository{})

	req := authorizedRequest(http.MethodDelete, "/api/budgets/1", nil)
	req.SetPathValue("budgetID", "1")
	w := httptest.NewRecorder()
	handler.HandleDelete(w, req)

	require.Equal(t, http.StatusOK, w.Result().StatusCode)
	assert.Empty(t, repo.Budgets)
}

func TestHandleBudgetComparison(t *testing.T) {
	budgets := &infrastructure.MockBudgetRepository{Budgets: []domain.Budget{
		{ID: 1, UserID: testUserID, Category: "Food",
			Amount: decimal.RequireFromString("400.00"), Period: domain.PeriodMonthly},
	}}
	handler := newBudgetHandler(budgets, seededLedger())

	w := httptest.NewRecorder()
	handler.HandleComparison(w, authorizedRequest(http.MethodGet, "/api/budgets/comparison", nil))

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var response struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	require.Len(t, response.Data, 1)
	assert.Equal(t, float64(50), response.Data[0]["spent"])
	assert.Equal(t, float64(350), response.Data[0]["remaining"])
	assert.Equal(t, float64(12.5), response.Data[0]["percent_used"])
}

func TestHandleBudgetSpent(t *testing.T) {
	budgets := &infrastructure.MockBudgetRepository{Budgets: []domain.Budget{
		{ID: 1, UserID: testUserID, Category: "Travel",
			Amount: decimal.RequireFromString("200.00"), Period: domain.PeriodMonthly},
	}}
	handler := newBudgetHandler(budgets, seededLedger())

	w := httptest.NewRecorder()
	handler.HandleSpent(w, authorizedRequest(http.MethodGet, "/api/budgets/spent", nil))

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	// Food has spend but no budget row, Travel is budgeted without spend.
	// Spend totals track expenses per category, not budget rows.
	var response struct {
		Data map[string]float64 `json:"data"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	assert.Equal(t, map[string]float64{"Food": 50}, response.Data)
}

func TestHandleBudgetSpent_NoBudgets(t *testing.T) {
	handler := newBudgetHandler(&infrastructure.MockBudgetRepository{}, seededLedger())

	w := httptest.NewRecorder()
	handler.HandleSpent(w, authorizedRequest(http.MethodGet, "/api/budgets/spent", nil))

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var response struct {
		Data map[string]float64 `json:"data"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	assert.Equal(t, map[string]float64{"Food": 50}, response.Data)
}
