package interfaces

import (
	"bytes"
	"context"
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

const testUserID = "3f9c54f0-2c90-4d52-a21c-8e41bca194ab"

func authorizedRequest(method, target string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(context.WithValue(req.Context(), "userID", testUserID))
}

func seededLedger() *infrastructure.MockTransactionRepository {
	return &infrastructure.MockTransactionRepository{Transactions: []domain.Transaction{
		{ID: 1, UserID: testUserID, Type: domain.TypeExpense, Category: "Food",
			Amount: decimal.RequireFromString("50.00"), Date: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), Note: "groceries"},
		{ID: 2, UserID: testUserID, Type: domain.TypeIncome, Category: "Salary",
			Amount: decimal.RequireFromString("2000.00"), Date: time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC)},
	}}
}

func newTransactionHandler(repo *infrastructure.MockTransactionRepository) *TransactionHandler {
	return NewTransactionHandler(application.NewTransactionService(repo), respondJSON, respondError)
}

func TestHandleCreateTransaction(t *testing.T) {
	handler := newTransactionHandler(&infrastructure.MockTransactionRepository{})

	body, _ := json.Marshal(map[string]interface{}{
		"type":     "expense",
		"category": "Food",
		"amount":   12.5,
		"date":     "2025-06-03",
		"note":     "lunch",
	})
	w := httptest.NewRecorder()
	handler.HandleCreate(w, authorizedRequest(http.MethodPost, "/api/transactions", body))

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var response struct {
		Status string                  `json:"status"`
		Data   map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	assert.Equal(t, "success", response.Status)
	assert.Equal(t, "EXPENSE", response.Data["type"])
	assert.Equal(t, 12.5, response.Data["amount"])
	assert.Equal(t, "2025-06-03", response.Data["date"])
}

func TestHandleCreateTransaction_Rejections(t *testing.T) {
	handler := newTransactionHandler(&infrastructure.MockTransactionRepository{})

	tests := []struct {
		name string
		body string
	}{
		{"malformed body", "not json"},
		{"bad date", `{"type":"EXPENSE","category":"Food","amount":10,"date":"03/06/2025"}`},
		{"unknown type", `{"type":"TRANSFER","category":"Food","amount":10,"date":"2025-06-03"}`},
		{"negative amount", `{"type":"EXPENSE","category":"Food","amount":-10,"date":"2025-06-03"}`},
		{"missing category", `{"type":"EXPENSE","amount":10,"date":"2025-06-03"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.HandleCreate(w, authorizedRequest(http.MethodPost, "/api/transactions", []byte(tt.body)))
			assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
		})
	}
}

func TestHandleCreateTransaction_Unauthorized(t *testing.T) {
	handler := newTransactionHandler(&infrastructure.MockTransactionRepository{})

	req := httptest.NewRequest(http.MethodPost, "/api/transactions", bytes.NewBufferString("{}"))
	w := httptest.NewRecorder()
	handler.HandleCreate(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
}

func TestHandleListTransactions_Filtering(t *testing.T) {
	handler := newTransactionHandler(seededLedger())

	w := httptest.NewRecorder()
	handler.HandleList(w, authorizedRequest(http.MethodGet, "/api/transactions?type=expense&search=groc", nil))

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var response struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	require.Len(t, response.Data, 1)
	assert.Equal(t, "Food", response.Data[0]["category"])
}

func TestHandleListTransactions_InvalidQuery(t *testing.T) {
	handler := newTransactionHandler(seededLedger())

	tests := []string{
		"/api/transactions?type=transfer",
		"/api/transactions?date_from=June-1",
		"/api/transactions?min_amount=abc",
		"/api/transactions?skip=-1",
		"/api/transactions?limit=0",
	}
	for _, target := range tests {
		w := httptest.NewRecorder()
		handler.HandleList(w, authorizedRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode, target)
	}
}

func TestHandleGetTransaction_NotFound(t *testing.T) {
	handler := newTransactionHandler(seededLedger())

	req := authorizedRequest(http.MethodGet, "/api/transactions/99", nil)
	req.SetPathValue("transactionID", "99")
	w := httptest.NewRecorder()
	handler.HandleGet(w, req)

	assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}

func TestHandleUpdateTransaction(t *testing.T) {
	repo := seededLedger()
	handler := newTransactionHandler(repo)

	req := authorizedRequest(http.MethodPut, "/api/transactions/1", []byte(`{"amount":42,"note":"dinner"}`))
	req.SetPathValue("transactionID", "1")
	w := httptest.NewRecorder()
	handler.HandleUpdate(w, req)

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var response struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	assert.Equal(t, float64(42), response.Data["amount"])
	assert.Equal(t, "dinner", response.Data["note"])
	assert.Equal(t, "Food", response.Data["category"])
}

func TestHandleDeleteTransaction(t *testing.T) {
	repo := seededLedger()
	handler := newTransactionHandler(repo)

	req := authorizedRequest(http.MethodDelete, "/api/transactions/1", nil)
	req.SetPathValue("transactionID", "1")
	w := httptest.NewRecorder()
	handler.HandleDelete(w, req)

	require.Equal(t, http.StatusOK, w.Result().StatusCode)
	assert.Len(t, repo.Transactions, 1)

	req = authorizedRequest(http.MethodDelete, "/api/transactions/not-a-number", nil)
	req.SetPathValue("transactionID", "not-a-number")
	w = httptest.NewRecorder()
	handler.HandleDelete(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}
