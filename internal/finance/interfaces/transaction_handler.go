package interfaces

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/monetra/FinanceTracker/internal/finance/application"
	"github.com/monetra/FinanceTracker/internal/finance/domain"
	financeErrors "github.com/monetra/FinanceTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
)

type TransactionServiceInterface interface {
	CreateTransaction(transaction *domain.Transaction) error
	GetUserTransactions(userID string, filter domain.TransactionFilter) ([]domain.Transaction, error)
	GetTransaction(transactionID int64, userID string) (*domain.Transaction, error)
	UpdateTransaction(transactionID int64, userID string, update application.TransactionUpdate) (*domain.Transaction, error)
	DeleteTransaction(transactionID int64, userID string) error
}

type TransactionHandler struct {
	service      TransactionServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewTransactionHandler(
	service TransactionServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *TransactionHandler {
	if service == nil {
		log.Fatal("Service must not be nil")
		return nil
	}
	if respondJSON == nil {
		log.Fatal("RespondJSON function must not be nil")
		return nil
	}
	if respondError == nil {
		log.Fatal("RespondError function must not be nil")
		return nil
	}
	return &TransactionHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

type transactionRequest struct {
	Type     string          `json:"type"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"`
	Note     string          `json:"note"`
}

func (h *TransactionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
		return
	}

	transaction := domain.Transaction{
		UserID:   userID,
		Type:     req.Type,
		Category: req.Category,
		Amount:   req.Amount,
		Date:     date,
		Note:     req.Note,
	}
	if err := h.service.CreateTransaction(&transaction); err != nil {
		if financeErrors.IsValidationError(err) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Println("Error during transaction creation:", err.Error())
		h.respondError(w, http.StatusInternalServerError, "Failed to create transaction")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Transaction successfully created.",
		"data":    application.PresentTransaction(transaction),
	})
}

func (h *TransactionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	filter, err := parseTransactionFilter(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	transactions, err := h.service.GetUserTransactions(userID, filter)
	if err != nil {
		log.Println("Error during transaction listing:", err.Error())
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve transactions")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Transactions retrieved successfully.",
		"data":    application.PresentTransactions(transactions),
	})
}

func (h *TransactionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	transactionID, err := strconv.ParseInt(r.PathValue("transactionID"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid transaction ID")
		return
	}

	transaction, err := h.service.GetTransaction(transactionID, userID)
	if err != nil {
		if errors.Is(err, financeErrors.ErrTransactionNotFound) {
			h.respondError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		log.Println("Error during transaction fetch:", err.Error())
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve transaction")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Transaction retrieved successfully.",
		"data":    application.PresentTransaction(*transaction),
	})
}

type transactionUpdateRequest struct {
	Type     *string          `json:"type"`
	Category *string          `json:"category"`
	Amount   *decimal.Decimal `json:"amount"`
	Date     *string          `json:"date"`
	Note     *string          `json:"note"`
}

func (h *TransactionHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	transactionID, err := strconv.ParseInt(r.PathValue("transactionID"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid transaction ID")
		return
	}

	var req transactionUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	update := application.TransactionUpdate{
		Type:     req.Type,
		Category: req.Category,
		Amount:   req.Amount,
		Note:     req.Note,
	}
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
			return
		}
		update.Date = &date
	}

	transaction, err := h.service.UpdateTransaction(transactionID, userID, update)
	if err != nil {
		switch {
		case financeErrors.IsValidationError(err):
			h.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, financeErrors.ErrTransactionNotFound):
			h.respondError(w, http.StatusNotFound, "Transaction not found")
		default:
			log.Println("Error during transaction update:", err.Error())
			h.respondError(w, http.StatusInternalServerError, "Failed to update transaction")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Transaction successfully updated.",
		"data":    application.PresentTransaction(*transaction),
	})
}

func (h *TransactionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	transactionID, err := strconv.ParseInt(r.PathValue("transactionID"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid transaction ID")
		return
	}

	if err := h.service.DeleteTransaction(transactionID, userID); err != nil {
		if errors.Is(err, financeErrors.ErrTransactionNotFound) {
			h.respondError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		log.Println("Error during transaction deletion:", err.Error())
		h.respondError(w, http.StatusInternalServerError, "Failed to delete transaction")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Transaction successfully deleted.",
	})
}

func parseTransactionFilter(r *http.Request) (domain.TransactionFilter, error) {
	query := r.URL.Query()
	filter := domain.TransactionFilter{
		Type:     strings.ToUpper(query.Get("type")),
		Category: query.Get("category"),
		Search:   query.Get("search"),
	}

	if filter.Type != "" && !domain.IsValidTransactionType(filter.Type) {
		return filter, errors.New("Invalid transaction type")
	}

	if raw := query.Get("date_from"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, errors.New("Invalid date_from format, expected YYYY-MM-DD")
		}
		filter.DateFrom = &date
	}
	if raw := query.Get("date_to"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, errors.New("Invalid date_to format, expected YYYY-MM-DD")
		}
		filter.DateTo = &date
	}
	if raw := query.Get("min_amount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, errors.New("Invalid min_amount value")
		}
		filter.MinAmount = &amount
	}
	if raw := query.Get("max_amount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, errors.New("Invalid max_amount value")
		}
		filter.MaxAmount = &amount
	}
	if raw := query.Get("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return filter, errors.New("Invalid skip value")
		}
		filter.Skip = skip
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return filter, errors.New("Invalid limit value")
		}
		filter.Limit = limit
	}
	return filter, nil
}
