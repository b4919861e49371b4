// internal/api/handler/transaction.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"points-ledger/internal/api/types"
	"points-ledger/internal/domain"
	"points-ledger/internal/service"
	"points-ledger/internal/util"
)

// TransactionHandler handles HTTP requests for transaction requests and their
// review.
type TransactionHandler struct {
	ledger service.LedgerService
	review service.ReviewService
	logger *slog.Logger
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledger service.LedgerService, review service.ReviewService, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{
		ledger: ledger,
		review: review,
		logger: logger,
	}
}

// CreateTransactionRequest represents the request body for creating a
// deposit or withdraw request.
type CreateTransactionRequest struct {
	UserID          int64           `json:"userId"`
	Type            string          `json:"type"`
	Amount          json.RawMessage `json:"amount"` // string or number; normalized below
	OrderNo         string          `json:"orderNo"`
	BankName        *string         `json:"bankName"`
	BankAccount     *string         `json:"bankAccount"`
	BankAccountName *string         `json:"bankAccountName"`
	ProofURL        *string         `json:"proofUrl"`
	Remark          *string         `json:"remark"`
}

// amountText normalizes the amount field, which clients send either as a
// JSON string or a bare number.
func (r *CreateTransactionRequest) amountText() string {
	if len(r.Amount) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.Amount, &s); err == nil {
		return s
	}
	return string(r.Amount)
}

// Create handles the create transaction request.
// POST /api/transactions
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}
	if req.UserID == 0 {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	transaction, err := h.ledger.CreateTransaction(r.Context(), service.CreateTransactionInput{
		UserID:          req.UserID,
		Type:            domain.TransactionType(req.Type),
		Amount:          req.amountText(),
		OrderNo:         req.OrderNo,
		BankName:        req.BankName,
		BankAccount:     req.BankAccount,
		BankAccountName: req.BankAccountName,
		ProofURL:        req.ProofURL,
		Remark:          req.Remark,
	})
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusCreated, transaction)
}

// List handles the transaction listing request for reviewers.
// GET /api/transactions?type=&status=&userId=&page=&pageSize=
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := domain.TransactionFilter{
		Type:   domain.TransactionType(query.Get("type")),
		Status: domain.TransactionStatus(query.Get("status")),
	}
	if userIDStr := query.Get("userId"); userIDStr != "" {
		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil {
			respondWithError(w, h.logger, util.ErrInvalidInput)
			return
		}
		filter.UserID = userID
	}

	page, pageSize := parsePage(query.Get("page"), query.Get("pageSize"), 20)

	transactions, totalCount, err := h.ledger.ListTransactions(r.Context(), filter, page, pageSize)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, types.PaginatedResponse[domain.TransactionWithUser]{
		Data:       transactions,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	})
}

// ListByUser handles the per-user transaction history request.
// GET /api/users/{userID}/transactions?page=&pageSize=
func (h *TransactionHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userIDStr := chi.URLParam(r, "userID")
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	query := r.URL.Query()
	page, pageSize := parsePage(query.Get("page"), query.Get("pageSize"), 10)

	transactions, totalCount, err := h.ledger.ListTransactions(r.Context(), domain.TransactionFilter{UserID: userID}, page, pageSize)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, types.PaginatedResponse[domain.TransactionWithUser]{
		Data:       transactions,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	})
}

// ReviewRequest represents the request body for reviewing a transaction.
type ReviewRequest struct {
	Status         string           `json:"status"`
	ReviewBy       string           `json:"reviewBy"`
	Remark         *string          `json:"remark"`
	OverrideAmount *decimal.Decimal `json:"overrideAmount"`
}

// Review handles the review decision request.
// PATCH /api/transactions/{id}
func (h *TransactionHandler) Review(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	err = h.review.Review(r.Context(), id, service.ReviewInput{
		Decision:       domain.TransactionStatus(req.Status),
		ReviewBy:       req.ReviewBy,
		Remark:         req.Remark,
		OverrideAmount: req.OverrideAmount,
	})
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]bool{"success": true})
}

// parsePage parses page/pageSize query values, falling back to page 1 and the
// given default size.
func parsePage(pageStr, pageSizeStr string, defaultSize int) (int, int) {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(pageSizeStr)
	if err != nil || pageSize < 1 {
		pageSize = defaultSize
	}
	return page, pageSize
}
