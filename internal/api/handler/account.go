// internal/api/handler/account.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"points-ledger/internal/presence"
	"points-ledger/internal/service"
	"points-ledger/internal/util"
)

// AccountHandler handles registration, login, and withdraw setup.
type AccountHandler struct {
	ledger  service.LedgerService
	tracker *presence.Tracker
	logger  *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(ledger service.LedgerService, tracker *presence.Tracker, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		ledger:  ledger,
		tracker: tracker,
		logger:  logger,
	}
}

// RegisterRequest enumerates exactly the fields a signup may set.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// Register handles the user registration request.
// POST /api/register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	user, err := h.ledger.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusCreated, user)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles the login request. A successful login registers the user in
// the presence tracker.
// POST /api/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	user, err := h.ledger.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	h.tracker.Touch(user.ID, user.Username)

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"id":       user.ID,
		"username": user.Username,
		"fullName": user.FullName,
	})
}

// FindUsers handles the profile lookup request.
// GET /api/users?username=
func (h *AccountHandler) FindUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.ledger.FindUsers(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, users)
}

// WithdrawPasswordRequest represents the body for setting or checking the
// withdraw password.
type WithdrawPasswordRequest struct {
	Username    string `json:"username"`
	WithdrawPwd string `json:"withdrawPwd"`
}

// SetWithdrawPassword handles the withdraw password setup request.
// POST /api/setWithdrawPwd
func (h *AccountHandler) SetWithdrawPassword(w http.ResponseWriter, r *http.Request) {
	var req WithdrawPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	if err := h.ledger.SetWithdrawPassword(r.Context(), req.Username, req.WithdrawPwd); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, map[string]bool{"success": true})
}

// CheckWithdrawPassword handles the withdraw password verification request.
// POST /api/checkWithdrawPwd
func (h *AccountHandler) CheckWithdrawPassword(w http.ResponseWriter, r *http.Request) {
	var req WithdrawPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	ok, err := h.ledger.CheckWithdrawPassword(r.Context(), req.Username, req.WithdrawPwd)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, map[string]bool{"ok": ok})
}

// AddWithdrawMethodRequest represents the body for adding a payout method.
type AddWithdrawMethodRequest struct {
	Username      string `json:"username"`
	BankName      string `json:"bankName"`
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
}

// AddWithdrawMethod handles the payout method creation request.
// POST /api/addWithdrawMethod
func (h *AccountHandler) AddWithdrawMethod(w http.ResponseWriter, r *http.Request) {
	var req AddWithdrawMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	if err := h.ledger.AddWithdrawMethod(r.Context(), req.Username, req.BankName, req.AccountName, req.AccountNumber); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, map[string]bool{"success": true})
}

// CheckWithdrawReady handles the withdraw readiness check.
// GET /api/checkWithdrawReady?username=
func (h *AccountHandler) CheckWithdrawReady(w http.ResponseWriter, r *http.Request) {
	ready, err := h.ledger.CheckWithdrawReady(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, map[string]bool{"ready": ready})
}

// GetWithdrawAccounts handles the payout method listing request.
// GET /api/getWithdrawAccounts?username=
func (h *AccountHandler) GetWithdrawAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.ledger.GetWithdrawAccounts(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, accounts)
}
