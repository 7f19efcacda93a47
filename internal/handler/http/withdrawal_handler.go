package http

import (
	"encoding/json"
	"net/http"

	"payout/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func pathID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

func (h *Handler) createWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req domain.WithdrawalReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		newErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		newErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.Amount.IsPositive() {
		newErrorResponse(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	withdrawal, err := h.withdrawals.CreateWithdrawal(r.Context(), &req)
	if err != nil {
		status, msg := errStatus(err)
		if status >= http.StatusInternalServerError {
			h.log.WithError(err).Error("create withdrawal failed")
		}
		newErrorResponse(w, status, msg)
		return
	}

	writeJSON(w, http.StatusCreated, withdrawal)
}

func (h *Handler) getWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	withdrawal, err := h.withdrawals.GetWithdrawal(r.Context(), id)
	if err != nil {
		status, msg := errStatus(err)
		newErrorResponse(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, withdrawal)
}

func (h *Handler) listWithdrawals(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		newErrorResponse(w, http.StatusBadRequest, "user_id is required")
		return
	}

	withdrawals, err := h.withdrawals.ListUserWithdrawals(r.Context(), userID)
	if err != nil {
		status, msg := errStatus(err)
		newErrorResponse(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"withdrawals": withdrawals})
}

type creditEarningsReq struct {
	UserID   string          `json:"user_id" validate:"required"`
	Currency string          `json:"currency" validate:"required"`
	Amount   decimal.Decimal `json:"amount"`
}

func (h *Handler) creditEarnings(w http.ResponseWriter, r *http.Request) {
	var req creditEarningsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		newErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		newErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.Amount.IsPositive() {
		newErrorResponse(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	if err := h.withdrawals.CreditEarnings(r.Context(), req.UserID, req.Currency, req.Amount); err != nil {
		status, msg := errStatus(err)
		newErrorResponse(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"credited": true})
}

func (h *Handler) getBalance(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	currency := r.URL.Query().Get("currency")
	if userID == "" || currency == "" {
		newErrorResponse(w, http.StatusBadRequest, "user_id and currency are required")
		return
	}

	balance, err := h.withdrawals.GetBalance(r.Context(), userID, currency)
	if err != nil {
		status, msg := errStatus(err)
		newErrorResponse(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, balance)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(pathID(r))
	if err != nil {
		newErrorResponse(w, http.StatusBadRequest, "invalid withdrawal id")
		return uuid.Nil, false
	}
	return id, true
}
