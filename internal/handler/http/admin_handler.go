package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"payout/internal/domain"
)

func (h *Handler) adminListWithdrawals(w http.ResponseWriter, r *http.Request) {
	status := domain.WithdrawalStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = domain.StatusPending
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	withdrawals, err := h.admin.ListWithdrawals(r.Context(), status, limit)
	if err != nil {
		code, msg := errStatus(err)
		newErrorResponse(w, code, msg)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"withdrawals": withdrawals})
}

func (h *Handler) approveWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.admin.Approve(r.Context(), id); err != nil {
		code, msg := errStatus(err)
		if code >= http.StatusInternalServerError {
			h.log.WithError(err).WithField("withdrawal_id", id).Error("approve failed")
		}
		newErrorResponse(w, code, msg)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"approved": true})
}

type rejectReq struct {
	Reason string `json:"reason" validate:"required"`
}

func (h *Handler) rejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req rejectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		newErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		newErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.admin.Reject(r.Context(), id, req.Reason); err != nil {
		code, msg := errStatus(err)
		newErrorResponse(w, code, msg)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"rejected": true})
}
