package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"payout/internal/domain"
)

type errorBody struct {
	Message string `json:"message"`
}

func newErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorBody{Message: message})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// errStatus maps domain errors onto HTTP status codes; unknown errors become
// 500s with a generic message so internals do not leak.
func errStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrWithdrawalNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrIdempotencyKeyMismatch),
		errors.Is(err, domain.ErrDuplicateRequest),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, err.Error()
	default:
		var perr *domain.ProviderError
		if errors.As(err, &perr) {
			return http.StatusBadGateway, "payment provider error"
		}
		return http.StatusInternalServerError, "internal error"
	}
}
