package http

import (
	"errors"
	"io"
	"net/http"

	"payout/internal/domain"
	"payout/internal/gateway/paystream"

	"github.com/sirupsen/logrus"
)

const maxWebhookBody = 1 << 20

// handleWebhook acknowledges every verified delivery with 200, including
// no-ops, so the provider stops retrying. Only a bad signature gets a 401.
func (h *Handler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		newErrorResponse(w, http.StatusBadRequest, "unreadable body")
		return
	}

	ev, err := h.gateway.VerifyAndParse(payload, r.Header.Get(paystream.SignatureHeader))
	if errors.Is(err, domain.ErrInvalidSignature) {
		h.log.WithFields(logrus.Fields{
			"remote_addr": r.RemoteAddr,
		}).Warn("webhook signature verification failed")
		newErrorResponse(w, http.StatusUnauthorized, "invalid signature")
		return
	}
	if errors.Is(err, domain.ErrMalformedEvent) {
		h.log.WithError(err).Warn("dropping malformed webhook event")
		writeJSON(w, http.StatusOK, map[string]any{"received": true})
		return
	}
	if err != nil {
		h.log.WithError(err).Error("webhook verification failed")
		newErrorResponse(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := h.reconciler.ApplyEvent(r.Context(), ev); err != nil {
		// 5xx makes the provider redeliver once the fault clears.
		h.log.WithError(err).WithField("event_id", ev.ID).Error("failed to apply provider event")
		newErrorResponse(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"received": true})
}
