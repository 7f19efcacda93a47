package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateRequest       = errors.New("duplicate request")
	ErrWithdrawalNotFound     = errors.New("withdrawal not found")
	ErrHoldNotFound           = errors.New("hold not found")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrIdempotencyKeyMismatch = errors.New("idempotency key mismatch")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrInvalidSignature       = errors.New("invalid webhook signature")
	ErrMalformedEvent         = errors.New("malformed provider event")
	ErrUnauthorized           = errors.New("unauthorized")
)

// ProviderError is a failure reported by the payment provider. Transient
// failures (timeouts, 5xx) are retried; permanent ones reject the withdrawal
// with the provider's reason.
type ProviderError struct {
	Code      string
	Reason    string
	Transient bool
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %s: %s", e.Code, e.Reason)
}
