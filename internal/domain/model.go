package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WithdrawalStatus string

const (
	StatusPending    WithdrawalStatus = "pending"
	StatusProcessing WithdrawalStatus = "processing"
	StatusCompleted  WithdrawalStatus = "completed"
	StatusRejected   WithdrawalStatus = "rejected"
)

// Terminal reports whether no further transition is allowed from s.
func (s WithdrawalStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

type WithdrawalReq struct {
	UserID         string          `json:"user_id" validate:"required"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency" validate:"required"`
	Method         string          `json:"method" validate:"required"`
	Destination    string          `json:"destination" validate:"required"`
	IdempotencyKey string          `json:"idempotency_key" validate:"required"`
}

type Withdrawal struct {
	ID                 uuid.UUID        `json:"id"`
	UserID             string           `json:"user_id"`
	Amount             decimal.Decimal  `json:"amount"`
	Currency           string           `json:"currency"`
	Method             string           `json:"method"`
	Destination        string           `json:"destination"`
	HoldID             uuid.UUID        `json:"-"`
	IdempotencyKey     string           `json:"-"`
	Status             WithdrawalStatus `json:"status"`
	RejectionReason    *string          `json:"rejection_reason,omitempty"`
	ProviderTransferID *string          `json:"-"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"-"`
	ProcessedAt        *time.Time       `json:"processed_at,omitempty"`
}

// SamePayload reports whether a retried request carries the same payload as
// the stored withdrawal it collided with on idempotency key.
func (w *Withdrawal) SamePayload(req *WithdrawalReq) bool {
	return w.UserID == req.UserID &&
		w.Amount.Equal(req.Amount) &&
		w.Currency == req.Currency &&
		w.Destination == req.Destination
}

// TransitionChange carries the optional fields recorded alongside a status
// transition.
type TransitionChange struct {
	RejectionReason    *string
	ProviderTransferID *string
	Processed          bool
}

type Balance struct {
	UserID    string          `json:"user_id"`
	Currency  string          `json:"currency"`
	Available decimal.Decimal `json:"available"`
	Held      decimal.Decimal `json:"held"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type HoldStatus string

const (
	HoldActive   HoldStatus = "active"
	HoldReleased HoldStatus = "released"
	HoldSettled  HoldStatus = "settled"
)

// Hold is a reservation against available balance while a withdrawal is in
// flight. Releasing returns the amount to available; settling consumes it.
type Hold struct {
	ID        uuid.UUID
	UserID    string
	Currency  string
	Amount    decimal.Decimal
	Status    HoldStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

type TransferRequest struct {
	WithdrawalID uuid.UUID
	Amount       decimal.Decimal
	Currency     string
	Method       string
	Destination  string
}
