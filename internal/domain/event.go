package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTransferSucceeded EventType = "transfer.succeeded"
	EventTransferFailed    EventType = "transfer.failed"
)

// ProviderEvent is a verified payment-provider notification about the outcome
// of an outbound transfer. Delivery is at-least-once and may be out of order;
// consumers must treat duplicates as no-ops.
type ProviderEvent struct {
	ID           string
	Type         EventType
	TransferID   string
	WithdrawalID uuid.UUID
	Reason       string
	OccurredAt   time.Time
}

// TransferState is the provider-side view of a transfer, used by the polling
// fallback when no webhook has arrived.
type TransferState string

const (
	TransferPending   TransferState = "pending"
	TransferSucceeded TransferState = "succeeded"
	TransferFailed    TransferState = "failed"
)
