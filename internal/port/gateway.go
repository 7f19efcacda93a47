package port

import (
	"context"

	"payout/internal/domain"
)

// PaymentGateway is the outbound interface to the payment provider plus the
// inbound webhook verifier.
type PaymentGateway interface {
	// InitiateTransfer submits an outbound transfer. The withdrawal id is
	// sent as the idempotency key, so retried initiations are safe.
	InitiateTransfer(ctx context.Context, req *domain.TransferRequest) (string, error)

	// TransferStatus returns the provider-side state of a transfer and,
	// for failed transfers, the provider's reason.
	TransferStatus(ctx context.Context, providerTransferID string) (domain.TransferState, string, error)

	// VerifyAndParse checks the webhook signature over the raw payload and
	// decodes the event. Payloads failing verification must never reach
	// the reconciliation engine.
	VerifyAndParse(payload []byte, signature string) (*domain.ProviderEvent, error)
}
