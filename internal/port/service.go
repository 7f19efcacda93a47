package port

import (
	"context"

	"payout/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WithdrawalService interface {
	CreateWithdrawal(ctx context.Context, req *domain.WithdrawalReq) (*domain.Withdrawal, error)
	GetWithdrawal(ctx context.Context, id uuid.UUID) (*domain.Withdrawal, error)
	ListUserWithdrawals(ctx context.Context, userID string) ([]domain.Withdrawal, error)
	CreditEarnings(ctx context.Context, userID, currency string, amount decimal.Decimal) error
	GetBalance(ctx context.Context, userID, currency string) (*domain.Balance, error)
}

type AdminService interface {
	ListWithdrawals(ctx context.Context, status domain.WithdrawalStatus, limit int) ([]domain.Withdrawal, error)
	Approve(ctx context.Context, id uuid.UUID) error
	Reject(ctx context.Context, id uuid.UUID, reason string) error
}

type ReconcileService interface {
	// ApplyEvent drives the withdrawal state machine from a verified
	// provider event. Unknown requests, terminal records and duplicate
	// deliveries are logged and discarded without error so the webhook
	// endpoint can always acknowledge.
	ApplyEvent(ctx context.Context, ev *domain.ProviderEvent) error

	// ReconcileStale polls the provider for withdrawals stuck in
	// processing past the configured window.
	ReconcileStale(ctx context.Context) error
}
