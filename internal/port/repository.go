package port

import (
	"context"
	"time"

	"payout/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WithdrawalRepository interface {
	Create(ctx context.Context, w *domain.Withdrawal) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Withdrawal, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Withdrawal, error)
	ListByStatus(ctx context.Context, status domain.WithdrawalStatus, limit int) ([]domain.Withdrawal, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Withdrawal, error)
	ListProcessingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.Withdrawal, error)

	// Transition applies a compare-and-swap status update. It returns
	// (true, nil) when the transition was applied, (false, nil) when the
	// record already reached the target or a terminal status (duplicate
	// deliveries are harmless no-ops), and ErrInvalidTransition otherwise.
	Transition(ctx context.Context, id uuid.UUID, from, to domain.WithdrawalStatus, change domain.TransitionChange) (bool, error)

	AttachProviderTransfer(ctx context.Context, id uuid.UUID, providerTransferID string) error
}

// LedgerRepository is the sole mutator of account balances. Hold operations
// are idempotent on already-resolved holds.
type LedgerRepository interface {
	GetBalance(ctx context.Context, userID, currency string) (*domain.Balance, error)
	Credit(ctx context.Context, userID, currency string, amount decimal.Decimal) error
	PlaceHold(ctx context.Context, userID, currency string, amount decimal.Decimal) (*domain.Hold, error)
	ReleaseHold(ctx context.Context, holdID uuid.UUID) error
	SettleHold(ctx context.Context, holdID uuid.UUID) error
}

// TxManager runs fn inside a database transaction carried through the
// context; nested calls join the outer transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
