package postgresql

import (
	"context"
	"database/sql"
	"time"

	"payout/internal/domain"
	"payout/internal/port"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ledgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) port.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) GetBalance(ctx context.Context, userID, currency string) (*domain.Balance, error) {
	var b domain.Balance
	const query = `SELECT user_id, currency, available, held, updated_at FROM balances WHERE user_id = $1 AND currency = $2`

	err := pick(ctx, r.db).QueryRowContext(ctx, query, userID, currency).Scan(
		&b.UserID, &b.Currency, &b.Available, &b.Held, &b.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return &domain.Balance{
			UserID:    userID,
			Currency:  currency,
			Available: decimal.Zero,
			Held:      decimal.Zero,
		}, nil
	}
	return &b, err
}

func (r *ledgerRepository) Credit(ctx context.Context, userID, currency string, amount decimal.Decimal) error {
	const query = `INSERT INTO balances (user_id, currency, available, held, updated_at)
	VALUES ($1, $2, $3, 0, now())
	ON CONFLICT (user_id, currency)
	DO UPDATE SET available = balances.available + EXCLUDED.available, updated_at = now()`

	_, err := pick(ctx, r.db).ExecContext(ctx, query, userID, currency, amount)
	return err
}

// PlaceHold moves amount from available to held and records the hold. The
// balance update is a single guarded statement, so a concurrent hold on the
// same account can never overdraw it.
func (r *ledgerRepository) PlaceHold(ctx context.Context, userID, currency string, amount decimal.Decimal) (*domain.Hold, error) {
	const query = `UPDATE balances SET available = available - $3, held = held + $3, updated_at = now()
	WHERE user_id = $1 AND currency = $2 AND available >= $3`

	q := pick(ctx, r.db)
	result, err := q.ExecContext(ctx, query, userID, currency, amount)
	if err != nil {
		return nil, err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, domain.ErrInsufficientFunds
	}

	hold := &domain.Hold{
		ID:        uuid.New(),
		UserID:    userID,
		Currency:  currency,
		Amount:    amount,
		Status:    domain.HoldActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	const insert = `INSERT INTO holds (id, user_id, currency, amount, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := q.ExecContext(ctx, insert, hold.ID, hold.UserID, hold.Currency, hold.Amount, hold.Status, hold.CreatedAt, hold.UpdatedAt); err != nil {
		return nil, err
	}

	return hold, nil
}

func (r *ledgerRepository) ReleaseHold(ctx context.Context, holdID uuid.UUID) error {
	return r.resolveHold(ctx, holdID, domain.HoldReleased)
}

func (r *ledgerRepository) SettleHold(ctx context.Context, holdID uuid.UUID) error {
	return r.resolveHold(ctx, holdID, domain.HoldSettled)
}

// resolveHold flips an active hold to its terminal status and adjusts the
// balance: released amounts return to available, settled amounts leave the
// account for good. Resolving an already-resolved hold is a no-op.
func (r *ledgerRepository) resolveHold(ctx context.Context, holdID uuid.UUID, to domain.HoldStatus) error {
	const flip = `UPDATE holds SET status = $2, updated_at = now()
	WHERE id = $1 AND status = 'active'
	RETURNING user_id, currency, amount`

	q := pick(ctx, r.db)

	var (
		userID   string
		currency string
		amount   decimal.Decimal
	)
	err := q.QueryRowContext(ctx, flip, holdID, to).Scan(&userID, &currency, &amount)
	if err == sql.ErrNoRows {
		var status domain.HoldStatus
		err := q.QueryRowContext(ctx, `SELECT status FROM holds WHERE id = $1`, holdID).Scan(&status)
		if err == sql.ErrNoRows {
			return domain.ErrHoldNotFound
		}
		if err != nil {
			return err
		}
		// Already released or settled; duplicate resolution is harmless.
		return nil
	}
	if err != nil {
		return err
	}

	var update string
	if to == domain.HoldReleased {
		update = `UPDATE balances SET held = held - $3, available = available + $3, updated_at = now()
		WHERE user_id = $1 AND currency = $2`
	} else {
		update = `UPDATE balances SET held = held - $3, updated_at = now()
		WHERE user_id = $1 AND currency = $2`
	}

	_, err = q.ExecContext(ctx, update, userID, currency, amount)
	return err
}
