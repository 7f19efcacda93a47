package postgresql

import (
	"context"
	"database/sql"
	"time"

	"payout/internal/domain"
	"payout/internal/port"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	uniqueConstraint pq.ErrorCode = "23505"
)

const withdrawalColumns = `id, user_id, amount, currency, method, destination, hold_id, idempotency_key,
	status, rejection_reason, provider_transfer_id, created_at, updated_at, processed_at`

type withdrawalRepository struct {
	db *sql.DB
}

func NewWithdrawalRepository(db *sql.DB) port.WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

func (r *withdrawalRepository) Create(ctx context.Context, w *domain.Withdrawal) error {
	const query = `INSERT INTO withdrawals (` + withdrawalColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := pick(ctx, r.db).ExecContext(ctx, query,
		w.ID, w.UserID, w.Amount, w.Currency, w.Method, w.Destination, w.HoldID, w.IdempotencyKey,
		w.Status, w.RejectionReason, w.ProviderTransferID, w.CreatedAt, w.UpdatedAt, w.ProcessedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueConstraint {
			if pqErr.Constraint == "withdrawals_idempotency_key_key" {
				return domain.ErrDuplicateRequest
			}
		}
		return err
	}

	return nil
}

func scanWithdrawal(row interface{ Scan(...any) error }) (*domain.Withdrawal, error) {
	var w domain.Withdrawal
	err := row.Scan(
		&w.ID, &w.UserID, &w.Amount, &w.Currency, &w.Method, &w.Destination, &w.HoldID, &w.IdempotencyKey,
		&w.Status, &w.RejectionReason, &w.ProviderTransferID, &w.CreatedAt, &w.UpdatedAt, &w.ProcessedAt,
	)
	return &w, err
}

func (r *withdrawalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Withdrawal, error) {
	const query = `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE id = $1`

	w, err := scanWithdrawal(pick(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrWithdrawalNotFound
	}
	return w, err
}

func (r *withdrawalRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Withdrawal, error) {
	const query = `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE idempotency_key = $1`

	w, err := scanWithdrawal(pick(ctx, r.db).QueryRowContext(ctx, query, key))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return w, err
}

func (r *withdrawalRepository) list(ctx context.Context, query string, args ...any) ([]domain.Withdrawal, error) {
	rows, err := pick(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Withdrawal
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

func (r *withdrawalRepository) ListByStatus(ctx context.Context, status domain.WithdrawalStatus, limit int) ([]domain.Withdrawal, error) {
	const query = `SELECT ` + withdrawalColumns + ` FROM withdrawals
	WHERE status = $1 ORDER BY created_at ASC LIMIT $2`
	return r.list(ctx, query, status, limit)
}

func (r *withdrawalRepository) ListByUser(ctx context.Context, userID string) ([]domain.Withdrawal, error) {
	const query = `SELECT ` + withdrawalColumns + ` FROM withdrawals
	WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *withdrawalRepository) ListProcessingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.Withdrawal, error) {
	const query = `SELECT ` + withdrawalColumns + ` FROM withdrawals
	WHERE status = 'processing' AND updated_at < $1 ORDER BY updated_at ASC`
	return r.list(ctx, query, cutoff)
}

func (r *withdrawalRepository) Transition(ctx context.Context, id uuid.UUID, from, to domain.WithdrawalStatus, change domain.TransitionChange) (bool, error) {
	const query = `UPDATE withdrawals SET
		status = $1,
		rejection_reason = COALESCE($2, rejection_reason),
		provider_transfer_id = COALESCE($3, provider_transfer_id),
		processed_at = CASE WHEN $4 THEN now() ELSE processed_at END,
		updated_at = now()
	WHERE id = $5 AND status = $6`

	result, err := pick(ctx, r.db).ExecContext(ctx, query,
		to, change.RejectionReason, change.ProviderTransferID, change.Processed, id, from,
	)
	if err != nil {
		return false, err
	}

	rows, _ := result.RowsAffected()
	if rows == 1 {
		return true, nil
	}

	// The guard did not match: distinguish a harmless duplicate from a
	// real race or caller bug.
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if current.Status == to || current.Status.Terminal() {
		return false, nil
	}
	return false, domain.ErrInvalidTransition
}

func (r *withdrawalRepository) AttachProviderTransfer(ctx context.Context, id uuid.UUID, providerTransferID string) error {
	const query = `UPDATE withdrawals SET provider_transfer_id = $1, updated_at = now() WHERE id = $2`

	result, err := pick(ctx, r.db).ExecContext(ctx, query, providerTransferID, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrWithdrawalNotFound
	}
	return nil
}
