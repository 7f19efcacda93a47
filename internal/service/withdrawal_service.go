package service

import (
	"context"
	"errors"
	"time"

	"payout/internal/domain"
	"payout/internal/port"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type withdrawalService struct {
	withdrawals port.WithdrawalRepository
	ledger      port.LedgerRepository
	tx          port.TxManager
	log         *logrus.Entry
}

func NewWithdrawalService(
	withdrawals port.WithdrawalRepository,
	ledger port.LedgerRepository,
	tx port.TxManager,
) port.WithdrawalService {
	return &withdrawalService{
		withdrawals: withdrawals,
		ledger:      ledger,
		tx:          tx,
		log:         logrus.WithField("component", "withdrawal_service"),
	}
}

func (s *withdrawalService) CreateWithdrawal(ctx context.Context, req *domain.WithdrawalReq) (*domain.Withdrawal, error) {
	if !req.Amount.IsPositive() {
		return nil, domain.ErrInsufficientFunds
	}

	existing, err := s.withdrawals.GetByIdempotencyKey(ctx, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if !existing.SamePayload(req) {
			return nil, domain.ErrIdempotencyKeyMismatch
		}
		return existing, nil
	}

	var withdrawal *domain.Withdrawal
	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		hold, err := s.ledger.PlaceHold(txCtx, req.UserID, req.Currency, req.Amount)
		if err != nil {
			return err
		}

		withdrawal = &domain.Withdrawal{
			ID:             uuid.New(),
			UserID:         req.UserID,
			Amount:         req.Amount,
			Currency:       req.Currency,
			Method:         req.Method,
			Destination:    req.Destination,
			HoldID:         hold.ID,
			IdempotencyKey: req.IdempotencyKey,
			Status:         domain.StatusPending,
			CreatedAt:      time.Now(),
			UpdatedAt:      time.Now(),
		}
		return s.withdrawals.Create(txCtx, withdrawal)
	})

	if errors.Is(err, domain.ErrDuplicateRequest) {
		// Lost a race on the same key; the transaction rolled the hold
		// back, so return whatever the winner stored.
		stored, gerr := s.withdrawals.GetByIdempotencyKey(ctx, req.IdempotencyKey)
		if gerr != nil || stored == nil {
			return nil, err
		}
		if !stored.SamePayload(req) {
			return nil, domain.ErrIdempotencyKeyMismatch
		}
		return stored, nil
	}
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"withdrawal_id": withdrawal.ID,
		"user_id":       withdrawal.UserID,
		"amount":        withdrawal.Amount.String(),
		"currency":      withdrawal.Currency,
	}).Info("withdrawal request created")

	return withdrawal, nil
}

func (s *withdrawalService) GetWithdrawal(ctx context.Context, id uuid.UUID) (*domain.Withdrawal, error) {
	return s.withdrawals.GetByID(ctx, id)
}

func (s *withdrawalService) ListUserWithdrawals(ctx context.Context, userID string) ([]domain.Withdrawal, error) {
	return s.withdrawals.ListByUser(ctx, userID)
}

func (s *withdrawalService) CreditEarnings(ctx context.Context, userID, currency string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errors.New("credit amount must be positive")
	}
	return s.ledger.Credit(ctx, userID, currency, amount)
}

func (s *withdrawalService) GetBalance(ctx context.Context, userID, currency string) (*domain.Balance, error) {
	return s.ledger.GetBalance(ctx, userID, currency)
}
