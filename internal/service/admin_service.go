package service

import (
	"context"

	"payout/internal/domain"
	"payout/internal/port"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type adminService struct {
	withdrawals port.WithdrawalRepository
	ledger      port.LedgerRepository
	tx          port.TxManager
	initiator   *transferInitiator
	log         *logrus.Entry
}

func NewAdminService(
	withdrawals port.WithdrawalRepository,
	ledger port.LedgerRepository,
	tx port.TxManager,
	gateway port.PaymentGateway,
) port.AdminService {
	log := logrus.WithField("component", "admin_service")
	return &adminService{
		withdrawals: withdrawals,
		ledger:      ledger,
		tx:          tx,
		initiator: &transferInitiator{
			withdrawals: withdrawals,
			ledger:      ledger,
			tx:          tx,
			gateway:     gateway,
			log:         log,
		},
		log: log,
	}
}

func (s *adminService) ListWithdrawals(ctx context.Context, status domain.WithdrawalStatus, limit int) ([]domain.Withdrawal, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.withdrawals.ListByStatus(ctx, status, limit)
}

// Approve moves a pending request to processing and hands it to the payment
// provider. Once the transfer is initiated the request can only leave
// processing through a provider outcome.
func (s *adminService) Approve(ctx context.Context, id uuid.UUID) error {
	w, err := s.withdrawals.GetByID(ctx, id)
	if err != nil {
		return err
	}

	applied, err := s.withdrawals.Transition(ctx, id, domain.StatusPending, domain.StatusProcessing, domain.TransitionChange{})
	if err != nil {
		return err
	}
	if !applied {
		// Concurrent admin action already moved it; do not initiate a
		// second transfer from this path.
		return domain.ErrInvalidTransition
	}

	s.log.WithField("withdrawal_id", id).Info("withdrawal approved")
	return s.initiator.initiate(ctx, w)
}

// Reject is only allowed before transfer initiation; the hold returns to the
// account in the same transaction as the status change.
func (s *adminService) Reject(ctx context.Context, id uuid.UUID, reason string) error {
	w, err := s.withdrawals.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		applied, err := s.withdrawals.Transition(txCtx, id, domain.StatusPending, domain.StatusRejected, domain.TransitionChange{
			RejectionReason: &reason,
			Processed:       true,
		})
		if err != nil {
			return err
		}
		if !applied {
			return domain.ErrInvalidTransition
		}
		return s.ledger.ReleaseHold(txCtx, w.HoldID)
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"withdrawal_id": id,
		"reason":        reason,
	}).Info("withdrawal rejected by admin")
	return nil
}
