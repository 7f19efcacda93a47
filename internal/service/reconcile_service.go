package service

import (
	"context"
	"errors"
	"time"

	"payout/internal/domain"
	"payout/internal/port"

	"github.com/sirupsen/logrus"
)

type reconcileService struct {
	withdrawals port.WithdrawalRepository
	ledger      port.LedgerRepository
	tx          port.TxManager
	gateway     port.PaymentGateway
	initiator   *transferInitiator
	staleAfter  time.Duration
	log         *logrus.Entry
}

func NewReconcileService(
	withdrawals port.WithdrawalRepository,
	ledger port.LedgerRepository,
	tx port.TxManager,
	gateway port.PaymentGateway,
	staleAfter time.Duration,
) port.ReconcileService {
	log := logrus.WithField("component", "reconcile_service")
	return &reconcileService{
		withdrawals: withdrawals,
		ledger:      ledger,
		tx:          tx,
		gateway:     gateway,
		initiator: &transferInitiator{
			withdrawals: withdrawals,
			ledger:      ledger,
			tx:          tx,
			gateway:     gateway,
			log:         log,
		},
		staleAfter: staleAfter,
		log:        log,
	}
}

func (s *reconcileService) ApplyEvent(ctx context.Context, ev *domain.ProviderEvent) error {
	log := s.log.WithFields(logrus.Fields{
		"event_id":      ev.ID,
		"event_type":    ev.Type,
		"withdrawal_id": ev.WithdrawalID,
	})

	var target domain.WithdrawalStatus
	switch ev.Type {
	case domain.EventTransferSucceeded:
		target = domain.StatusCompleted
	case domain.EventTransferFailed:
		target = domain.StatusRejected
	default:
		log.Info("discarding event of unrecognized type")
		return nil
	}

	w, err := s.withdrawals.GetByID(ctx, ev.WithdrawalID)
	if errors.Is(err, domain.ErrWithdrawalNotFound) {
		log.Warn("discarding event for unknown withdrawal")
		return nil
	}
	if err != nil {
		return err
	}
	if w.Status.Terminal() {
		log.Info("discarding event for settled withdrawal")
		return nil
	}

	change := domain.TransitionChange{Processed: true}
	if target == domain.StatusRejected {
		reason := ev.Reason
		if reason == "" {
			reason = "transfer failed"
		}
		change.RejectionReason = &reason
	}
	if ev.TransferID != "" {
		change.ProviderTransferID = &ev.TransferID
	}

	// The status transition and the hold resolution commit together, so a
	// crash between them cannot orphan the hold.
	return s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		applied, err := s.withdrawals.Transition(txCtx, w.ID, domain.StatusProcessing, target, change)
		if errors.Is(err, domain.ErrInvalidTransition) {
			log.WithField("status", w.Status).Warn("event does not match withdrawal state, discarding")
			return nil
		}
		if err != nil {
			return err
		}
		if !applied {
			log.Info("duplicate event, already applied")
			return nil
		}

		if target == domain.StatusCompleted {
			err = s.ledger.SettleHold(txCtx, w.HoldID)
		} else {
			err = s.ledger.ReleaseHold(txCtx, w.HoldID)
		}
		if err != nil {
			return err
		}

		log.Info("withdrawal reconciled")
		return nil
	})
}

// ReconcileStale is the webhook fallback: requests stuck in processing past
// the window are checked against the provider's status API, and requests
// whose initiation never went out are re-initiated under the same
// idempotency key.
func (s *reconcileService) ReconcileStale(ctx context.Context) error {
	stale, err := s.withdrawals.ListProcessingOlderThan(ctx, time.Now().Add(-s.staleAfter))
	if err != nil {
		return err
	}

	for i := range stale {
		w := &stale[i]
		if err := s.reconcileOne(ctx, w); err != nil {
			s.log.WithField("withdrawal_id", w.ID).WithError(err).Warn("failed to reconcile stale withdrawal")
		}
	}
	return nil
}

func (s *reconcileService) reconcileOne(ctx context.Context, w *domain.Withdrawal) error {
	if w.ProviderTransferID == nil {
		return s.initiator.initiate(ctx, w)
	}

	state, reason, err := s.gateway.TransferStatus(ctx, *w.ProviderTransferID)
	if err != nil {
		return err
	}

	switch state {
	case domain.TransferSucceeded:
		return s.ApplyEvent(ctx, &domain.ProviderEvent{
			Type:         domain.EventTransferSucceeded,
			TransferID:   *w.ProviderTransferID,
			WithdrawalID: w.ID,
		})
	case domain.TransferFailed:
		return s.ApplyEvent(ctx, &domain.ProviderEvent{
			Type:         domain.EventTransferFailed,
			TransferID:   *w.ProviderTransferID,
			WithdrawalID: w.ID,
			Reason:       reason,
		})
	default:
		return nil
	}
}
