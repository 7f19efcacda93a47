package service

import (
	"context"
	"errors"

	"payout/internal/domain"
	"payout/internal/port"

	"github.com/sirupsen/logrus"
)

// transferInitiator submits a processing withdrawal to the payment provider.
// Shared between the admin approve path and the stale-request poller; the
// withdrawal id doubles as the provider idempotency key, so calling it again
// for the same request cannot double-pay.
type transferInitiator struct {
	withdrawals port.WithdrawalRepository
	ledger      port.LedgerRepository
	tx          port.TxManager
	gateway     port.PaymentGateway
	log         *logrus.Entry
}

// initiate runs the outbound transfer for a withdrawal already in
// processing. Permanent provider errors reject the request and release its
// hold; transient exhaustion leaves it in processing for the poller.
func (t *transferInitiator) initiate(ctx context.Context, w *domain.Withdrawal) error {
	providerID, err := t.gateway.InitiateTransfer(ctx, &domain.TransferRequest{
		WithdrawalID: w.ID,
		Amount:       w.Amount,
		Currency:     w.Currency,
		Method:       w.Method,
		Destination:  w.Destination,
	})
	if err != nil {
		var perr *domain.ProviderError
		if errors.As(err, &perr) && !perr.Transient {
			if rejErr := t.rejectPermanent(ctx, w, perr); rejErr != nil {
				return rejErr
			}
			return err
		}
		t.log.WithFields(logrus.Fields{
			"withdrawal_id": w.ID,
		}).WithError(err).Warn("transfer initiation exhausted retries, leaving for reconciler")
		return err
	}

	if err := t.withdrawals.AttachProviderTransfer(ctx, w.ID, providerID); err != nil {
		return err
	}

	t.log.WithFields(logrus.Fields{
		"withdrawal_id":        w.ID,
		"provider_transfer_id": providerID,
	}).Info("transfer initiated")
	return nil
}

func (t *transferInitiator) rejectPermanent(ctx context.Context, w *domain.Withdrawal, perr *domain.ProviderError) error {
	reason := perr.Reason

	err := t.tx.WithinTx(ctx, func(txCtx context.Context) error {
		applied, err := t.withdrawals.Transition(txCtx, w.ID, domain.StatusProcessing, domain.StatusRejected, domain.TransitionChange{
			RejectionReason: &reason,
			Processed:       true,
		})
		if err != nil {
			return err
		}
		if !applied {
			return nil
		}
		return t.ledger.ReleaseHold(txCtx, w.HoldID)
	})
	if err != nil {
		return err
	}

	t.log.WithFields(logrus.Fields{
		"withdrawal_id": w.ID,
		"reason":        reason,
	}).Info("withdrawal rejected by provider")
	return nil
}
