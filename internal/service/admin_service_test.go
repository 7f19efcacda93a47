package service

import (
	"context"
	"testing"

	"payout/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func pendingWithdrawal() *domain.Withdrawal {
	return &domain.Withdrawal{
		ID:          uuid.New(),
		UserID:      "user-123",
		Amount:      decimal.NewFromInt(4000),
		Currency:    "USD",
		Method:      "card",
		Destination: "4242",
		HoldID:      uuid.New(),
		Status:      domain.StatusPending,
	}
}

func TestApprove_Success(t *testing.T) {
	withdrawalRepo := new(MockWithdrawalRepository)
	ledgerRepo := new(MockLedgerRepository)
	gateway := new(MockPaymentGateway)
	svc := NewAdminService(withdrawalRepo, ledgerRepo, fakeTxManager{}, gateway)

	w := pendingWithdrawal()

	withdrawalRepo.On("GetByID", mock.Anything, w.ID).Return(w, nil)
	withdrawalRepo.On("Transition", mock.Anything, w.ID, domain.StatusPending, domain.StatusProcessing, domain.TransitionChange{}).
		Return(true, nil)
	gateway.On("InitiateTransfer", mock.Anything, mock.MatchedBy(func(req *domain.TransferRequest) bool {
		return req.WithdrawalID == w.ID && req.Amount.Equal(w.Amount)
	})).Return("tr_123", nil)
	withdrawalRepo.On("AttachProviderTransfer", mock.Anything, w.ID, "tr_123").Return(nil)

	err := svc.Approve(context.Background(), w.ID)

	assert.NoError(t, err)
	ledgerRepo.AssertNotCalled(t, "ReleaseHold", mock.Anything, mock.Anything)

	withdrawalRepo.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestApprove_NotPending(t *testing.T) {
	withdrawalRepo := new(MockWithdrawalRepository)
	ledgerRepo := new(MockLedgerRepository)
	gateway := new(MockPaymentGateway)
	svc := NewAdminService(withdrawalRepo, ledgerRepo, fakeTxManager{}, gateway)

	w := pendingWithdrawal()
	w.Status = domain.StatusProcessing

	withdrawalRepo.On("GetByID", mock.Anything, w.ID).Return(w, nil)
	withdrawalRepo.On("Transition", mock.Anything, w.ID, domain.StatusPending, domain.StatusProcessing, domain.TransitionChange{}).
		Return(false, nil)

	err := svc.Approve(context.Background(), w.ID)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	gateway.AssertNotCalled(t, "InitiateTransfer", mock.Anything, mock.Anything)
}

func TestApprove_PermanentProviderErrorRejects(t *testing.T) {
	withdrawalRepo := new(MockWithdrawalRepository)
	ledgerRepo := new(MockLedgerRepository)
	gateway := new(MockPaymentGateway)
	svc := NewAdminService(withdrawalRepo, ledgerRepo, fakeTxManager{}, gateway)

	w := pendingWithdrawal()
	perr := &domain.ProviderError{Code: "invalid_destination", Reason: "unknown card", Transient: false}

	withdrawalRepo.On("GetByID", mock.Anything, w.ID).Return(w, nil)
	withdrawalRepo.On("Transition", mock.Anything, w.ID, domain.StatusPending, domain.StatusProcessing, domain.TransitionChange{}).
		Return(true, nil)
	gateway.On("InitiateTransfer", mock.Anything, mock.Anything).Return("", perr)
	withdrawalRepo.On("Transition", mock.Anything, w.ID, domain.StatusProcessing, domain.StatusRejected,
		mock.MatchedBy(func(change domain.TransitionChange) bool {
			return change.RejectionReason != nil && *change.RejectionReason == "unknown card" && change.Processed
		})).Return(true, nil)
	ledgerRepo.On("ReleaseHold", mock.Anything, w.HoldID).Return(nil)

	err := svc.Approve(context.Background(), w.ID)

	assert.ErrorIs(t, err, error(perr))
	withdrawalRepo.AssertExpectations(t)
	ledgerRepo.AssertExpectations(t)
}

func TestApprove_TransientExhaustionKeepsProcessing(t *testing.T) {
	withdrawalRepo := new(MockWithdrawalRepository)
	ledgerRepo := new(MockLedgerRepository)
	gateway := new(MockPaymentGateway)
	svc := NewAdminService(withdrawalRepo, ledgerRepo, fakeTxManager{}, gateway)

	w := pendingWithdrawal()
	perr := &domain.ProviderError{Code: "http_503", Reason: "service unavailable", Transient: true}

	withdrawalRepo.On("GetByID", mock.Anything, w.ID).Return(w, nil)
	withdrawalRepo.On("Transition", mock.Anything, w.ID, domain.StatusPending, domain.StatusProcessing, domain.TransitionChange{}).
		Return(true, nil)
	gateway.On("InitiateTransfer", mock.Anything, mock.Anything).Return("", perr)

	err := svc.Approve(context.Background(), w.ID)

	assert.Error(t, err)
	// The request stays processing and the hold stays in place for the
	// reconciler to pick up.
	ledgerRepo.AssertNotCalled(t, "ReleaseHold", mock.Anything, mock.Anything)
	withdrawalRepo.AssertNotCalled(t, "Transition", mock.Anything, w.ID, domain.StatusProcessing, domain.StatusRejected, mock.Anything)
}

func TestReject_Success(t *testing.T) {
	withdrawalRepo := new(MockWithdrawalRepository)
	ledgerRepo := new(MockLedgerRepository)
	gateway := new(MockPaymentGateway)
	svc := NewAdminService(withdrawalRepo, ledgerRepo, fakeTxManager{}, gateway)

	w := pendingWithdrawal()

	withdrawalRepo.On("GetByID", mock.Anything, w.ID).Return(w, nil)
	withdrawalRepo.On("Transition", mock.Anything, w.ID, domain.StatusPending, domain.StatusRejected,
		mock.MatchedBy(func(change domain.TransitionChange) bool {
			return change.RejectionReason != nil && *change.RejectionReason == "suspicious activity"
		})).Return(true, nil)
	ledgerRepo.On("ReleaseHold", mock.Anything, w.HoldID).Return(nil)

	err := svc.Reject(context.Background(), w.ID, "suspicious activity")

	assert.NoError(t, err)
	withdrawalRepo.AssertExpectations(t)
	ledgerRepo.AssertExpectations(t)
}

func TestReject_NotPending(t *testing.T) {
	withdrawalRepo := new(MockWithdrawalRepository)
	ledgerRepo := new(MockLedgerRepository)
	gateway := new(MockPaymentGateway)
	svc := NewAdminService(withdrawalRepo, ledgerRepo, fakeTxManager{}, gateway)

	w := pendingWithdrawal()
	w.Status = domain.StatusProcessing

	withdrawalRepo.On("GetByID", mock.Anything, w.ID).Return(w, nil)
	withdrawalRepo.On("Transition", mock.Anything, w.ID, domain.StatusPending, domain.StatusRejected, mock.Anything).
		Return(false, domain.ErrInvalidTransition)

	err := svc.Reject(context.Background(), w.ID, "too late")

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	ledgerRepo.AssertNotCalled(t, "ReleaseHold", mock.Anything, mock.Anything)
}
