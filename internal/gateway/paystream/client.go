// Package paystream adapts the PayStream transfer API: outbound transfer
// initiation with bounded retries, status polling, and inbound webhook
// verification.
package paystream

import (
	"context"
	"fmt"
	"time"

	"payout/internal/config"
	"payout/internal/domain"
	"payout/internal/port"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
)

type Client struct {
	http          *resty.Client
	webhookSecret []byte
	maxAttempts   int

	// retryInterval overrides the initial backoff interval; tests shrink it.
	retryInterval time.Duration
}

var _ port.PaymentGateway = (*Client)(nil)

func NewClient(cfg config.ProviderConfig) *Client {
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Accept", "application/json")

	return &Client{
		http:          http,
		webhookSecret: []byte(cfg.WebhookSecret),
		maxAttempts:   cfg.MaxAttempts,
	}
}

type transferResponse struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	FailureCode  string `json:"failure_code"`
	FailureMsg   string `json:"failure_message"`
	WithdrawalID string `json:"reference"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *Client) InitiateTransfer(ctx context.Context, req *domain.TransferRequest) (string, error) {
	body := map[string]string{
		"amount":      req.Amount.String(),
		"currency":    req.Currency,
		"method":      req.Method,
		"destination": req.Destination,
		"reference":   req.WithdrawalID.String(),
	}

	var providerID string
	op := func() error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetHeader("Idempotency-Key", req.WithdrawalID.String()).
			SetBody(body).
			SetResult(&transferResponse{}).
			SetError(&apiError{}).
			Post("/v1/transfers")
		if err != nil {
			return &domain.ProviderError{Code: "network", Reason: err.Error(), Transient: true}
		}
		if resp.IsError() {
			perr := &domain.ProviderError{
				Code:      fmt.Sprintf("http_%d", resp.StatusCode()),
				Reason:    resp.Status(),
				Transient: resp.StatusCode() >= 500,
			}
			if apiErr, ok := resp.Error().(*apiError); ok && apiErr.Code != "" {
				perr.Code = apiErr.Code
				perr.Reason = apiErr.Message
			}
			if !perr.Transient {
				return backoff.Permanent(perr)
			}
			return perr
		}
		providerID = resp.Result().(*transferResponse).ID
		return nil
	}

	exp := backoff.NewExponentialBackOff()
	if c.retryInterval > 0 {
		exp.InitialInterval = c.retryInterval
	}
	bo := backoff.WithContext(
		backoff.WithMaxRetries(exp, uint64(c.maxAttempts-1)),
		ctx,
	)
	if err := backoff.Retry(op, bo); err != nil {
		return "", err
	}
	return providerID, nil
}

func (c *Client) TransferStatus(ctx context.Context, providerTransferID string) (domain.TransferState, string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&transferResponse{}).
		SetError(&apiError{}).
		Get("/v1/transfers/" + providerTransferID)
	if err != nil {
		return "", "", &domain.ProviderError{Code: "network", Reason: err.Error(), Transient: true}
	}
	if resp.IsError() {
		perr := &domain.ProviderError{
			Code:      fmt.Sprintf("http_%d", resp.StatusCode()),
			Reason:    resp.Status(),
			Transient: resp.StatusCode() >= 500,
		}
		if apiErr, ok := resp.Error().(*apiError); ok && apiErr.Code != "" {
			perr.Code = apiErr.Code
			perr.Reason = apiErr.Message
		}
		return "", "", perr
	}

	tr := resp.Result().(*transferResponse)
	switch tr.Status {
	case "succeeded":
		return domain.TransferSucceeded, "", nil
	case "failed":
		reason := tr.FailureMsg
		if reason == "" {
			reason = tr.FailureCode
		}
		return domain.TransferFailed, reason, nil
	default:
		return domain.TransferPending, "", nil
	}
}
