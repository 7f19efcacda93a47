package paystream

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"payout/internal/domain"

	"github.com/google/uuid"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw webhook body.
const SignatureHeader = "Paystream-Signature"

type webhookEnvelope struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	Data      struct {
		TransferID   string `json:"transfer_id"`
		WithdrawalID string `json:"reference"`
		Reason       string `json:"reason"`
	} `json:"data"`
}

// VerifyAndParse authenticates a raw webhook payload against the shared
// secret before decoding it. Verification failures return
// ErrInvalidSignature; verified but undecodable payloads return
// ErrMalformedEvent so the endpoint can acknowledge without retries.
func (c *Client) VerifyAndParse(payload []byte, signature string) (*domain.ProviderEvent, error) {
	if !c.verifySignature(payload, signature) {
		return nil, domain.ErrInvalidSignature
	}

	var env webhookEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedEvent, err)
	}
	if env.Type == "" || env.Data.WithdrawalID == "" {
		return nil, fmt.Errorf("%w: missing type or reference", domain.ErrMalformedEvent)
	}

	withdrawalID, err := uuid.Parse(env.Data.WithdrawalID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad reference: %v", domain.ErrMalformedEvent, err)
	}

	return &domain.ProviderEvent{
		ID:           env.ID,
		Type:         domain.EventType(env.Type),
		TransferID:   env.Data.TransferID,
		WithdrawalID: withdrawalID,
		Reason:       env.Data.Reason,
		OccurredAt:   env.CreatedAt,
	}, nil
}

func (c *Client) verifySignature(payload []byte, signature string) bool {
	if len(c.webhookSecret) == 0 || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, c.webhookSecret)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if len(signature) != len(expected) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(signature), []byte(expected)) == 1
}

// Sign computes the signature the provider would attach to payload. Exported
// for tests and local tooling.
func (c *Client) Sign(payload []byte) string {
	mac := hmac.New(sha256.New, c.webhookSecret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
