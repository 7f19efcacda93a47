package paystream

import (
	"fmt"
	"testing"

	"payout/internal/config"
	"payout/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func webhookClient() *Client {
	return NewClient(config.ProviderConfig{WebhookSecret: "whsec_test"})
}

func eventPayload(eventType string, withdrawalID uuid.UUID) []byte {
	return []byte(fmt.Sprintf(
		`{"id":"evt_1","type":%q,"created_at":"2026-08-01T12:00:00Z","data":{"transfer_id":"tr_123","reference":%q,"reason":"card expired"}}`,
		eventType, withdrawalID,
	))
}

func TestVerifyAndParse_ValidSignature(t *testing.T) {
	client := webhookClient()
	withdrawalID := uuid.New()
	payload := eventPayload("transfer.succeeded", withdrawalID)

	ev, err := client.VerifyAndParse(payload, client.Sign(payload))

	require.NoError(t, err)
	assert.Equal(t, "evt_1", ev.ID)
	assert.Equal(t, domain.EventTransferSucceeded, ev.Type)
	assert.Equal(t, "tr_123", ev.TransferID)
	assert.Equal(t, withdrawalID, ev.WithdrawalID)
	assert.Equal(t, "card expired", ev.Reason)
}

func TestVerifyAndParse_TamperedPayload(t *testing.T) {
	client := webhookClient()
	payload := eventPayload("transfer.succeeded", uuid.New())
	signature := client.Sign(payload)

	tampered := eventPayload("transfer.failed", uuid.New())
	_, err := client.VerifyAndParse(tampered, signature)

	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestVerifyAndParse_MissingSignature(t *testing.T) {
	client := webhookClient()
	payload := eventPayload("transfer.succeeded", uuid.New())

	_, err := client.VerifyAndParse(payload, "")

	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestVerifyAndParse_MalformedButSigned(t *testing.T) {
	client := webhookClient()

	for _, payload := range [][]byte{
		[]byte(`not json`),
		[]byte(`{"type":"transfer.succeeded","data":{}}`),
		[]byte(`{"type":"transfer.succeeded","data":{"reference":"not-a-uuid"}}`),
	} {
		_, err := client.VerifyAndParse(payload, client.Sign(payload))
		assert.ErrorIs(t, err, domain.ErrMalformedEvent)
	}
}
