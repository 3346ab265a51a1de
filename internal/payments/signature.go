package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignBody computes the hex-encoded HMAC-SHA256 of a raw webhook body with
// the shared secret. Exposed so tests and tooling can produce valid
// signatures.
func SignBody(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a header-supplied signature against the raw body.
// Comparison is constant-time.
func VerifySignature(body []byte, signature, secret string) bool {
	if signature == "" {
		return false
	}
	expected := SignBody(body, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// WebhookEvent is the provider's push notification. ExternalID echoes the
// booking reference we passed at payment creation.
type WebhookEvent struct {
	PaymentID  string    `json:"paymentId"`
	ExternalID string    `json:"externalId"`
	Status     string    `json:"status"`
	Amount     apiAmount `json:"amount"`
}

// AmountCents parses the event amount into integer cents.
func (e *WebhookEvent) AmountCents() (int64, error) {
	return ValueToCents(e.Amount.Value)
}
