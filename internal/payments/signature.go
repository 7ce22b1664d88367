package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
)

var ErrInvalidSignature = errors.New("invalid signature")

// Sign returns hex(HMAC-SHA256(message, secret))
func Sign(message []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignPayment signs the "order_id|payment_id" pair the checkout returns
func SignPayment(orderID, paymentID, secret string) string {
	return Sign([]byte(orderID+"|"+paymentID), secret)
}

func VerifyPaymentSignature(orderID, paymentID, signature, secret string) bool {
	return equalHex(SignPayment(orderID, paymentID, secret), signature)
}

// VerifyWebhookSignature checks the signature header against the raw body
func VerifyWebhookSignature(body []byte, signature, secret string) bool {
	return equalHex(Sign(body, secret), signature)
}

func equalHex(expected, got string) bool {
	if got == "" {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(got))
}

// Webhook event names
const (
	WebhookPaymentCaptured = "payment.captured"
	WebhookOrderPaid       = "order.paid"
	WebhookPaymentFailed   = "payment.failed"
)

// WebhookNotification is the part of a gateway callback the booking flow needs
type WebhookNotification struct {
	Event     string
	OrderID   string
	PaymentID string
	Reason    string
}

// Succeeded reports whether the event confirms payment
func (n *WebhookNotification) Succeeded() bool {
	return n.Event == WebhookPaymentCaptured || n.Event == WebhookOrderPaid
}

func (n *WebhookNotification) Failed() bool {
	return n.Event == WebhookPaymentFailed
}

type webhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID               string `json:"id"`
				OrderID          string `json:"order_id"`
				ErrorDescription string `json:"error_description"`
			} `json:"entity"`
		} `json:"payment"`
		Order struct {
			Entity struct {
				ID string `json:"id"`
			} `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

// ParseWebhook decodes a callback body. The order id falls back to the
// order entity for order.paid events.
func ParseWebhook(body []byte) (*WebhookNotification, error) {
	var env webhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}

	n := &WebhookNotification{
		Event:     env.Event,
		OrderID:   env.Payload.Payment.Entity.OrderID,
		PaymentID: env.Payload.Payment.Entity.ID,
		Reason:    env.Payload.Payment.Entity.ErrorDescription,
	}
	if n.OrderID == "" {
		n.OrderID = env.Payload.Order.Entity.ID
	}
	if n.Event == "" {
		return nil, errors.New("webhook event missing")
	}
	return n, nil
}
