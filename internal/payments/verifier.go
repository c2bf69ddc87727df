// Package payments verifies inbound payment-processor webhooks and maps them
// to a processor-agnostic Event so the rest of the service never touches
// Stripe types directly.
package payments

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
)

// EventChargeSucceeded es el único tipo de evento que dispara una entrega.
const EventChargeSucceeded = "charge.succeeded"

var (
	// ErrInvalidPayload indica un body malformado o no parseable.
	ErrInvalidPayload = errors.New("invalid payload")
	// ErrSignatureMismatch indica que la firma no coincide con el body.
	ErrSignatureMismatch = errors.New("invalid signature")
)

// Event es el evento de pago ya verificado y tipado.
type Event struct {
	Type   string
	ID     string
	Status string
	// PayerEmail viene de receipt_email, con fallback a billing_details.email.
	// Vacío si el charge no trae ninguno.
	PayerEmail string
}

// Verifier valida y parsea un payload de webhook.
type Verifier interface {
	Verify(payload []byte, sigHeader string) (Event, error)
}

// StripeVerifier implementa Verifier delegando en la rutina de verificación
// publicada por Stripe (webhook.ConstructEvent). La construcción HMAC nunca
// se reimplementa acá.
type StripeVerifier struct {
	secret string
}

func NewStripeVerifier(webhookSecret string) *StripeVerifier {
	return &StripeVerifier{secret: webhookSecret}
}

func (v *StripeVerifier) Verify(payload []byte, sigHeader string) (Event, error) {
	// Cada cuenta fija su propia versión de API de Stripe; la verificación
	// de firma no depende de eso, así que no rechazamos por mismatch.
	ev, err := webhook.ConstructEventWithOptions(payload, sigHeader, v.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		if isSignatureErr(err) {
			return Event{}, fmt.Errorf("%w: %v", ErrSignatureMismatch, err)
		}
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	out := Event{Type: string(ev.Type)}
	if out.Type != EventChargeSucceeded {
		return out, nil
	}
	if ev.Data == nil {
		return Event{}, fmt.Errorf("%w: event has no data object", ErrInvalidPayload)
	}

	var ch stripe.Charge
	if err := json.Unmarshal(ev.Data.Raw, &ch); err != nil {
		return Event{}, fmt.Errorf("%w: decode charge: %v", ErrInvalidPayload, err)
	}
	out.ID = ch.ID
	out.Status = string(ch.Status)
	out.PayerEmail = ch.ReceiptEmail
	if out.PayerEmail == "" && ch.BillingDetails != nil {
		out.PayerEmail = ch.BillingDetails.Email
	}
	return out, nil
}

func isSignatureErr(err error) bool {
	return errors.Is(err, webhook.ErrNotSigned) ||
		errors.Is(err, webhook.ErrNoValidSignature) ||
		errors.Is(err, webhook.ErrTooOld) ||
		errors.Is(err, webhook.ErrInvalidHeader)
}
