package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"
)

const testSecret = "whsec_test_secret"

// signHeader arma un header Stripe-Signature válido para el payload,
// con el mismo esquema t=...,v1=HMAC-SHA256(secret, "t.payload").
func signHeader(t *testing.T, payload []byte, secret string, ts time.Time) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func chargeSucceededPayload(receiptEmail, billingEmail string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_1",
		"api_version": "2023-10-16",
		"type": "charge.succeeded",
		"data": {
			"object": {
				"id": "ch_1",
				"object": "charge",
				"status": "succeeded",
				"receipt_email": %q,
				"billing_details": {"email": %q}
			}
		}
	}`, receiptEmail, billingEmail))
}

func TestVerify_ChargeSucceeded(t *testing.T) {
	v := NewStripeVerifier(testSecret)
	payload := chargeSucceededPayload("a@example.com", "b@example.com")

	ev, err := v.Verify(payload, signHeader(t, payload, testSecret, time.Now()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Type != EventChargeSucceeded {
		t.Fatalf("type = %q, want %q", ev.Type, EventChargeSucceeded)
	}
	if ev.ID != "ch_1" || ev.Status != "succeeded" {
		t.Fatalf("charge fields not extracted: %+v", ev)
	}
	if ev.PayerEmail != "a@example.com" {
		t.Fatalf("payer email = %q, want receipt_email", ev.PayerEmail)
	}
}

func TestVerify_BillingDetailsFallback(t *testing.T) {
	v := NewStripeVerifier(testSecret)
	payload := chargeSucceededPayload("", "b@example.com")

	ev, err := v.Verify(payload, signHeader(t, payload, testSecret, time.Now()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.PayerEmail != "b@example.com" {
		t.Fatalf("payer email = %q, want billing_details fallback", ev.PayerEmail)
	}
}

func TestVerify_NoEmailAnywhere(t *testing.T) {
	v := NewStripeVerifier(testSecret)
	payload := chargeSucceededPayload("", "")

	ev, err := v.Verify(payload, signHeader(t, payload, testSecret, time.Now()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.PayerEmail != "" {
		t.Fatalf("payer email = %q, want empty", ev.PayerEmail)
	}
}

func TestVerify_OtherEventTypePassesThrough(t *testing.T) {
	v := NewStripeVerifier(testSecret)
	payload := []byte(`{"id":"evt_2","type":"charge.failed","data":{"object":{"id":"ch_2"}}}`)

	ev, err := v.Verify(payload, signHeader(t, payload, testSecret, time.Now()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Type != "charge.failed" {
		t.Fatalf("type = %q, want charge.failed", ev.Type)
	}
	if ev.PayerEmail != "" || ev.ID != "" {
		t.Fatalf("non-handled event should not extract charge fields: %+v", ev)
	}
}

func TestVerify_AcceptsAnyAPIVersion(t *testing.T) {
	v := NewStripeVerifier(testSecret)

	// Eventos reales llegan con la versión de API fijada en la cuenta,
	// o sin el campo; ninguno de los dos debe rechazarse.
	cases := map[string][]byte{
		"pinned older version": []byte(`{"id":"evt_3","api_version":"2020-08-27","type":"charge.succeeded","data":{"object":{"id":"ch_3","object":"charge","status":"succeeded","receipt_email":"a@example.com"}}}`),
		"no api_version field": []byte(`{"id":"evt_4","type":"charge.succeeded","data":{"object":{"id":"ch_4","object":"charge","status":"succeeded","receipt_email":"a@example.com"}}}`),
	}
	for name, payload := range cases {
		ev, err := v.Verify(payload, signHeader(t, payload, testSecret, time.Now()))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if ev.Type != EventChargeSucceeded || ev.PayerEmail != "a@example.com" {
			t.Fatalf("%s: event not extracted: %+v", name, ev)
		}
	}
}

func TestVerify_SignatureMismatch(t *testing.T) {
	v := NewStripeVerifier(testSecret)
	payload := chargeSucceededPayload("a@example.com", "")

	cases := map[string]string{
		"wrong secret":    signHeader(t, payload, "whsec_other", time.Now()),
		"missing header":  "",
		"stale timestamp": signHeader(t, payload, testSecret, time.Now().Add(-time.Hour)),
		"garbage header":  "not-a-signature",
	}
	for name, header := range cases {
		if _, err := v.Verify(payload, header); !errors.Is(err, ErrSignatureMismatch) {
			t.Fatalf("%s: err = %v, want ErrSignatureMismatch", name, err)
		}
	}
}

func TestVerify_InvalidPayload(t *testing.T) {
	v := NewStripeVerifier(testSecret)
	payload := []byte("not json at all")

	_, err := v.Verify(payload, signHeader(t, payload, testSecret, time.Now()))
	if !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("err = %v, want ErrInvalidPayload", err)
	}
}
