package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/dropDatabas3/paycode/internal/delivery"
	httpx "github.com/dropDatabas3/paycode/internal/http"
	"github.com/dropDatabas3/paycode/internal/observability/logger"
	"github.com/dropDatabas3/paycode/internal/payments"
)

// Stripe manda los payloads de Charge completos; 64KB alcanza de sobra.
const maxWebhookBody = 64 << 10

// Deliverer es lo que el handler necesita del orquestador.
type Deliverer interface {
	Deliver(ctx context.Context, ev payments.Event) delivery.Result
}

// WebhookHandler atiende POST /webhook: verifica la firma del procesador y
// delega la entrega. La verificación es el único paso que responde 400;
// cualquier falla aguas abajo se absorbe y el webhook se responde 200 para
// que el procesador no reintente por errores que no son suyos.
type WebhookHandler struct {
	Verifier payments.Verifier
	Delivery Deliverer
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logger.From(r.Context()).With(logger.Component("webhook"))

	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBody)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Warn("failed to read webhook body", logger.Err(err))
		httpx.RecordWebhookRejected("invalid_payload")
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	ev, err := h.Verifier.Verify(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, payments.ErrSignatureMismatch) {
			log.Warn("webhook signature mismatch", logger.Err(err))
			httpx.RecordWebhookRejected("invalid_signature")
			http.Error(w, "invalid signature", http.StatusBadRequest)
			return
		}
		log.Warn("invalid webhook payload", logger.Err(err))
		httpx.RecordWebhookRejected("invalid_payload")
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	result := h.Delivery.Deliver(r.Context(), ev)
	httpx.RecordWebhookEvent(ev.Type, string(result))

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
