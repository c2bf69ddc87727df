// Package delivery orchestrates one code delivery per verified payment event:
// type gate, payer email, fetch eligible code, send, mark sent. Integration
// failures are logged and absorbed here; answering the webhook is the HTTP
// layer's concern.
package delivery

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dropDatabas3/paycode/internal/codes"
	"github.com/dropDatabas3/paycode/internal/email"
	"github.com/dropDatabas3/paycode/internal/observability/logger"
	"github.com/dropDatabas3/paycode/internal/payments"
)

// Result clasifica el desenlace de un intento de entrega. Se usa para logs y
// métricas; el webhook responde 200 en todos los casos.
type Result string

const (
	// ResultDelivered: email enviado y código marcado como sent.
	ResultDelivered Result = "delivered"
	// ResultIgnoredEvent: tipo de evento no manejado, ack sin efecto.
	ResultIgnoredEvent Result = "ignored_event"
	// ResultNoPayerEmail: el charge no trae email, no hay a quién entregar.
	ResultNoPayerEmail Result = "no_payer_email"
	// ResultNoCode: no quedan códigos elegibles en el store.
	ResultNoCode Result = "no_code"
	// ResultFetchFailed: el store no respondió el listado.
	ResultFetchFailed Result = "fetch_failed"
	// ResultSendFailed: falló el envío; el código sigue elegible.
	ResultSendFailed Result = "send_failed"
	// ResultMarkFailed: el email salió pero el update del store falló.
	// El código queda elegible en el store: riesgo de doble envío.
	ResultMarkFailed Result = "mark_failed"
)

type Service struct {
	store codes.Store
	mail  email.Sender
}

func NewService(store codes.Store, mail email.Sender) *Service {
	return &Service{store: store, mail: mail}
}

// Deliver ejecuta la cadena completa para un evento ya verificado.
// Un solo intento por paso, sin retries: si algo falla se loguea y se corta.
func (s *Service) Deliver(ctx context.Context, ev payments.Event) Result {
	log := logger.From(ctx).With(
		logger.Component("delivery"),
		logger.DeliveryID(uuid.NewString()),
		logger.EventID(ev.ID),
		logger.EventType(ev.Type),
	)

	if ev.Type != payments.EventChargeSucceeded {
		log.Info("unhandled event type, acknowledging without action")
		return ResultIgnoredEvent
	}
	if ev.PayerEmail == "" {
		log.Warn("charge has no payer email, skipping delivery")
		return ResultNoPayerEmail
	}
	log = log.With(logger.Email(ev.PayerEmail))

	code, err := s.store.FetchEligible(ctx)
	if err != nil {
		if errors.Is(err, codes.ErrNoEligibleCode) {
			log.Warn("no eligible code available to send")
			return ResultNoCode
		}
		log.Error("codes fetch failed", logger.Err(err))
		return ResultFetchFailed
	}
	log = log.With(logger.CodeID(code.ID))

	if err := s.mail.Send(ctx, ev.PayerEmail, email.Subject, email.CodeBody(code.Value)); err != nil {
		// El código no se marca: sigue elegible para un próximo webhook.
		log.Error("email send failed", logger.Err(err))
		return ResultSendFailed
	}
	log.Info("access code emailed")

	if err := s.store.MarkSent(ctx, code); err != nil {
		// El email ya salió. El código queda elegible en el store, así que
		// el próximo fetch puede volver a entregarlo.
		log.Error("mark sent failed", logger.Err(err))
		return ResultMarkFailed
	}
	log.Info("code marked as sent")
	return ResultDelivered
}
