package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/dropDatabas3/paycode/internal/observability/logger"
)

// SendGrid implementa Sender usando el SDK v3 de SendGrid.
type SendGrid struct {
	client *sendgrid.Client
	from   string
}

func NewSendGrid(apiKey, from string) *SendGrid {
	return newSendGrid(apiKey, from, "")
}

// newSendGrid arma el cliente contra un host arbitrario; con host vacío
// el SDK usa la API pública de SendGrid.
func newSendGrid(apiKey, from, host string) *SendGrid {
	req := sendgrid.GetRequest(apiKey, "/v3/mail/send", host)
	req.Method = "POST"
	return &SendGrid{
		client: &sendgrid.Client{Request: req},
		from:   from,
	}
}

func (s *SendGrid) Send(ctx context.Context, to, subject, textBody string) error {
	log := logger.From(ctx).With(
		logger.Component("SendGridSender"),
		logger.String("to", to),
	)

	m := sgmail.NewV3MailInit(
		sgmail.NewEmail("", s.from),
		subject,
		sgmail.NewEmail("", to),
		sgmail.NewContent("text/plain", textBody),
	)

	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		log.Error("sendgrid send failed", logger.Err(err))
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error("sendgrid rejected message",
			logger.Status(resp.StatusCode),
			logger.String("body", resp.Body),
		)
		return fmt.Errorf("sendgrid send: unexpected status %d", resp.StatusCode)
	}

	log.Info("email sent successfully")
	return nil
}
