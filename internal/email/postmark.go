package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dropDatabas3/paycode/internal/observability/logger"
)

const postmarkAPIURL = "https://api.postmarkapp.com/email"

// Postmark implementa Sender contra la API transaccional de Postmark.
// Postmark no publica SDK oficial de Go; el endpoint /email es un POST JSON
// directo, así que el cliente es nuestro.
type Postmark struct {
	Token  string
	From   string
	APIURL string // override en tests
	HTTP   *http.Client
}

func NewPostmark(serverToken, from string) *Postmark {
	return &Postmark{
		Token:  serverToken,
		From:   from,
		APIURL: postmarkAPIURL,
		HTTP:   &http.Client{Timeout: 15 * time.Second},
	}
}

type postmarkRequest struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	TextBody string `json:"TextBody"`
}

type postmarkResponse struct {
	ErrorCode int    `json:"ErrorCode"`
	Message   string `json:"Message"`
}

func (p *Postmark) Send(ctx context.Context, to, subject, textBody string) error {
	log := logger.From(ctx).With(
		logger.Component("PostmarkSender"),
		logger.String("to", to),
	)

	body, err := json.Marshal(postmarkRequest{
		From:     p.From,
		To:       to,
		Subject:  subject,
		TextBody: textBody,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.APIURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Postmark-Server-Token", p.Token)

	resp, err := p.HTTP.Do(req)
	if err != nil {
		log.Error("postmark send failed", logger.Err(err))
		return fmt.Errorf("postmark send: %w", err)
	}
	defer resp.Body.Close()

	var pr postmarkResponse
	_ = json.NewDecoder(resp.Body).Decode(&pr)

	if resp.StatusCode != http.StatusOK || pr.ErrorCode != 0 {
		log.Error("postmark rejected message",
			logger.Status(resp.StatusCode),
			logger.Int("error_code", pr.ErrorCode),
			logger.String("message", pr.Message),
		)
		return fmt.Errorf("postmark send: status %d, error %d: %s", resp.StatusCode, pr.ErrorCode, pr.Message)
	}

	log.Info("email sent successfully")
	return nil
}
