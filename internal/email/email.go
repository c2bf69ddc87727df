// Package email envía el access code al pagador. Tres backends
// intercambiables detrás de Sender: Postmark (default), SendGrid y SMTP.
// Un solo send síncrono, texto plano, sin templates ni adjuntos.
package email

import (
	"context"
	"fmt"
)

// Subject es el asunto fijo de toda entrega de código.
const Subject = "Your Unblock Code"

// Sender es la interfaz para enviar emails.
type Sender interface {
	Send(ctx context.Context, to, subject, textBody string) error
}

// CodeBody arma el cuerpo fijo del email de entrega.
// La ventana de validez (10 minutos) es parte del texto, no un parámetro.
func CodeBody(code string) string {
	return fmt.Sprintf(
		"Thank you for your payment! Here is your 10 minutes unblock code: %s\n\nEnjoy unlimited entries once applied.",
		code,
	)
}
