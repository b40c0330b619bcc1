// Package mail implementa el envío de correo transaccional del flujo de
// invitaciones vía SMTP.
package mail

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"github.com/vilofleet/flota-api/internal/application/invites"
	"github.com/vilofleet/flota-api/pkg/config"
	"github.com/vilofleet/flota-api/pkg/logger"
)

var _ invites.Mailer = (*GomailMailer)(nil)

// Asunto por tipo de correo. La plataforma atiende clientes en alemán.
var subjects = map[string]string{
	invites.MailCompanyInvite:  "Einladung zu VILOFLEET",
	invites.MailEmployerInvite: "Einladung für Arbeitgeber – VILOFLEET",
	invites.MailBrokerInvite:   "Einladung als Vermittler – VILOFLEET",
	invites.MailEmployeeInvite: "Einladung zum Mitarbeiterportal – VILOFLEET",
	invites.MailInviteApproved: "Ihr Zugang wurde freigegeben – VILOFLEET",
	invites.MailInviteRejected: "Ihre Anfrage wurde abgelehnt – VILOFLEET",
}

// GomailMailer implementa invites.Mailer sobre un servidor SMTP.
type GomailMailer struct {
	dialer *gomail.Dialer
	from   string
	log    *logger.Logger
}

// NewGomailMailer construye el mailer con la configuración SMTP.
func NewGomailMailer(cfg config.SMTPConfig, log *logger.Logger) *GomailMailer {
	return &GomailMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
		log:    log,
	}
}

// SendInvitation envía el correo del tipo indicado y devuelve el Message-ID
// generado. params alimenta el cuerpo: link, companyName, firstName, etc.
func (m *GomailMailer) SendInvitation(ctx context.Context, kind, recipient string, params map[string]string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	subject, ok := subjects[kind]
	if !ok {
		return "", fmt.Errorf("tipo de correo desconocido: %q", kind)
	}

	messageID := fmt.Sprintf("<%s@vilofleet>", uuid.New().String())

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject)
	msg.SetHeader("Message-ID", messageID)
	msg.SetBody("text/html", renderBody(kind, params))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return "", fmt.Errorf("enviar correo %s a %s: %w", kind, recipient, err)
	}
	m.log.Info().
		Str("kind", kind).
		Str("recipient", recipient).
		Str("message_id", messageID).
		Msg("correo de invitación enviado")
	return messageID, nil
}

// renderBody arma un cuerpo HTML mínimo. El diseño final vive en el proveedor
// de plantillas del frontend; el backend solo garantiza el link correcto.
func renderBody(kind string, params map[string]string) string {
	greeting := "Guten Tag"
	if name := params["firstName"]; name != "" {
		greeting = "Hallo " + name
	}
	switch kind {
	case invites.MailInviteApproved:
		return fmt.Sprintf("<p>%s,</p><p>Ihr Zugang zum Portal von %s wurde freigegeben.</p>",
			greeting, params["companyName"])
	case invites.MailInviteRejected:
		return fmt.Sprintf("<p>%s,</p><p>Ihre Anfrage bei %s wurde leider abgelehnt.</p>",
			greeting, params["companyName"])
	default:
		return fmt.Sprintf("<p>%s,</p><p>Sie wurden zu VILOFLEET eingeladen.</p><p><a href=%q>Registrierung abschließen</a></p>",
			greeting, params["link"])
	}
}
