package invites

import (
	"context"

	"github.com/vilofleet/flota-api/internal/domain/repository"
)

// Tipos de correo que dispara el flujo de invitaciones.
const (
	MailCompanyInvite  = "company_invite"
	MailEmployerInvite = "employer_invite"
	MailBrokerInvite   = "broker_invite"
	MailEmployeeInvite = "employee_invite"
	MailInviteApproved = "invite_approved"
	MailInviteRejected = "invite_rejected"
)

// Mailer colaborador externo de correo transaccional. El flujo solo necesita
// saber si el envío tuvo éxito para marcar emailSent; el contenido es caja negra.
type Mailer interface {
	SendInvitation(ctx context.Context, kind, recipient string, params map[string]string) (messageID string, err error)
}

// TxRunner ejecuta fn dentro de una transacción con los repositorios del flujo
// de onboarding atados a ella. Lo implementa postgres.TxRunner.
type TxRunner interface {
	RunOnboardingTx(ctx context.Context, fn func(
		companyRepo repository.CompanyRepository,
		verificationRepo repository.VerificationRepository,
		userRepo repository.UserRepository,
		brokerRepo repository.BrokerRepository,
	) error) error
}

// ChangeListener entrega notificaciones de cambio de las colecciones
// indicadas. Cada Subscribe devuelve su propio canal y una función de
// cancelación; la entrega es al menos una vez.
type ChangeListener interface {
	Subscribe(ctx context.Context, channels ...string) (<-chan string, func(), error)
}
