package entity

import "time"

// VerificationType discrimina los tokens en la colección verifications.
type VerificationType string

const (
	VerificationCompanyInvite  VerificationType = "company_invite"
	VerificationEmployerInvite VerificationType = "employer_invite"
	VerificationBrokerInvite   VerificationType = "broker_invite"
	VerificationCompanyCheck   VerificationType = "company_verification"
)

// Estados de un token de verificación.
const (
	VerificationStatusPending    = "pending"
	VerificationStatusInProgress = "in_progress"
	VerificationStatusCompleted  = "completed"
	VerificationStatusAccepted   = "accepted"
	VerificationStatusExpired    = "expired"
)

// Verification token con vigencia limitada que habilita completar un alta de
// empresa, empleador o broker exactamente una vez.
type Verification struct {
	ID          string
	Type        VerificationType
	Email       string
	CompanyID   string
	BrokerID    string // broker que emitió la invitación
	Status      string
	Verified    bool
	ExpiresAt   time.Time
	EmailSent   bool
	EmailSentAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Consumed informa si el token ya no puede honrarse: una vez Verified o con el
// estado fuera de pending se trata como usado.
func (v *Verification) Consumed() bool {
	return v.Verified || v.Status != VerificationStatusPending
}

// Expired informa si el token venció respecto a now.
func (v *Verification) Expired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}
