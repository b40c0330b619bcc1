package dto

import "time"

// InviteCompanyRequest emite una invitación de empresa, empleador o broker.
type InviteCompanyRequest struct {
	Kind        string `json:"kind" validate:"required,oneof=company_invite employer_invite broker_invite"`
	Email       string `json:"email" validate:"required,email"`
	CompanyName string `json:"company_name"`
	BrokerID    string `json:"broker_id"`
}

// InviteCompanyResponse resultado de la emisión: shell + token + link.
type InviteCompanyResponse struct {
	CompanyID      string    `json:"company_id,omitempty"`
	VerificationID string    `json:"verification_id"`
	Link           string    `json:"link"`
	ExpiresAt      time.Time `json:"expires_at"`
	EmailSent      bool      `json:"email_sent"`
}

// VerificationResponse estado de un token al consultarlo.
type VerificationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Email     string    `json:"email"`
	CompanyID string    `json:"company_id,omitempty"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CompleteRegistrationRequest cierra un alta a partir de un token válido.
type CompleteRegistrationRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Password  string `json:"password" validate:"required,min=8"`
	Phone     string `json:"phone"`
}

// InviteEmployeeRequest invita a un empleado por email o prepara un link.
type InviteEmployeeRequest struct {
	Email      string `json:"email" validate:"omitempty,email"`
	CompanyID  string `json:"company_id" validate:"required"`
	PortalType string `json:"portal_type" validate:"required,oneof=normal salary"`
	InvitedBy  string `json:"invited_by" validate:"required"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
}

// InviteEmployeeResponse invitación creada más su link de registro.
type InviteEmployeeResponse struct {
	InviteID  string `json:"invite_id"`
	Link      string `json:"link"`
	Method    string `json:"method"`
	Status    string `json:"status"`
	EmailSent bool   `json:"email_sent"`
}

// AttachRegistrantRequest el registrante adjunta su identidad a una invitación
// de link. Es la única mutación permitida a la parte invitada.
type AttachRegistrantRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Email  string `json:"email" validate:"omitempty,email"`
}

// RosterEntryDTO una fila del roster combinado de empleados.
type RosterEntryDTO struct {
	ID         string `json:"id"`
	Email      string `json:"email,omitempty"`
	Name       string `json:"name,omitempty"`
	Role       string `json:"role,omitempty"`
	PortalType string `json:"portal_type,omitempty"`
	Status     string `json:"status"`
	Source     string `json:"source"` // "user" | "invite"
	InviteID   string `json:"invite_id,omitempty"`
}

// RosterResponse roster combinado de una empresa.
type RosterResponse struct {
	Items []RosterEntryDTO `json:"items"`
	Total int              `json:"total"`
}
