package entity

import "time"

// Estados de una empresa.
const (
	CompanyStatusPending  = "pending"
	CompanyStatusActive   = "active"
	CompanyStatusInactive = "inactive"
)

// Address dirección postal de una empresa.
type Address struct {
	Street     string
	City       string
	PostalCode string
}

// EmailLogEntry registro de un intento de envío de correo asociado a la empresa.
type EmailLogEntry struct {
	Type    string    `json:"type"`
	SentAt  time.Time `json:"sentAt"`
	Success bool      `json:"success"`
	Error   string    `json:"error,omitempty"`
}

// Company una empresa cliente o empleadora. Nace como shell en estado pending
// junto a su token de verificación y pasa a active al completarse el registro.
type Company struct {
	ID             string
	Name           string
	Status         string
	InvitedBy      string // broker que la invitó
	OwnerID        string // usuario propietario, se fija al activar
	VerificationID string
	Address        Address
	EmployeeCount  int
	LogoURL        string
	EmailLog       []EmailLogEntry
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
