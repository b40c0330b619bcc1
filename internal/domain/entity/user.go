package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleBroker   = "broker"
	RoleEmployer = "employer"
	RoleCustomer = "customer"
)

// User un usuario registrado de la plataforma.
//
// EmployerCompanyID duplica CompanyID para empleados dados de alta vía portal
// de empleador; el roster consulta por ambos campos.
type User struct {
	ID                string
	CompanyID         string
	EmployerCompanyID string
	Email             string
	PasswordHash      string // bcrypt, nunca plano en dominio después de persistir
	FirstName         string
	LastName          string
	Role              string
	PortalType        PortalType
	Status            string // active, inactive, rejected
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// FullName nombre para mostrar.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return ""
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
