package entity

import "time"

// PortalType qué portal de empleado cubre la invitación/cuenta.
type PortalType string

const (
	PortalNormal PortalType = "normal"
	PortalSalary PortalType = "salary"
)

// Roles de empleado derivados del portal.
const (
	RoleEmployeeNormal = "employee_normal"
	RoleEmployeeSalary = "employee_salary"
)

// InviteMethod cómo se emitió la invitación.
type InviteMethod string

const (
	MethodLink  InviteMethod = "link"
	MethodEmail InviteMethod = "email"
)

// InviteOrigin quién inició la invitación.
type InviteOrigin string

const (
	OriginEmployer InviteOrigin = "employer"
	OriginEmployee InviteOrigin = "employee"
)

// Estados de una invitación de empleado.
const (
	InviteStatusPending  = "pending"
	InviteStatusActive   = "active"
	InviteStatusAccepted = "accepted"
	InviteStatusDeclined = "declined"
	InviteStatusRejected = "rejected"
)

// EmployeeInvite unidad de onboarding de un empleado: invitación dirigida por
// email o link de auto-registro compartible.
//
// EmployerCompanyID duplica CompanyID a propósito: las consultas del roster
// llegan por cualquiera de las dos formas.
type EmployeeInvite struct {
	ID                string
	Email             string // vacío en invitaciones por link hasta que el registrante lo rellena
	FirstName         string
	LastName          string
	CompanyID         string
	EmployerCompanyID string
	PortalType        PortalType
	Role              string
	Status            string
	Method            InviteMethod
	Origin            InviteOrigin
	InvitedBy         string
	UserID            string // se adjunta cuando el registrante completa el alta
	CreatedAt         time.Time
	ApprovedAt        *time.Time
	DeniedAt          *time.Time
}

// Placeholder informa si el documento es un link pregenerado sin persona
// detrás: ni email ni usuario vinculado. No cuenta en ningún listado.
func (i *EmployeeInvite) Placeholder() bool {
	return i.Email == "" && i.UserID == ""
}

// RoleForPortal deriva el rol de empleado del tipo de portal.
func RoleForPortal(p PortalType) string {
	if p == PortalSalary {
		return RoleEmployeeSalary
	}
	return RoleEmployeeNormal
}

// Approve marca la invitación como activa.
func (i *EmployeeInvite) Approve(now time.Time) {
	i.Status = InviteStatusActive
	i.ApprovedAt = &now
}

// Deny marca la invitación como rechazada.
func (i *EmployeeInvite) Deny(now time.Time) {
	i.Status = InviteStatusRejected
	i.DeniedAt = &now
}
