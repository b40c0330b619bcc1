package invites

import "fmt"

// Links construye los links que consume la capa de presentación.
// Los formatos son contrato externo y no deben cambiarse.
type Links struct {
	BaseURL string
}

// Verify link de verificación de empresa/empleador/broker.
func (l Links) Verify(verificationID string) string {
	return fmt.Sprintf("%s/verify/%s", l.BaseURL, verificationID)
}

// EmployeeRegister link de auto-registro contra una invitación de link.
func (l Links) EmployeeRegister(inviteID string) string {
	return fmt.Sprintf("%s/register/employee/%s", l.BaseURL, inviteID)
}

// EmployeeVerify link de una invitación de empleado dirigida por email.
func (l Links) EmployeeVerify(portal, companyID, inviteID string) string {
	return fmt.Sprintf("%s/verify/employee/%s?company=%s&invite=%s", l.BaseURL, portal, companyID, inviteID)
}
