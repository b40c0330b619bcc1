package repository

import (
	"context"

	"github.com/vilofleet/flota-api/internal/domain/entity"
)

// EmployeeInviteRepository puerto de persistencia para invitaciones de empleado.
type EmployeeInviteRepository interface {
	Create(ctx context.Context, inv *entity.EmployeeInvite) error
	// GetByID devuelve (nil, nil) si la invitación no existe.
	GetByID(ctx context.Context, id string) (*entity.EmployeeInvite, error)
	Update(ctx context.Context, inv *entity.EmployeeInvite) error

	// FindPending busca una invitación pendiente por email + empresa + portal.
	// Devuelve (nil, nil) si no hay ninguna.
	FindPending(ctx context.Context, email, companyID string, portal entity.PortalType) (*entity.EmployeeInvite, error)

	// ListByCompanyOrEmployer une los resultados de company_id = X y
	// employer_company_id = X, deduplicados por id.
	ListByCompanyOrEmployer(ctx context.Context, companyID string) ([]*entity.EmployeeInvite, error)
}
