package repository

import (
	"context"
	"time"

	"github.com/vilofleet/flota-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	// GetByID devuelve (nil, nil) si la empresa no existe.
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)

	// SetVerification vincula el shell con su token de verificación.
	SetVerification(ctx context.Context, companyID, verificationID string) error
	// Activate pasa la empresa de pending a active y fija el propietario.
	Activate(ctx context.Context, companyID, ownerID string, at time.Time) error
	// AppendEmailLog añade una entrada al registro de correos de la empresa.
	AppendEmailLog(ctx context.Context, companyID string, entry entity.EmailLogEntry) error

	// CountActiveByInvitedBy cuenta empresas activas invitadas por cualquiera
	// de los brokers indicados.
	CountActiveByInvitedBy(ctx context.Context, brokerIDs []string) (int, error)
}
