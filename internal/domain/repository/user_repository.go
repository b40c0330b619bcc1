package repository

import (
	"context"

	"github.com/vilofleet/flota-api/internal/domain/entity"
)

// UserRepository puerto de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	// GetByID devuelve (nil, nil) si el usuario no existe.
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// FindByEmail devuelve (nil, nil) si no hay usuario con ese email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// UpdateStatus escribe solo el estado y updated_at.
	UpdateStatus(ctx context.Context, id, status string) error

	// ListByCompanyOrEmployer une los resultados de company_id = X y
	// employer_company_id = X, deduplicados por id.
	ListByCompanyOrEmployer(ctx context.Context, companyID string) ([]*entity.User, error)
}
