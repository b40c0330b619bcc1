package repository

import (
	"context"
	"time"

	"github.com/vilofleet/flota-api/internal/domain/entity"
)

// VehicleRequestRepository define el puerto de persistencia para solicitudes y
// pedidos. La implementación vive en infrastructure.
type VehicleRequestRepository interface {
	Create(ctx context.Context, r *entity.VehicleRequest) error
	// GetByID devuelve (nil, nil) si la solicitud no existe.
	GetByID(ctx context.Context, id string) (*entity.VehicleRequest, error)
	// UpdateStatus escribe solo el estado, updated_at y, si se indica, la fecha
	// de entrega del documento existente.
	UpdateStatus(ctx context.Context, id string, status entity.Status, deliveredAt *time.Time) error
	Delete(ctx context.Context, id string) error

	ListAll(ctx context.Context) ([]*entity.VehicleRequest, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.VehicleRequest, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.VehicleRequest, error)
	ListByBroker(ctx context.Context, brokerID string) ([]*entity.VehicleRequest, error)

	// ListDeliveredSince devuelve los pedidos entregados desde since cuyos
	// brokers están en brokerIDs. Lo consume el agregador de brokers.
	ListDeliveredSince(ctx context.Context, brokerIDs []string, since time.Time) ([]*entity.VehicleRequest, error)
	// CountDeliveredByBroker cuenta entregas de un broker concreto desde since.
	CountDeliveredByBroker(ctx context.Context, brokerID string, since time.Time) (int, error)
}
