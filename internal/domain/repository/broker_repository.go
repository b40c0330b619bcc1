package repository

import (
	"context"

	"github.com/vilofleet/flota-api/internal/domain/entity"
)

// BrokerRepository puerto de persistencia para el árbol de brokers.
type BrokerRepository interface {
	Create(ctx context.Context, b *entity.Broker) error
	// GetByID devuelve (nil, nil) si el broker no existe.
	GetByID(ctx context.Context, id string) (*entity.Broker, error)
	// GetByEmail devuelve (nil, nil) si no hay broker con ese email.
	GetByEmail(ctx context.Context, email string) (*entity.Broker, error)

	// ListChildren devuelve los brokers cuyo parent_broker_id es parentKey.
	// parentKey puede ser el id o el email del padre según la variante de
	// recorrido que use el agregador.
	ListChildren(ctx context.Context, parentKey string) ([]*entity.Broker, error)
}
