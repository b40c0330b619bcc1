package repository

import (
	"context"

	"github.com/vilofleet/flota-api/internal/domain/entity"
)

// CustomerRepository puerto de persistencia para clientes finales.
type CustomerRepository interface {
	Create(ctx context.Context, c *entity.Customer) error
	// GetByID devuelve (nil, nil) si el cliente no existe.
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Customer, error)

	// CountActiveByBrokers cuenta clientes activos de cualquiera de los brokers indicados.
	CountActiveByBrokers(ctx context.Context, brokerIDs []string) (int, error)
}
