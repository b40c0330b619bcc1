package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Comisiones por defecto al crear un broker (unidades de moneda por vehículo entregado).
var (
	DefaultCommission          = decimal.NewFromInt(250)
	DefaultSubBrokerCommission = decimal.NewFromInt(150)
)

// Broker un nodo del árbol de brokers. ParentBrokerID vacío marca la raíz.
//
// La identidad dentro del árbol puede estar encadenada por ID o por Email según
// la estadística: el agregador recorre ambas variantes.
type Broker struct {
	ID                  string
	Email               string
	ParentBrokerID      string
	FirstName           string
	LastName            string
	CompanyName         string
	Phone               string
	Address             Address
	Commission          decimal.Decimal // importe plano por vehículo entregado
	SubBrokerCommission decimal.Decimal // parte retenida por un sub-broker antes del diferencial del padre
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// FullName nombre para mostrar; vacío si faltan ambos campos.
func (b *Broker) FullName() string {
	switch {
	case b.FirstName == "" && b.LastName == "":
		return ""
	case b.FirstName == "":
		return b.LastName
	case b.LastName == "":
		return b.FirstName
	}
	return b.FirstName + " " + b.LastName
}
