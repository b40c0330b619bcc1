package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vilofleet/flota-api/internal/domain/entity"
)

func TestCanTransition_ProgresionDelPedido(t *testing.T) {
	// Cadena completa del flujo post-pedido, en orden.
	chain := []entity.Status{
		entity.StatusCreditCheckStarted,
		entity.StatusCreditCheckPassed,
		entity.StatusLeaseContractSent,
		entity.StatusLeaseContractSigned,
		entity.StatusInDelivery,
		entity.StatusDelivered,
	}
	for i := 0; i < len(chain)-1; i++ {
		assert.True(t, entity.CanTransition(chain[i], chain[i+1]),
			"debe permitirse %s -> %s", chain[i], chain[i+1])
	}

	// Saltarse un paso no está permitido.
	assert.False(t, entity.CanTransition(entity.StatusCreditCheckStarted, entity.StatusLeaseContractSent))
	assert.False(t, entity.CanTransition(entity.StatusCreditCheckPassed, entity.StatusInDelivery))

	// Retroceder tampoco.
	assert.False(t, entity.CanTransition(entity.StatusLeaseContractSent, entity.StatusCreditCheckPassed))
}

func TestCanTransition_AbsorbentesDesdeCualquierEstadoNoTerminal(t *testing.T) {
	for _, from := range []entity.Status{
		entity.StatusPending,
		entity.StatusCreditCheckStarted,
		entity.StatusLeaseContractSigned,
		entity.StatusInDelivery,
	} {
		for _, to := range []entity.Status{
			entity.StatusRejected,
			entity.StatusWithdrawn,
			entity.StatusClosed,
			entity.StatusCancelled,
		} {
			assert.True(t, entity.CanTransition(from, to),
				"%s -> %s debe permitirse (estado absorbente)", from, to)
		}
	}
}

func TestCanTransition_DesdeTerminalNoHaySalida(t *testing.T) {
	terminals := []entity.Status{
		entity.StatusRejected,
		entity.StatusWithdrawn,
		entity.StatusClosed,
		entity.StatusCancelled,
		entity.StatusDelivered,
		entity.StatusSalaryConversionRejected,
		entity.StatusCreditCheckFailed,
	}
	for _, from := range terminals {
		assert.True(t, from.Terminal(), "%s debe ser terminal", from)
		assert.False(t, entity.CanTransition(from, entity.StatusPending))
		assert.False(t, entity.CanTransition(from, entity.StatusCancelled))
	}
}

func TestCanTransition_AutoTransicionProhibida(t *testing.T) {
	assert.False(t, entity.CanTransition(entity.StatusPending, entity.StatusPending))
	assert.False(t, entity.CanTransition(entity.StatusInDelivery, entity.StatusInDelivery))
}

func TestStatusAllowedForKind_EstadosPorFlujo(t *testing.T) {
	// Los estados del flujo salarial no aplican a solicitudes regulares.
	assert.False(t, entity.StatusAllowedForKind(entity.KindRegular, entity.StatusSalaryConversionApproved))
	assert.False(t, entity.StatusAllowedForKind(entity.KindRegular, entity.StatusSalaryConversionRejected))

	// approved es exclusivo del flujo regular.
	assert.False(t, entity.StatusAllowedForKind(entity.KindSalaryConversion, entity.StatusApproved))

	// Los estados compartidos aplican a ambos flujos.
	for _, kind := range []entity.RequestKind{entity.KindRegular, entity.KindSalaryConversion} {
		assert.True(t, entity.StatusAllowedForKind(kind, entity.StatusPending))
		assert.True(t, entity.StatusAllowedForKind(kind, entity.StatusCreditCheckStarted))
		assert.True(t, entity.StatusAllowedForKind(kind, entity.StatusDelivered))
	}
}

func TestIsConversion(t *testing.T) {
	assert.True(t, entity.StatusApproved.IsConversion())
	assert.True(t, entity.StatusSalaryConversionApproved.IsConversion())
	assert.False(t, entity.StatusPending.IsConversion())
	assert.False(t, entity.StatusSalaryConversionRejected.IsConversion())
}

func TestValidate_InvarianteNumeroDePedido(t *testing.T) {
	r := &entity.VehicleRequest{Kind: entity.KindRegular, Status: entity.StatusPending}
	assert.NoError(t, r.Validate())

	// IsOrder sin número de pedido viola el invariante.
	r.IsOrder = true
	assert.Error(t, r.Validate())

	// Con número asignado vuelve a ser válido.
	r.OrderNumber = "VILO-20260115-0042"
	assert.NoError(t, r.Validate())

	// Número de pedido sin IsOrder también viola.
	r.IsOrder = false
	assert.Error(t, r.Validate())
}

func TestValidate_EstadoIncompatibleConElFlujo(t *testing.T) {
	r := &entity.VehicleRequest{
		Kind:   entity.KindSalaryConversion,
		Status: entity.StatusApproved,
	}
	assert.Error(t, r.Validate())

	r.Status = entity.StatusSalaryConversionApproved
	assert.NoError(t, r.Validate())
}

func TestValidStatus(t *testing.T) {
	assert.True(t, entity.ValidStatus(entity.StatusPending))
	assert.True(t, entity.ValidStatus(entity.StatusDelivered))
	assert.False(t, entity.ValidStatus(entity.Status("archived")))
	assert.False(t, entity.ValidStatus(entity.Status("")))
}
