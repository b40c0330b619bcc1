package requests

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vilofleet/flota-api/internal/application/dto"
	"github.com/vilofleet/flota-api/internal/domain"
	"github.com/vilofleet/flota-api/internal/domain/entity"
	"github.com/vilofleet/flota-api/internal/domain/repository"
)

// orderNumberRetries reintentos completos de la transacción si el número de
// pedido generado colisiona con el índice único.
const orderNumberRetries = 3

// ApproveAndConvertToOrder aprueba una solicitud pendiente y crea el pedido
// derivado en una sola operación lógica:
//
//   - el pedido es un documento NUEVO: copia de la solicitud con IsOrder,
//     número de pedido fresco, estado credit_check_started y
//     OriginalRequestID apuntando a la solicitud origen;
//   - la solicitud origen pasa a approved (regular) o
//     salary_conversion_approved (conversión salarial) y nunca se convierte
//     ella misma en el pedido.
//
// Una solicitud que ya salió de pending no puede volver a aprobarse: cada
// aprobación produce exactamente un pedido.
func (uc *UseCase) ApproveAndConvertToOrder(ctx context.Context, requestID string) (*dto.RequestResponse, error) {
	src, err := uc.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("cargar solicitud: %w", err)
	}
	if src == nil {
		return nil, domain.ErrNotFound
	}
	if src.Status != entity.StatusPending {
		return nil, fmt.Errorf("la solicitud ya fue procesada (estado %s): %w", src.Status, domain.ErrConflict)
	}

	approvedStatus := entity.StatusApproved
	if src.Kind == entity.KindSalaryConversion {
		approvedStatus = entity.StatusSalaryConversionApproved
	}

	var order *entity.VehicleRequest
	for attempt := 0; ; attempt++ {
		now := time.Now()
		order = buildOrder(src, now)

		err = uc.tx.RunRequestTx(ctx, func(repo repository.VehicleRequestRepository) error {
			if err := repo.Create(ctx, order); err != nil {
				return err
			}
			return repo.UpdateStatus(ctx, src.ID, approvedStatus, nil)
		})
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrDuplicate) && attempt < orderNumberRetries {
			uc.log.Warn().Str("order_number", order.OrderNumber).Msg("colisión de número de pedido, reintentando")
			continue
		}
		return nil, fmt.Errorf("convertir solicitud en pedido: %w", err)
	}

	resp := uc.toResponse(ctx, order)
	return &resp, nil
}

// buildOrder copia los campos de la solicitud excluyendo id, fecha de creación
// y estado, y estampa los campos propios del pedido.
func buildOrder(src *entity.VehicleRequest, now time.Time) *entity.VehicleRequest {
	order := *src
	order.ID = uuid.New().String()
	order.IsOrder = true
	order.Status = entity.StatusCreditCheckStarted
	order.OrderNumber = NewOrderNumber(now)
	order.OriginalRequestID = src.ID
	order.DeliveryDate = nil
	order.CreatedAt = now
	order.UpdatedAt = now
	if src.Snapshot != nil {
		snap := *src.Snapshot
		order.Snapshot = &snap
	}
	return &order
}
