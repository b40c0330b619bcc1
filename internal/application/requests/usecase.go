// Package requests implementa el motor de ciclo de vida de solicitudes de
// vehículo: alta, transiciones de estado, conversión de aprobaciones en
// pedidos y los listados con resolución de datos de presentación.
package requests

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vilofleet/flota-api/internal/application/dto"
	"github.com/vilofleet/flota-api/internal/domain"
	"github.com/vilofleet/flota-api/internal/domain/entity"
	"github.com/vilofleet/flota-api/internal/domain/repository"
	"github.com/vilofleet/flota-api/pkg/logger"
)

// UseCase aplica las reglas de negocio del ciclo de vida de solicitudes.
type UseCase struct {
	repo        repository.VehicleRequestRepository
	companyRepo repository.CompanyRepository
	userRepo    repository.UserRepository
	tx          TxRunner
	log         *logger.Logger
}

// NewUseCase construye el caso de uso con sus puertos de persistencia.
func NewUseCase(
	repo repository.VehicleRequestRepository,
	companyRepo repository.CompanyRepository,
	userRepo repository.UserRepository,
	tx TxRunner,
	log *logger.Logger,
) *UseCase {
	return &UseCase{repo: repo, companyRepo: companyRepo, userRepo: userRepo, tx: tx, log: log}
}

// Submit valida y persiste una solicitud nueva en estado pending.
// Solo las solicitudes que no son de conversión salarial pueden marcarse
// IsOrder directamente.
func (uc *UseCase) Submit(ctx context.Context, in dto.SubmitRequestRequest) (*dto.RequestResponse, error) {
	if in.RequesterID == "" || in.CompanyID == "" {
		return nil, fmt.Errorf("requester_id y company_id son requeridos: %w", domain.ErrInvalidInput)
	}
	if in.Brand == "" || in.Model == "" {
		return nil, fmt.Errorf("brand y model son requeridos: %w", domain.ErrInvalidInput)
	}
	if in.DurationMonths <= 0 || in.MileagePerYear <= 0 {
		return nil, fmt.Errorf("configuración incompleta (duración y kilometraje): %w", domain.ErrInvalidInput)
	}

	kind := entity.RequestKind(in.Kind)
	if kind == "" {
		kind = entity.KindRegular
	}
	if kind != entity.KindRegular && kind != entity.KindSalaryConversion {
		return nil, fmt.Errorf("kind desconocido %q: %w", in.Kind, domain.ErrInvalidInput)
	}

	var category entity.Category
	if kind == entity.KindRegular {
		category = entity.Category(in.Category)
		if category == "" {
			category = entity.CategoryPrivate
		}
	}

	now := time.Now()
	r := &entity.VehicleRequest{
		ID:             uuid.New().String(),
		RequesterID:    in.RequesterID,
		CompanyID:      in.CompanyID,
		BrokerID:       in.BrokerID,
		VehicleID:      in.VehicleID,
		Brand:          in.Brand,
		Model:          in.Model,
		Trim:           in.Trim,
		DurationMonths: in.DurationMonths,
		MileagePerYear: in.MileagePerYear,
		Color:          in.Color,
		MonthlyRate:    in.MonthlyRate,
		Kind:           kind,
		Category:       category,
		Status:         entity.StatusPending,
		IsOrder:        false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	// in.IsOrder solo lo pueden pedir solicitudes regulares, pero IsOrder se
	// materializa al crear el pedido: orderNumber existe si y solo si IsOrder.
	if in.IsOrder && kind == entity.KindSalaryConversion {
		return nil, fmt.Errorf("una conversión salarial no puede ser pedido directo: %w", domain.ErrInvalidInput)
	}
	if in.CompanyName != "" || in.EmployeeName != "" {
		r.Snapshot = &entity.DisplaySnapshot{
			CompanyName:  in.CompanyName,
			EmployeeName: in.EmployeeName,
		}
	}

	if err := uc.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("crear solicitud: %w", err)
	}
	resp := uc.toResponse(ctx, r)
	return &resp, nil
}

// Transition aplica un cambio de estado ordinario. Los estados de aprobación
// (approved, salary_conversion_approved) crean un pedido y deben pasar por
// ApproveAndConvertToOrder.
func (uc *UseCase) Transition(ctx context.Context, requestID string, newStatus entity.Status) (*dto.RequestResponse, error) {
	if !entity.ValidStatus(newStatus) {
		return nil, fmt.Errorf("estado desconocido %q: %w", newStatus, domain.ErrInvalidInput)
	}
	if newStatus.IsConversion() {
		return nil, domain.ErrUseConversion
	}

	r, err := uc.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("cargar solicitud: %w", err)
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	if !entity.StatusAllowedForKind(r.Kind, newStatus) {
		return nil, fmt.Errorf("estado %q no aplicable a solicitudes %s: %w", newStatus, r.Kind, domain.ErrConflict)
	}
	if !entity.CanTransition(r.Status, newStatus) {
		return nil, fmt.Errorf("transición %s -> %s no permitida: %w", r.Status, newStatus, domain.ErrConflict)
	}

	now := time.Now()
	var deliveredAt *time.Time
	if newStatus == entity.StatusDelivered {
		deliveredAt = &now
	}
	if err := uc.repo.UpdateStatus(ctx, r.ID, newStatus, deliveredAt); err != nil {
		return nil, fmt.Errorf("actualizar estado: %w", err)
	}
	r.Status = newStatus
	r.UpdatedAt = now
	r.DeliveryDate = deliveredAt
	resp := uc.toResponse(ctx, r)
	return &resp, nil
}

// Delete elimina una solicitud. Solo el rol administrativo puede hacerlo;
// el rol se verifica contra el usuario almacenado, no contra el token.
func (uc *UseCase) Delete(ctx context.Context, requestID, actingUserID string) error {
	actor, err := uc.userRepo.GetByID(ctx, actingUserID)
	if err != nil {
		return fmt.Errorf("cargar usuario: %w", err)
	}
	if actor == nil || actor.Role != entity.RoleAdmin {
		return domain.ErrForbidden
	}
	r, err := uc.repo.GetByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("cargar solicitud: %w", err)
	}
	if r == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, requestID); err != nil {
		return fmt.Errorf("eliminar solicitud: %w", err)
	}
	return nil
}
