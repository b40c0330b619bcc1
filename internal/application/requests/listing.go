package requests

import (
	"context"
	"fmt"

	"github.com/vilofleet/flota-api/internal/application/dto"
	"github.com/vilofleet/flota-api/internal/domain/entity"
)

// Placeholders cuando la entidad referenciada no puede resolverse.
// El listado nunca falla por una referencia rota: degrada a estos textos.
const (
	PlaceholderCompany  = "Unbekanntes Unternehmen"
	PlaceholderEmployee = "Nicht verfügbar"
)

// ListAll devuelve todas las solicitudes (uso administrativo).
func (uc *UseCase) ListAll(ctx context.Context) (*dto.RequestListResponse, error) {
	list, err := uc.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar solicitudes: %w", err)
	}
	return uc.toListResponse(ctx, list), nil
}

// ListByCompany devuelve las solicitudes de una empresa.
func (uc *UseCase) ListByCompany(ctx context.Context, companyID string) (*dto.RequestListResponse, error) {
	list, err := uc.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("listar solicitudes de empresa: %w", err)
	}
	return uc.toListResponse(ctx, list), nil
}

// ListByUser devuelve las solicitudes de un solicitante.
func (uc *UseCase) ListByUser(ctx context.Context, userID string) (*dto.RequestListResponse, error) {
	list, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listar solicitudes de usuario: %w", err)
	}
	return uc.toListResponse(ctx, list), nil
}

// ListByBroker devuelve las solicitudes captadas por un broker.
func (uc *UseCase) ListByBroker(ctx context.Context, brokerID string) (*dto.RequestListResponse, error) {
	list, err := uc.repo.ListByBroker(ctx, brokerID)
	if err != nil {
		return nil, fmt.Errorf("listar solicitudes de broker: %w", err)
	}
	return uc.toListResponse(ctx, list), nil
}

func (uc *UseCase) toListResponse(ctx context.Context, list []*entity.VehicleRequest) *dto.RequestListResponse {
	items := make([]dto.RequestResponse, 0, len(list))
	for _, r := range list {
		items = append(items, uc.toResponse(ctx, r))
	}
	return &dto.RequestListResponse{Items: items, Total: len(items)}
}

// resolveDisplay resuelve el bloque de presentación de una solicitud. Es una
// función total: preferencia por el snapshot embebido; si falta, lookup con
// degradación a placeholders. Nunca devuelve error.
func (uc *UseCase) resolveDisplay(ctx context.Context, r *entity.VehicleRequest) dto.DisplayInfo {
	if r.Snapshot != nil && r.Snapshot.CompanyName != "" {
		emp := r.Snapshot.EmployeeName
		if emp == "" {
			emp = PlaceholderEmployee
		}
		return dto.DisplayInfo{CompanyName: r.Snapshot.CompanyName, EmployeeName: emp}
	}

	info := dto.DisplayInfo{CompanyName: PlaceholderCompany, EmployeeName: PlaceholderEmployee}

	if r.CompanyID != "" {
		company, err := uc.companyRepo.GetByID(ctx, r.CompanyID)
		if err != nil {
			uc.log.Warn().Err(err).Str("company_id", r.CompanyID).Msg("lookup de empresa en listado")
		} else if company != nil && company.Name != "" {
			info.CompanyName = company.Name
		}
	}
	if r.RequesterID != "" {
		user, err := uc.userRepo.GetByID(ctx, r.RequesterID)
		if err != nil {
			uc.log.Warn().Err(err).Str("user_id", r.RequesterID).Msg("lookup de usuario en listado")
		} else if user != nil && user.FullName() != "" {
			info.EmployeeName = user.FullName()
		}
	}
	return info
}

func (uc *UseCase) toResponse(ctx context.Context, r *entity.VehicleRequest) dto.RequestResponse {
	return dto.RequestResponse{
		ID:                r.ID,
		RequesterID:       r.RequesterID,
		CompanyID:         r.CompanyID,
		BrokerID:          r.BrokerID,
		VehicleID:         r.VehicleID,
		Brand:             r.Brand,
		Model:             r.Model,
		Trim:              r.Trim,
		DurationMonths:    r.DurationMonths,
		MileagePerYear:    r.MileagePerYear,
		Color:             r.Color,
		MonthlyRate:       r.MonthlyRate,
		Kind:              string(r.Kind),
		Category:          string(r.Category),
		Status:            string(r.Status),
		IsOrder:           r.IsOrder,
		OrderNumber:       r.OrderNumber,
		OriginalRequestID: r.OriginalRequestID,
		Display:           uc.resolveDisplay(ctx, r),
		DeliveryDate:      r.DeliveryDate,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}
