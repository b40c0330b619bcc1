package requests

import (
	"context"
	"fmt"

	"github.com/vilofleet/flota-api/internal/domain"
	"github.com/vilofleet/flota-api/internal/domain/repository"
)

// PDFUseCase genera la confirmación de pedido en PDF para pedidos convertidos.
type PDFUseCase struct {
	repo        repository.VehicleRequestRepository
	companyRepo repository.CompanyRepository
	generator   OrderPDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(
	repo repository.VehicleRequestRepository,
	companyRepo repository.CompanyRepository,
	generator OrderPDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{repo: repo, companyRepo: companyRepo, generator: generator}
}

// GetOrderPDF devuelve los bytes del PDF de confirmación. Solo aplica a
// documentos que ya son pedido (IsOrder con número asignado).
func (uc *PDFUseCase) GetOrderPDF(ctx context.Context, requestID string) ([]byte, error) {
	order, err := uc.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("cargar pedido: %w", err)
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if !order.IsOrder {
		return nil, fmt.Errorf("la solicitud aún no es pedido: %w", domain.ErrConflict)
	}
	// La empresa puede faltar: el PDF degrada igual que los listados.
	company, err := uc.companyRepo.GetByID(ctx, order.CompanyID)
	if err != nil {
		company = nil
	}
	pdf, err := uc.generator.GenerateOrderPDF(ctx, order, company)
	if err != nil {
		return nil, fmt.Errorf("generar PDF de pedido: %w", err)
	}
	return pdf, nil
}
