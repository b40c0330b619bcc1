package requests

import (
	"context"

	"github.com/vilofleet/flota-api/internal/domain/entity"
	"github.com/vilofleet/flota-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con un repositorio de
// solicitudes atado a ella. Lo implementa postgres.TxRunner.
//
// La conversión aprobación -> pedido escribe dos documentos (el pedido nuevo y
// el estado de la solicitud origen) como una única escritura por lotes.
type TxRunner interface {
	RunRequestTx(ctx context.Context, fn func(repo repository.VehicleRequestRepository) error) error
}

// OrderPDFGenerator genera la confirmación de pedido en PDF.
// La implementación vive en infrastructure/pdf.
type OrderPDFGenerator interface {
	GenerateOrderPDF(ctx context.Context, order *entity.VehicleRequest, company *entity.Company) ([]byte, error)
}
