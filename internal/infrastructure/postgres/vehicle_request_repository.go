package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/vilofleet/flota-api/internal/domain"
	"github.com/vilofleet/flota-api/internal/domain/entity"
	"github.com/vilofleet/flota-api/internal/domain/repository"
)

// Asegura que VehicleRequestRepo implementa repository.VehicleRequestRepository.
var _ repository.VehicleRequestRepository = (*VehicleRequestRepo)(nil)

// VehicleRequestRepo implementación del puerto VehicleRequestRepository sobre PostgreSQL.
type VehicleRequestRepo struct {
	db DBTX
}

// NewVehicleRequestRepository construye el adaptador; acepta el pool o una transacción.
func NewVehicleRequestRepository(db DBTX) *VehicleRequestRepo {
	return &VehicleRequestRepo{db: db}
}

const requestColumns = `
	id, requester_id, company_id, broker_id, vehicle_id, brand, model, trim,
	duration_months, mileage_per_year, color, monthly_rate, kind, category,
	status, is_order, order_number, original_request_id,
	snapshot_company_name, snapshot_employee_name, delivery_date, created_at, updated_at`

// Create persiste una solicitud o pedido nuevo.
// Devuelve domain.ErrDuplicate si el número de pedido colisiona con el índice único.
func (r *VehicleRequestRepo) Create(ctx context.Context, req *entity.VehicleRequest) error {
	query := `
		INSERT INTO vehicle_requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23)`
	var snapCompany, snapEmployee *string
	if req.Snapshot != nil {
		snapCompany = &req.Snapshot.CompanyName
		snapEmployee = &req.Snapshot.EmployeeName
	}
	_, err := r.db.Exec(ctx, query,
		req.ID, req.RequesterID, req.CompanyID, req.BrokerID, req.VehicleID,
		req.Brand, req.Model, req.Trim, req.DurationMonths, req.MileagePerYear,
		req.Color, req.MonthlyRate, string(req.Kind), string(req.Category),
		string(req.Status), req.IsOrder, req.OrderNumber, req.OriginalRequestID,
		snapCompany, snapEmployee, req.DeliveryDate, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert vehicle request: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert vehicle request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID. Devuelve (nil, nil) si no existe.
func (r *VehicleRequestRepo) GetByID(ctx context.Context, id string) (*entity.VehicleRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM vehicle_requests WHERE id = $1`
	req, err := scanRequest(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vehicle request: %w", err)
	}
	return req, nil
}

// UpdateStatus escribe el estado, updated_at y opcionalmente la fecha de entrega.
func (r *VehicleRequestRepo) UpdateStatus(ctx context.Context, id string, status entity.Status, deliveredAt *time.Time) error {
	query := `
		UPDATE vehicle_requests
		   SET status = $2, delivery_date = COALESCE($3, delivery_date), updated_at = $4
		 WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id, string(status), deliveredAt, time.Now())
	if err != nil {
		return fmt.Errorf("update vehicle request status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una solicitud por ID.
func (r *VehicleRequestRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM vehicle_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete vehicle request: %w", err)
	}
	return nil
}

// ListAll devuelve todas las solicitudes, más recientes primero.
func (r *VehicleRequestRepo) ListAll(ctx context.Context) ([]*entity.VehicleRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM vehicle_requests ORDER BY created_at DESC`
	return r.list(ctx, query)
}

// ListByCompany devuelve las solicitudes de una empresa.
func (r *VehicleRequestRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.VehicleRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM vehicle_requests WHERE company_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, companyID)
}

// ListByUser devuelve las solicitudes de un solicitante.
func (r *VehicleRequestRepo) ListByUser(ctx context.Context, userID string) ([]*entity.VehicleRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM vehicle_requests WHERE requester_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

// ListByBroker devuelve las solicitudes captadas por un broker.
func (r *VehicleRequestRepo) ListByBroker(ctx context.Context, brokerID string) ([]*entity.VehicleRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM vehicle_requests WHERE broker_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, brokerID)
}

// ListDeliveredSince pedidos entregados desde since por los brokers indicados.
func (r *VehicleRequestRepo) ListDeliveredSince(ctx context.Context, brokerIDs []string, since time.Time) ([]*entity.VehicleRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		  FROM vehicle_requests
		 WHERE broker_id = ANY($1)
		   AND status = $2
		   AND delivery_date >= $3
		 ORDER BY delivery_date DESC`
	return r.list(ctx, query, brokerIDs, string(entity.StatusDelivered), since)
}

// CountDeliveredByBroker cuenta entregas de un broker desde since.
func (r *VehicleRequestRepo) CountDeliveredByBroker(ctx context.Context, brokerID string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM vehicle_requests
		 WHERE broker_id = $1 AND status = $2 AND delivery_date >= $3`
	var n int
	if err := r.db.QueryRow(ctx, query, brokerID, string(entity.StatusDelivered), since).Scan(&n); err != nil {
		return 0, fmt.Errorf("count delivered by broker: %w", err)
	}
	return n, nil
}

func (r *VehicleRequestRepo) list(ctx context.Context, query string, args ...any) ([]*entity.VehicleRequest, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vehicle requests: %w", err)
	}
	defer rows.Close()

	var out []*entity.VehicleRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle request: %w", err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func scanRequest(row pgx.Row) (*entity.VehicleRequest, error) {
	var req entity.VehicleRequest
	var kind, category, status string
	var snapCompany, snapEmployee *string
	err := row.Scan(
		&req.ID, &req.RequesterID, &req.CompanyID, &req.BrokerID, &req.VehicleID,
		&req.Brand, &req.Model, &req.Trim, &req.DurationMonths, &req.MileagePerYear,
		&req.Color, &req.MonthlyRate, &kind, &category, &status, &req.IsOrder,
		&req.OrderNumber, &req.OriginalRequestID, &snapCompany, &snapEmployee,
		&req.DeliveryDate, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	req.Kind = entity.RequestKind(kind)
	req.Category = entity.Category(category)
	req.Status = entity.Status(status)
	if snapCompany != nil || snapEmployee != nil {
		req.Snapshot = &entity.DisplaySnapshot{}
		if snapCompany != nil {
			req.Snapshot.CompanyName = *snapCompany
		}
		if snapEmployee != nil {
			req.Snapshot.EmployeeName = *snapEmployee
		}
	}
	return &req, nil
}
