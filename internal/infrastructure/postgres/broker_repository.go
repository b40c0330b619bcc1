package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vilofleet/flota-api/internal/domain"
	"github.com/vilofleet/flota-api/internal/domain/entity"
	"github.com/vilofleet/flota-api/internal/domain/repository"
)

var _ repository.BrokerRepository = (*BrokerRepo)(nil)

// BrokerRepo implementación del puerto BrokerRepository sobre PostgreSQL.
type BrokerRepo struct {
	db DBTX
}

// NewBrokerRepository construye el adaptador.
func NewBrokerRepository(db DBTX) *BrokerRepo {
	return &BrokerRepo{db: db}
}

const brokerColumns = `
	id, email, parent_broker_id, first_name, last_name, company_name, phone,
	street, city, postal_code, commission, sub_broker_commission,
	created_at, updated_at`

// Create persiste un broker nuevo.
func (r *BrokerRepo) Create(ctx context.Context, b *entity.Broker) error {
	query := `
		INSERT INTO brokers (` + brokerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.db.Exec(ctx, query,
		b.ID, b.Email, b.ParentBrokerID, b.FirstName, b.LastName, b.CompanyName,
		b.Phone, b.Address.Street, b.Address.City, b.Address.PostalCode,
		b.Commission, b.SubBrokerCommission, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert broker: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert broker: %w", err)
	}
	return nil
}

// GetByID obtiene un broker por ID. Devuelve (nil, nil) si no existe.
func (r *BrokerRepo) GetByID(ctx context.Context, id string) (*entity.Broker, error) {
	query := `SELECT ` + brokerColumns + ` FROM brokers WHERE id = $1`
	b, err := scanBroker(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get broker: %w", err)
	}
	return b, nil
}

// GetByEmail busca un broker por email. Devuelve (nil, nil) si no existe.
func (r *BrokerRepo) GetByEmail(ctx context.Context, email string) (*entity.Broker, error) {
	query := `SELECT ` + brokerColumns + ` FROM brokers WHERE email = $1`
	b, err := scanBroker(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get broker by email: %w", err)
	}
	return b, nil
}

// ListChildren devuelve los brokers cuyo parent_broker_id es parentKey.
// La columna guarda id o email según cómo se encadenó el alta; el agregador
// recorre con la clave que corresponda.
func (r *BrokerRepo) ListChildren(ctx context.Context, parentKey string) ([]*entity.Broker, error) {
	query := `SELECT ` + brokerColumns + ` FROM brokers WHERE parent_broker_id = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, parentKey)
	if err != nil {
		return nil, fmt.Errorf("list broker children: %w", err)
	}
	defer rows.Close()

	var out []*entity.Broker
	for rows.Next() {
		b, err := scanBroker(rows)
		if err != nil {
			return nil, fmt.Errorf("scan broker: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBroker(row pgx.Row) (*entity.Broker, error) {
	var b entity.Broker
	err := row.Scan(
		&b.ID, &b.Email, &b.ParentBrokerID, &b.FirstName, &b.LastName,
		&b.CompanyName, &b.Phone, &b.Address.Street, &b.Address.City,
		&b.Address.PostalCode, &b.Commission, &b.SubBrokerCommission,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
