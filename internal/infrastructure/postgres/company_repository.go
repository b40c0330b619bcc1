package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/vilofleet/flota-api/internal/domain/entity"
	"github.com/vilofleet/flota-api/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
// El registro de correos se guarda como jsonb y se anexa sin reescribirlo.
type CompanyRepo struct {
	db DBTX
}

// NewCompanyRepository construye el adaptador.
func NewCompanyRepository(db DBTX) *CompanyRepo {
	return &CompanyRepo{db: db}
}

const companyColumns = `
	id, name, status, invited_by, owner_id, verification_id,
	street, city, postal_code, employee_count, logo_url, email_log,
	created_at, updated_at`

// Create persiste una empresa nueva.
func (r *CompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	emailLog, err := json.Marshal(company.EmailLog)
	if err != nil {
		return fmt.Errorf("marshal email log: %w", err)
	}
	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err = r.db.Exec(ctx, query,
		company.ID, company.Name, company.Status, company.InvitedBy,
		company.OwnerID, company.VerificationID, company.Address.Street,
		company.Address.City, company.Address.PostalCode, company.EmployeeCount,
		company.LogoURL, emailLog, company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID. Devuelve (nil, nil) si no existe.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	c, err := scanCompany(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// Update reescribe los campos mutables de la empresa. No toca email_log, que
// solo crece vía AppendEmailLog.
func (r *CompanyRepo) Update(ctx context.Context, company *entity.Company) error {
	query := `
		UPDATE companies
		   SET name = $2, status = $3, owner_id = $4, street = $5, city = $6,
		       postal_code = $7, employee_count = $8, logo_url = $9, updated_at = $10
		 WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query,
		company.ID, company.Name, company.Status, company.OwnerID,
		company.Address.Street, company.Address.City, company.Address.PostalCode,
		company.EmployeeCount, company.LogoURL, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update company %s: no rows", company.ID)
	}
	return nil
}

// List devuelve empresas paginadas, más recientes primero.
func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var out []*entity.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SetVerification vincula el shell con su token de verificación.
func (r *CompanyRepo) SetVerification(ctx context.Context, companyID, verificationID string) error {
	query := `UPDATE companies SET verification_id = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, companyID, verificationID, time.Now()); err != nil {
		return fmt.Errorf("set company verification: %w", err)
	}
	return nil
}

// Activate pasa la empresa de pending a active y fija el propietario.
func (r *CompanyRepo) Activate(ctx context.Context, companyID, ownerID string, at time.Time) error {
	query := `UPDATE companies SET status = $2, owner_id = $3, updated_at = $4 WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, companyID, entity.CompanyStatusActive, ownerID, at)
	if err != nil {
		return fmt.Errorf("activate company: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("activate company %s: no rows", companyID)
	}
	return nil
}

// AppendEmailLog anexa una entrada al jsonb de correos sin leer el resto.
func (r *CompanyRepo) AppendEmailLog(ctx context.Context, companyID string, entry entity.EmailLogEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal email log entry: %w", err)
	}
	query := `
		UPDATE companies
		   SET email_log = COALESCE(email_log, '[]'::jsonb) || $2::jsonb, updated_at = $3
		 WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, companyID, payload, time.Now()); err != nil {
		return fmt.Errorf("append company email log: %w", err)
	}
	return nil
}

// CountActiveByInvitedBy cuenta empresas activas invitadas por cualquiera de
// los brokers indicados.
func (r *CompanyRepo) CountActiveByInvitedBy(ctx context.Context, brokerIDs []string) (int, error) {
	query := `SELECT COUNT(*) FROM companies WHERE status = $1 AND invited_by = ANY($2)`
	var n int
	if err := r.db.QueryRow(ctx, query, entity.CompanyStatusActive, brokerIDs).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active companies: %w", err)
	}
	return n, nil
}

func scanCompany(row pgx.Row) (*entity.Company, error) {
	var c entity.Company
	var emailLog []byte
	err := row.Scan(
		&c.ID, &c.Name, &c.Status, &c.InvitedBy, &c.OwnerID, &c.VerificationID,
		&c.Address.Street, &c.Address.City, &c.Address.PostalCode,
		&c.EmployeeCount, &c.LogoURL, &emailLog, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(emailLog) > 0 {
		if err := json.Unmarshal(emailLog, &c.EmailLog); err != nil {
			return nil, fmt.Errorf("unmarshal email log: %w", err)
		}
	}
	return &c, nil
}
