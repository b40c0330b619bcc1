package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/vilofleet/flota-api/internal/application/invites"
	"github.com/vilofleet/flota-api/internal/domain/entity"
	"github.com/vilofleet/flota-api/internal/domain/repository"
)

var _ repository.EmployeeInviteRepository = (*EmployeeInviteRepo)(nil)

// EmployeeInviteRepo implementación del puerto EmployeeInviteRepository sobre
// PostgreSQL. Cada escritura emite pg_notify en el canal del roster para que
// los observadores recomputen.
type EmployeeInviteRepo struct {
	db DBTX
}

// NewEmployeeInviteRepository construye el adaptador.
func NewEmployeeInviteRepository(db DBTX) *EmployeeInviteRepo {
	return &EmployeeInviteRepo{db: db}
}

const inviteColumns = `
	id, email, first_name, last_name, company_id, employer_company_id,
	portal_type, role, status, method, origin, invited_by, user_id,
	created_at, approved_at, denied_at`

// Create persiste una invitación nueva.
func (r *EmployeeInviteRepo) Create(ctx context.Context, inv *entity.EmployeeInvite) error {
	query := `
		INSERT INTO employee_invites (` + inviteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.db.Exec(ctx, query,
		inv.ID, inv.Email, inv.FirstName, inv.LastName, inv.CompanyID,
		inv.EmployerCompanyID, string(inv.PortalType), inv.Role, inv.Status,
		string(inv.Method), string(inv.Origin), inv.InvitedBy, inv.UserID,
		inv.CreatedAt, inv.ApprovedAt, inv.DeniedAt,
	)
	if err != nil {
		return fmt.Errorf("insert employee invite: %w", err)
	}
	notify(ctx, r.db, invites.ChannelEmployeeInvites, inv.CompanyID)
	return nil
}

// GetByID obtiene una invitación por ID. Devuelve (nil, nil) si no existe.
func (r *EmployeeInviteRepo) GetByID(ctx context.Context, id string) (*entity.EmployeeInvite, error) {
	query := `SELECT ` + inviteColumns + ` FROM employee_invites WHERE id = $1`
	inv, err := scanInvite(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee invite: %w", err)
	}
	return inv, nil
}

// Update reescribe los campos mutables de la invitación.
func (r *EmployeeInviteRepo) Update(ctx context.Context, inv *entity.EmployeeInvite) error {
	query := `
		UPDATE employee_invites
		   SET email = $2, first_name = $3, last_name = $4, status = $5,
		       user_id = $6, approved_at = $7, denied_at = $8
		 WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query,
		inv.ID, inv.Email, inv.FirstName, inv.LastName, inv.Status,
		inv.UserID, inv.ApprovedAt, inv.DeniedAt,
	)
	if err != nil {
		return fmt.Errorf("update employee invite: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update employee invite %s: no rows", inv.ID)
	}
	notify(ctx, r.db, invites.ChannelEmployeeInvites, inv.CompanyID)
	return nil
}

// FindPending busca una invitación pendiente por email + empresa + portal.
// Devuelve (nil, nil) si no hay ninguna.
func (r *EmployeeInviteRepo) FindPending(ctx context.Context, email, companyID string, portal entity.PortalType) (*entity.EmployeeInvite, error) {
	query := `
		SELECT ` + inviteColumns + `
		  FROM employee_invites
		 WHERE email = $1
		   AND (company_id = $2 OR employer_company_id = $2)
		   AND portal_type = $3
		   AND status = $4
		 LIMIT 1`
	inv, err := scanInvite(r.db.QueryRow(ctx, query, email, companyID, string(portal), entity.InviteStatusPending))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find pending invite: %w", err)
	}
	return inv, nil
}

// ListByCompanyOrEmployer une los resultados por company_id y employer_company_id.
func (r *EmployeeInviteRepo) ListByCompanyOrEmployer(ctx context.Context, companyID string) ([]*entity.EmployeeInvite, error) {
	query := `
		SELECT ` + inviteColumns + `
		  FROM employee_invites
		 WHERE company_id = $1 OR employer_company_id = $1
		 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list employee invites: %w", err)
	}
	defer rows.Close()

	var out []*entity.EmployeeInvite
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee invite: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func scanInvite(row pgx.Row) (*entity.EmployeeInvite, error) {
	var inv entity.EmployeeInvite
	var portal, method, origin string
	var approvedAt, deniedAt *time.Time
	err := row.Scan(
		&inv.ID, &inv.Email, &inv.FirstName, &inv.LastName, &inv.CompanyID,
		&inv.EmployerCompanyID, &portal, &inv.Role, &inv.Status, &method,
		&origin, &inv.InvitedBy, &inv.UserID, &inv.CreatedAt, &approvedAt, &deniedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.PortalType = entity.PortalType(portal)
	inv.Method = entity.InviteMethod(method)
	inv.Origin = entity.InviteOrigin(origin)
	inv.ApprovedAt = approvedAt
	inv.DeniedAt = deniedAt
	return &inv, nil
}
