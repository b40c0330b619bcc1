package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/vilofleet/flota-api/internal/domain/entity"
	"github.com/vilofleet/flota-api/internal/domain/repository"
)

var _ repository.VerificationRepository = (*VerificationRepo)(nil)

// VerificationRepo implementación del puerto VerificationRepository sobre PostgreSQL.
type VerificationRepo struct {
	db DBTX
}

// NewVerificationRepository construye el adaptador.
func NewVerificationRepository(db DBTX) *VerificationRepo {
	return &VerificationRepo{db: db}
}

const verificationColumns = `
	id, type, email, company_id, broker_id, status, verified,
	expires_at, email_sent, email_sent_at, created_at, updated_at`

// Create persiste un token de verificación nuevo.
func (r *VerificationRepo) Create(ctx context.Context, v *entity.Verification) error {
	query := `
		INSERT INTO verifications (` + verificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.Exec(ctx, query,
		v.ID, string(v.Type), v.Email, v.CompanyID, v.BrokerID, v.Status,
		v.Verified, v.ExpiresAt, v.EmailSent, v.EmailSentAt, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert verification: %w", err)
	}
	return nil
}

// GetByID obtiene un token por ID. Devuelve (nil, nil) si no existe.
func (r *VerificationRepo) GetByID(ctx context.Context, id string) (*entity.Verification, error) {
	query := `SELECT ` + verificationColumns + ` FROM verifications WHERE id = $1`
	v, err := scanVerification(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get verification: %w", err)
	}
	return v, nil
}

// MarkEmailSent registra el envío exitoso del correo de invitación.
func (r *VerificationRepo) MarkEmailSent(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE verifications SET email_sent = TRUE, email_sent_at = $2, updated_at = $2 WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, at); err != nil {
		return fmt.Errorf("mark verification email sent: %w", err)
	}
	return nil
}

// MarkExpired marca el token como vencido.
func (r *VerificationRepo) MarkExpired(ctx context.Context, id string) error {
	query := `UPDATE verifications SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, entity.VerificationStatusExpired, time.Now()); err != nil {
		return fmt.Errorf("mark verification expired: %w", err)
	}
	return nil
}

// MarkVerified consume el token: verified = true, status = completed.
func (r *VerificationRepo) MarkVerified(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE verifications SET verified = TRUE, status = $2, updated_at = $3 WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id, entity.VerificationStatusCompleted, at)
	if err != nil {
		return fmt.Errorf("mark verification verified: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("mark verification verified %s: no rows", id)
	}
	return nil
}

// DeleteExpiredUnverified elimina tokens vencidos sin consumir y devuelve cuántos borró.
func (r *VerificationRepo) DeleteExpiredUnverified(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM verifications WHERE expires_at < $1 AND verified = FALSE`
	cmd, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired verifications: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func scanVerification(row pgx.Row) (*entity.Verification, error) {
	var v entity.Verification
	var typ string
	err := row.Scan(
		&v.ID, &typ, &v.Email, &v.CompanyID, &v.BrokerID, &v.Status, &v.Verified,
		&v.ExpiresAt, &v.EmailSent, &v.EmailSentAt, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.Type = entity.VerificationType(typ)
	return &v, nil
}
