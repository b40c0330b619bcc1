package repository

import (
	"context"
	"time"

	"github.com/vilofleet/flota-api/internal/domain/entity"
)

// VerificationRepository puerto de persistencia para tokens de verificación.
type VerificationRepository interface {
	Create(ctx context.Context, v *entity.Verification) error
	// GetByID devuelve (nil, nil) si el token no existe.
	GetByID(ctx context.Context, id string) (*entity.Verification, error)

	// MarkEmailSent registra el envío exitoso del correo de invitación.
	MarkEmailSent(ctx context.Context, id string, at time.Time) error
	// MarkExpired marca el token como vencido (mejor esfuerzo en la lectura).
	MarkExpired(ctx context.Context, id string) error
	// MarkVerified consume el token: verified = true, status = completed.
	MarkVerified(ctx context.Context, id string, at time.Time) error

	// DeleteExpiredUnverified elimina tokens vencidos y no verificados.
	// Devuelve cuántos borró. Lo invoca el barrido periódico.
	DeleteExpiredUnverified(ctx context.Context, now time.Time) (int64, error)
}
