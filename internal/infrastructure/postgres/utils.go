package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX lo satisfacen *pgxpool.Pool y pgx.Tx: permite construir los
// repositorios tanto sobre el pool como atados a una transacción.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isNoRows verifica si un error es pgx.ErrNoRows.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// notify emite un pg_notify en el canal indicado; mejor esfuerzo, los
// suscriptores recomputan desde la DB así que perder un payload no corrompe nada.
func notify(ctx context.Context, db DBTX, channel, payload string) {
	_, _ = db.Exec(ctx, `SELECT pg_notify($1, $2)`, channel, payload)
}
