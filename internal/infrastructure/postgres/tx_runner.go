package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vilofleet/flota-api/internal/application/invites"
	"github.com/vilofleet/flota-api/internal/application/requests"
	"github.com/vilofleet/flota-api/internal/domain/repository"
)

// Ensure TxRunner implementa los puertos de transacción de ambos flujos.
var _ requests.TxRunner = (*TxRunner)(nil)
var _ invites.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con
// repositorios atados a ella.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunRequestTx transacción de la conversión aprobación -> pedido.
func (r *TxRunner) RunRequestTx(ctx context.Context, fn func(repo repository.VehicleRequestRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewVehicleRequestRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunOnboardingTx transacción de los flujos de invitación/registro.
func (r *TxRunner) RunOnboardingTx(ctx context.Context, fn func(
	companyRepo repository.CompanyRepository,
	verificationRepo repository.VerificationRepository,
	userRepo repository.UserRepository,
	brokerRepo repository.BrokerRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = fn(
		NewCompanyRepository(tx),
		NewVerificationRepository(tx),
		NewUserRepository(tx),
		NewBrokerRepository(tx),
	)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
