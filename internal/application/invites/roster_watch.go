package invites

import (
	"context"

	"github.com/vilofleet/flota-api/internal/application/dto"
	"github.com/vilofleet/flota-api/pkg/logger"
)

// Canales de notificación sobre los que se reconstruye el roster.
const (
	ChannelEmployeeInvites = "employee_invites"
	ChannelUsers           = "users"
)

// RosterWatcher observa las dos fuentes del roster (usuarios e invitaciones) y
// re-emite el conjunto combinado completo ante cada notificación de cualquiera
// de ellas. El merge se recalcula siempre desde cero, nunca se parchea
// incrementalmente; la entrega al menos una vez del listener hace la
// recomputación idempotente.
type RosterWatcher struct {
	uc       *EmployeeInviteUseCase
	listener ChangeListener
	log      *logger.Logger
}

// NewRosterWatcher construye el watcher.
func NewRosterWatcher(uc *EmployeeInviteUseCase, listener ChangeListener, log *logger.Logger) *RosterWatcher {
	return &RosterWatcher{uc: uc, listener: listener, log: log}
}

// Watch emite el roster de la empresa: un snapshot inicial y uno nuevo por
// cada cambio en cualquiera de las fuentes. La función de cancelación
// devuelta libera la suscripción y cierra el canal de salida; el caller es
// responsable de invocarla cuando pierde interés.
func (w *RosterWatcher) Watch(ctx context.Context, companyID string) (<-chan []dto.RosterEntryDTO, func(), error) {
	events, unsubscribe, err := w.listener.Subscribe(ctx, ChannelEmployeeInvites, ChannelUsers)
	if err != nil {
		return nil, nil, err
	}

	out := make(chan []dto.RosterEntryDTO, 1)
	done := make(chan struct{})

	emit := func() {
		roster, err := w.uc.ListRoster(ctx, companyID)
		if err != nil {
			// Fallo transitorio de lectura: se conserva el último snapshot
			// emitido y se espera la siguiente notificación.
			w.log.Warn().Err(err).Str("company_id", companyID).Msg("recomputar roster")
			return
		}
		// Si el consumidor va atrasado se descarta el snapshot obsoleto.
		select {
		case out <- roster.Items:
		default:
			select {
			case <-out:
			default:
			}
			out <- roster.Items
		}
	}

	go func() {
		defer close(out)
		emit()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				emit()
			}
		}
	}()

	cancel := func() {
		unsubscribe()
		close(done)
	}
	return out, cancel, nil
}
