package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vilofleet/flota-api/internal/application/invites"
	"github.com/vilofleet/flota-api/pkg/logger"
)

// Ensure Listener implementa el puerto de suscripción del roster.
var _ invites.ChangeListener = (*Listener)(nil)

// Listener entrega notificaciones LISTEN/NOTIFY de PostgreSQL. Cada
// suscripción toma una conexión dedicada del pool; la función de cancelación
// la libera. La entrega es al menos una vez: los consumidores recomputan su
// estado desde la DB, no parchean.
type Listener struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewListener construye el listener sobre el pool.
func NewListener(pool *pgxpool.Pool, log *logger.Logger) *Listener {
	return &Listener{pool: pool, log: log}
}

// Subscribe escucha los canales indicados y devuelve un canal con los
// payloads de cada notificación más la función de cancelación.
func (l *Listener) Subscribe(ctx context.Context, channels ...string) (<-chan string, func(), error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, nil, err
	}
	for _, ch := range channels {
		if _, err := conn.Exec(ctx, "LISTEN "+pgIdentifier(ch)); err != nil {
			conn.Release()
			return nil, nil, err
		}
	}

	subCtx, cancel := context.WithCancel(ctx)
	out := make(chan string, 16)

	go func() {
		defer close(out)
		defer conn.Release()
		for {
			n, err := conn.Conn().WaitForNotification(subCtx)
			if err != nil {
				if subCtx.Err() == nil {
					l.log.Warn().Err(err).Msg("suscripción LISTEN terminada")
				}
				return
			}
			select {
			case out <- n.Payload:
			case <-subCtx.Done():
				return
			}
		}
	}()

	return out, cancel, nil
}

// pgIdentifier entrecomilla un identificador para LISTEN (no admite placeholders).
func pgIdentifier(name string) string {
	out := make([]byte, 0, len(name)+2)
	out = append(out, '"')
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '"' {
			out = append(out, '"', '"')
		} else {
			out = append(out, c)
		}
	}
	return string(append(out, '"'))
}
