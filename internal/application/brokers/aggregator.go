// Package brokers implementa el agregador read-only del árbol de brokers:
// resolución recursiva de descendientes, estadísticas mensuales y ranking de
// mejores brokers.
package brokers

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vilofleet/flota-api/internal/application/dto"
	"github.com/vilofleet/flota-api/internal/domain"
	"github.com/vilofleet/flota-api/internal/domain/entity"
	"github.com/vilofleet/flota-api/internal/domain/repository"
	"github.com/vilofleet/flota-api/pkg/logger"
)

// topBrokersLimit tamaño por defecto del ranking.
const topBrokersLimit = 5

// Aggregator consulta el árbol de brokers y agrega estadísticas. Solo lee:
// no tiene dependencia de escritura sobre ninguna colección.
type Aggregator struct {
	brokerRepo   repository.BrokerRepository
	companyRepo  repository.CompanyRepository
	customerRepo repository.CustomerRepository
	requestRepo  repository.VehicleRequestRepository
	log          *logger.Logger
}

// NewAggregator construye el agregador.
func NewAggregator(
	brokerRepo repository.BrokerRepository,
	companyRepo repository.CompanyRepository,
	customerRepo repository.CustomerRepository,
	requestRepo repository.VehicleRequestRepository,
	log *logger.Logger,
) *Aggregator {
	return &Aggregator{
		brokerRepo:   brokerRepo,
		companyRepo:  companyRepo,
		customerRepo: customerRepo,
		requestRepo:  requestRepo,
		log:          log,
	}
}

// ResolveDescendantIDs resuelve el conjunto de ids del subárbol de un broker,
// incluido siempre el propio rootID. El recorrido lleva un conjunto de
// visitados: un id repetido termina esa rama y se registra como anomalía de
// integridad en lugar de recursar infinitamente.
func (a *Aggregator) ResolveDescendantIDs(ctx context.Context, rootID string) ([]string, error) {
	visited := make(map[string]bool)
	if err := a.walk(ctx, rootID, byID, visited); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(visited))
	for id := range visited {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// keyFn extrae la clave de identidad de un broker dentro del árbol.
// Según la estadística el encadenado padre-hijo va por id o por email.
type keyFn func(*entity.Broker) string

func byID(b *entity.Broker) string    { return b.ID }
func byEmail(b *entity.Broker) string { return b.Email }

// walk recorre recursivamente los hijos de parentKey. Las ramas hermanas se
// consultan de forma secuencial; la deduplicación la garantiza visited.
func (a *Aggregator) walk(ctx context.Context, parentKey string, key keyFn, visited map[string]bool) error {
	if parentKey == "" {
		return nil
	}
	if visited[parentKey] {
		a.log.Warn().Str("broker_key", parentKey).Msg("ciclo en el árbol de brokers: rama terminada")
		return nil
	}
	visited[parentKey] = true

	children, err := a.brokerRepo.ListChildren(ctx, parentKey)
	if err != nil {
		return fmt.Errorf("hijos de %s: %w", parentKey, err)
	}
	for _, child := range children {
		k := key(child)
		if k == "" {
			continue
		}
		if err := a.walk(ctx, k, key, visited); err != nil {
			return err
		}
	}
	return nil
}

// resolveDescendants devuelve los brokers del subárbol (raíz incluida),
// encadenados por la clave indicada.
func (a *Aggregator) resolveDescendants(ctx context.Context, root *entity.Broker, key keyFn) ([]*entity.Broker, error) {
	visited := make(map[string]bool)
	var out []*entity.Broker
	var walk func(b *entity.Broker) error
	walk = func(b *entity.Broker) error {
		k := key(b)
		if k == "" || visited[k] {
			if visited[k] {
				a.log.Warn().Str("broker_key", k).Msg("ciclo en el árbol de brokers: rama terminada")
			}
			return nil
		}
		visited[k] = true
		out = append(out, b)
		children, err := a.brokerRepo.ListChildren(ctx, k)
		if err != nil {
			return fmt.Errorf("hijos de %s: %w", k, err)
		}
		for _, child := range children {
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}
	return out, nil
}

// ComputeStats agrega las estadísticas mensuales del subárbol de un broker:
// empresas activas, clientes activos y comisión por vehículos entregados en el
// mes en curso. Las tres consultas se lanzan en paralelo.
//
// Comisión por entrega: si el broker del vehículo es la propia raíz suma
// root.Commission; si es un descendiente suma Commission − SubBrokerCommission
// (el diferencial del padre sobre la venta del sub-broker).
func (a *Aggregator) ComputeStats(ctx context.Context, brokerID string) (*dto.BrokerStatsResponse, error) {
	root, err := a.brokerRepo.GetByID(ctx, brokerID)
	if err != nil {
		return nil, fmt.Errorf("cargar broker: %w", err)
	}
	if root == nil {
		return nil, domain.ErrNotFound
	}

	ids, err := a.ResolveDescendantIDs(ctx, root.ID)
	if err != nil {
		return nil, fmt.Errorf("resolver descendientes: %w", err)
	}

	monthStart := startOfMonth(time.Now())

	type countResult struct {
		n   int
		err error
	}
	type deliveredResult struct {
		vehicles []*entity.VehicleRequest
		err      error
	}

	companiesCh := make(chan countResult, 1)
	customersCh := make(chan countResult, 1)
	deliveredCh := make(chan deliveredResult, 1)

	go func() {
		n, err := a.companyRepo.CountActiveByInvitedBy(ctx, ids)
		companiesCh <- countResult{n, err}
	}()
	go func() {
		n, err := a.customerRepo.CountActiveByBrokers(ctx, ids)
		customersCh <- countResult{n, err}
	}()
	go func() {
		vehicles, err := a.requestRepo.ListDeliveredSince(ctx, ids, monthStart)
		deliveredCh <- deliveredResult{vehicles, err}
	}()

	companies := <-companiesCh
	customers := <-customersCh
	delivered := <-deliveredCh

	// Semántica indulgente: un sub-query fallido excluye su métrica del
	// informe en lugar de abortar la agregación completa.
	stats := &dto.BrokerStatsResponse{
		BrokerID:          root.ID,
		MonthlyCommission: decimal.Zero,
		MonthLabel:        monthStart.Format("2006-01"),
	}
	if companies.err != nil {
		a.log.Warn().Err(companies.err).Str("broker_id", root.ID).Msg("conteo de empresas activas")
	} else {
		stats.ActiveCompanies = companies.n
	}
	if customers.err != nil {
		a.log.Warn().Err(customers.err).Str("broker_id", root.ID).Msg("conteo de clientes activos")
	} else {
		stats.ActiveCustomers = customers.n
	}
	if delivered.err != nil {
		a.log.Warn().Err(delivered.err).Str("broker_id", root.ID).Msg("entregas del mes")
		return stats, nil
	}

	differential := root.Commission.Sub(root.SubBrokerCommission)
	for _, v := range delivered.vehicles {
		if v.BrokerID == "" {
			continue
		}
		stats.DeliveredVehicles++
		if v.BrokerID == root.ID {
			stats.MonthlyCommission = stats.MonthlyCommission.Add(root.Commission)
		} else {
			stats.MonthlyCommission = stats.MonthlyCommission.Add(differential)
		}
	}
	return stats, nil
}

// ComputeTopBrokers cuenta las entregas del mes por descendiente (árbol
// encadenado por email), ordena descendente y devuelve los limit mejores con
// su porcentaje respecto al máximo del grupo. Los brokers sin nombre se
// excluyen del ranking; el fallo de un conteo individual excluye solo a ese
// broker.
func (a *Aggregator) ComputeTopBrokers(ctx context.Context, brokerID string, limit int) (*dto.TopBrokersResponse, error) {
	if limit <= 0 {
		limit = topBrokersLimit
	}
	root, err := a.brokerRepo.GetByID(ctx, brokerID)
	if err != nil {
		return nil, fmt.Errorf("cargar broker: %w", err)
	}
	if root == nil {
		return nil, domain.ErrNotFound
	}

	descendants, err := a.resolveDescendants(ctx, root, byEmail)
	if err != nil {
		return nil, fmt.Errorf("resolver descendientes: %w", err)
	}

	monthStart := startOfMonth(time.Now())
	items := make([]dto.TopBrokerDTO, 0, len(descendants))
	for _, b := range descendants {
		if b.FullName() == "" {
			continue
		}
		n, err := a.requestRepo.CountDeliveredByBroker(ctx, b.ID, monthStart)
		if err != nil {
			a.log.Warn().Err(err).Str("broker_id", b.ID).Msg("conteo de entregas del broker")
			continue
		}
		items = append(items, dto.TopBrokerDTO{
			BrokerID:       b.ID,
			Name:           b.FullName(),
			DeliveredCount: n,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DeliveredCount > items[j].DeliveredCount
	})
	if len(items) > limit {
		items = items[:limit]
	}

	max := 0
	for _, it := range items {
		if it.DeliveredCount > max {
			max = it.DeliveredCount
		}
	}
	for i := range items {
		if max > 0 {
			items[i].PercentageOfTop = float64(items[i].DeliveredCount) * 100 / float64(max)
		}
	}
	return &dto.TopBrokersResponse{Items: items}, nil
}

// startOfMonth primer instante del mes en curso.
func startOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}
