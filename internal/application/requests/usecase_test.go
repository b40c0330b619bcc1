package requests_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilofleet/flota-api/internal/application/dto"
	"github.com/vilofleet/flota-api/internal/application/requests"
	"github.com/vilofleet/flota-api/internal/domain"
	"github.com/vilofleet/flota-api/internal/domain/entity"
	"github.com/vilofleet/flota-api/internal/domain/repository"
	"github.com/vilofleet/flota-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeRequestRepo struct {
	byID map[string]*entity.VehicleRequest
	// simula el índice único sobre order_number
	orderNumbers map[string]bool
	// si > 0, Create devuelve ErrDuplicate esa cantidad de veces
	failDuplicates int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{
		byID:         make(map[string]*entity.VehicleRequest),
		orderNumbers: make(map[string]bool),
	}
}

func (f *fakeRequestRepo) Create(_ context.Context, r *entity.VehicleRequest) error {
	if f.failDuplicates > 0 {
		f.failDuplicates--
		return domain.ErrDuplicate
	}
	if r.OrderNumber != "" {
		if f.orderNumbers[r.OrderNumber] {
			return domain.ErrDuplicate
		}
		f.orderNumbers[r.OrderNumber] = true
	}
	cp := *r
	f.byID[r.ID] = &cp
	return nil
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id string) (*entity.VehicleRequest, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRequestRepo) UpdateStatus(_ context.Context, id string, status entity.Status, deliveredAt *time.Time) error {
	r, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Status = status
	if deliveredAt != nil {
		r.DeliveryDate = deliveredAt
	}
	r.UpdatedAt = time.Now()
	return nil
}

func (f *fakeRequestRepo) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeRequestRepo) ListAll(_ context.Context) ([]*entity.VehicleRequest, error) {
	out := make([]*entity.VehicleRequest, 0, len(f.byID))
	for _, r := range f.byID {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeRequestRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.VehicleRequest, error) {
	all, _ := f.ListAll(ctx)
	var out []*entity.VehicleRequest
	for _, r := range all {
		if r.CompanyID == companyID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) ListByUser(ctx context.Context, userID string) ([]*entity.VehicleRequest, error) {
	all, _ := f.ListAll(ctx)
	var out []*entity.VehicleRequest
	for _, r := range all {
		if r.RequesterID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) ListByBroker(ctx context.Context, brokerID string) ([]*entity.VehicleRequest, error) {
	all, _ := f.ListAll(ctx)
	var out []*entity.VehicleRequest
	for _, r := range all {
		if r.BrokerID == brokerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) ListDeliveredSince(_ context.Context, _ []string, _ time.Time) ([]*entity.VehicleRequest, error) {
	return nil, nil
}

func (f *fakeRequestRepo) CountDeliveredByBroker(_ context.Context, _ string, _ time.Time) (int, error) {
	return 0, nil
}

type fakeCompanyRepo struct {
	byID map[string]*entity.Company
}

func (f *fakeCompanyRepo) Create(context.Context, *entity.Company) error { return nil }
func (f *fakeCompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	return f.byID[id], nil
}
func (f *fakeCompanyRepo) Update(context.Context, *entity.Company) error { return nil }
func (f *fakeCompanyRepo) List(context.Context, int, int) ([]*entity.Company, error) {
	return nil, nil
}
func (f *fakeCompanyRepo) SetVerification(context.Context, string, string) error { return nil }
func (f *fakeCompanyRepo) Activate(context.Context, string, string, time.Time) error {
	return nil
}
func (f *fakeCompanyRepo) AppendEmailLog(context.Context, string, entity.EmailLogEntry) error {
	return nil
}
func (f *fakeCompanyRepo) CountActiveByInvitedBy(context.Context, []string) (int, error) {
	return 0, nil
}

type fakeUserRepo struct {
	byID map[string]*entity.User
}

func (f *fakeUserRepo) Create(context.Context, *entity.User) error { return nil }
func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return f.byID[id], nil
}
func (f *fakeUserRepo) FindByEmail(context.Context, string) (*entity.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) UpdateStatus(context.Context, string, string) error { return nil }
func (f *fakeUserRepo) ListByCompanyOrEmployer(context.Context, string) ([]*entity.User, error) {
	return nil, nil
}

// fakeTx ejecuta el callback directamente contra el repositorio subyacente.
type fakeTx struct {
	repo repository.VehicleRequestRepository
}

func (f *fakeTx) RunRequestTx(_ context.Context, fn func(repo repository.VehicleRequestRepository) error) error {
	return fn(f.repo)
}

func newTestUseCase() (*requests.UseCase, *fakeRequestRepo, *fakeCompanyRepo, *fakeUserRepo) {
	repo := newFakeRequestRepo()
	companies := &fakeCompanyRepo{byID: make(map[string]*entity.Company)}
	users := &fakeUserRepo{byID: make(map[string]*entity.User)}
	uc := requests.NewUseCase(repo, companies, users, &fakeTx{repo: repo}, logger.Nop())
	return uc, repo, companies, users
}

func validSubmit() dto.SubmitRequestRequest {
	return dto.SubmitRequestRequest{
		RequesterID:    "user-1",
		CompanyID:      "company-1",
		Brand:          "VW",
		Model:          "ID.4",
		DurationMonths: 36,
		MileagePerYear: 15000,
		MonthlyRate:    decimal.NewFromInt(499),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Submit
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_CreaSolicitudPendiente(t *testing.T) {
	uc, repo, _, _ := newTestUseCase()

	out, err := uc.Submit(context.Background(), validSubmit())
	require.NoError(t, err)

	assert.Equal(t, string(entity.StatusPending), out.Status)
	assert.Equal(t, string(entity.KindRegular), out.Kind, "kind por defecto debe ser regular")
	assert.Equal(t, string(entity.CategoryPrivate), out.Category, "categoría por defecto debe ser private")
	assert.False(t, out.IsOrder)
	assert.Empty(t, out.OrderNumber)

	stored, err := repo.GetByID(context.Background(), out.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NoError(t, stored.Validate())
}

func TestSubmit_ConfiguracionIncompleta(t *testing.T) {
	uc, _, _, _ := newTestUseCase()

	in := validSubmit()
	in.DurationMonths = 0
	_, err := uc.Submit(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = validSubmit()
	in.MileagePerYear = -1
	_, err = uc.Submit(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = validSubmit()
	in.Brand = ""
	_, err = uc.Submit(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSubmit_ConversionSalarialNoPuedeSerPedidoDirecto(t *testing.T) {
	uc, _, _, _ := newTestUseCase()

	in := validSubmit()
	in.Kind = string(entity.KindSalaryConversion)
	in.IsOrder = true
	_, err := uc.Submit(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSubmit_SnapshotSeConserva(t *testing.T) {
	uc, _, _, _ := newTestUseCase()

	in := validSubmit()
	in.CompanyName = "Muster GmbH"
	in.EmployeeName = "Max Muster"
	out, err := uc.Submit(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "Muster GmbH", out.Display.CompanyName)
	assert.Equal(t, "Max Muster", out.Display.EmployeeName)
}

// ──────────────────────────────────────────────────────────────────────────────
// ApproveAndConvertToOrder
// ──────────────────────────────────────────────────────────────────────────────

func TestApprove_CreaPedidoNuevoYApruebaOrigen(t *testing.T) {
	uc, repo, _, _ := newTestUseCase()

	src, err := uc.Submit(context.Background(), validSubmit())
	require.NoError(t, err)

	order, err := uc.ApproveAndConvertToOrder(context.Background(), src.ID)
	require.NoError(t, err)

	// El pedido es un documento nuevo, no la solicitud mutada.
	assert.NotEqual(t, src.ID, order.ID)
	assert.True(t, order.IsOrder)
	assert.Equal(t, string(entity.StatusCreditCheckStarted), order.Status)
	assert.Equal(t, src.ID, order.OriginalRequestID)
	assert.Regexp(t, `^VILO-\d{8}-\d{4}$`, order.OrderNumber)

	// La solicitud origen queda en approved y nunca se vuelve pedido.
	stored, err := repo.GetByID(context.Background(), src.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, stored.Status)
	assert.False(t, stored.IsOrder)
	assert.Empty(t, stored.OrderNumber)
}

func TestApprove_ConversionSalarialUsaSuEstadoPropio(t *testing.T) {
	uc, repo, _, _ := newTestUseCase()

	in := validSubmit()
	in.Kind = string(entity.KindSalaryConversion)
	src, err := uc.Submit(context.Background(), in)
	require.NoError(t, err)

	order, err := uc.ApproveAndConvertToOrder(context.Background(), src.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.StatusCreditCheckStarted), order.Status)

	stored, err := repo.GetByID(context.Background(), src.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSalaryConversionApproved, stored.Status)
}

func TestApprove_ExactamenteUnaVez(t *testing.T) {
	uc, _, _, _ := newTestUseCase()

	src, err := uc.Submit(context.Background(), validSubmit())
	require.NoError(t, err)

	_, err = uc.ApproveAndConvertToOrder(context.Background(), src.ID)
	require.NoError(t, err)

	// Una segunda aprobación no produce otro pedido.
	_, err = uc.ApproveAndConvertToOrder(context.Background(), src.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestApprove_Inexistente(t *testing.T) {
	uc, _, _, _ := newTestUseCase()
	_, err := uc.ApproveAndConvertToOrder(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApprove_ReintentaTrasColisionDeNumero(t *testing.T) {
	uc, repo, _, _ := newTestUseCase()

	src, err := uc.Submit(context.Background(), validSubmit())
	require.NoError(t, err)

	// Las dos primeras inserciones chocan con el índice único simulado.
	repo.failDuplicates = 2
	order, err := uc.ApproveAndConvertToOrder(context.Background(), src.ID)
	require.NoError(t, err, "la conversión debe reintentar con un número nuevo")
	assert.Regexp(t, `^VILO-\d{8}-\d{4}$`, order.OrderNumber)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transition
// ──────────────────────────────────────────────────────────────────────────────

func TestTransition_AprobacionDebeUsarLaConversion(t *testing.T) {
	uc, _, _, _ := newTestUseCase()

	src, err := uc.Submit(context.Background(), validSubmit())
	require.NoError(t, err)

	_, err = uc.Transition(context.Background(), src.ID, entity.StatusApproved)
	assert.ErrorIs(t, err, domain.ErrUseConversion)

	_, err = uc.Transition(context.Background(), src.ID, entity.StatusSalaryConversionApproved)
	assert.ErrorIs(t, err, domain.ErrUseConversion)
}

func TestTransition_EstadoDesconocido(t *testing.T) {
	uc, _, _, _ := newTestUseCase()
	_, err := uc.Transition(context.Background(), "x", entity.Status("archived"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransition_NoPermitida(t *testing.T) {
	uc, _, _, _ := newTestUseCase()

	src, err := uc.Submit(context.Background(), validSubmit())
	require.NoError(t, err)

	// pending no puede saltar al flujo post-pedido.
	_, err = uc.Transition(context.Background(), src.ID, entity.StatusInDelivery)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestTransition_EstampaFechaDeEntrega(t *testing.T) {
	uc, repo, _, _ := newTestUseCase()

	src, err := uc.Submit(context.Background(), validSubmit())
	require.NoError(t, err)
	order, err := uc.ApproveAndConvertToOrder(context.Background(), src.ID)
	require.NoError(t, err)

	for _, s := range []entity.Status{
		entity.StatusCreditCheckPassed,
		entity.StatusLeaseContractSent,
		entity.StatusLeaseContractSigned,
		entity.StatusInDelivery,
	} {
		_, err = uc.Transition(context.Background(), order.ID, s)
		require.NoError(t, err, "transición a %s", s)
	}

	out, err := uc.Transition(context.Background(), order.ID, entity.StatusDelivered)
	require.NoError(t, err)
	require.NotNil(t, out.DeliveryDate, "delivered debe estampar la fecha de entrega")

	stored, err := repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.DeliveryDate)
}

func TestTransition_EstadoSalarialSobreSolicitudRegular(t *testing.T) {
	uc, _, _, _ := newTestUseCase()

	src, err := uc.Submit(context.Background(), validSubmit())
	require.NoError(t, err)

	_, err = uc.Transition(context.Background(), src.ID, entity.StatusSalaryConversionRejected)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_SoloAdmin(t *testing.T) {
	uc, repo, _, users := newTestUseCase()

	users.byID["admin-1"] = &entity.User{ID: "admin-1", Role: entity.RoleAdmin}
	users.byID["emp-1"] = &entity.User{ID: "emp-1", Role: entity.RoleCustomer}

	src, err := uc.Submit(context.Background(), validSubmit())
	require.NoError(t, err)

	// Un empleado no puede eliminar.
	err = uc.Delete(context.Background(), src.ID, "emp-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Un usuario desconocido tampoco.
	err = uc.Delete(context.Background(), src.ID, "fantasma")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// El admin sí.
	err = uc.Delete(context.Background(), src.ID, "admin-1")
	require.NoError(t, err)
	stored, err := repo.GetByID(context.Background(), src.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestDelete_Inexistente(t *testing.T) {
	uc, _, _, users := newTestUseCase()
	users.byID["admin-1"] = &entity.User{ID: "admin-1", Role: entity.RoleAdmin}

	err := uc.Delete(context.Background(), "no-existe", "admin-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listados y resolución de presentación
// ──────────────────────────────────────────────────────────────────────────────

func TestListByCompany_DegradaAPlaceholders(t *testing.T) {
	uc, _, _, _ := newTestUseCase()

	// Sin snapshot y sin empresa/usuario resolubles.
	in := validSubmit()
	_, err := uc.Submit(context.Background(), in)
	require.NoError(t, err)

	out, err := uc.ListByCompany(context.Background(), "company-1")
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, requests.PlaceholderCompany, out.Items[0].Display.CompanyName)
	assert.Equal(t, requests.PlaceholderEmployee, out.Items[0].Display.EmployeeName)
}

func TestListByCompany_ResuelveReferenciasVivas(t *testing.T) {
	uc, _, companies, users := newTestUseCase()

	companies.byID["company-1"] = &entity.Company{ID: "company-1", Name: "Muster GmbH"}
	users.byID["user-1"] = &entity.User{ID: "user-1", FirstName: "Max", LastName: "Muster"}

	_, err := uc.Submit(context.Background(), validSubmit())
	require.NoError(t, err)

	out, err := uc.ListByCompany(context.Background(), "company-1")
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Muster GmbH", out.Items[0].Display.CompanyName)
	assert.Equal(t, "Max Muster", out.Items[0].Display.EmployeeName)
}
