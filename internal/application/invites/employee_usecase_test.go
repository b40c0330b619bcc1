package invites_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilofleet/flota-api/internal/application/dto"
	"github.com/vilofleet/flota-api/internal/application/invites"
	"github.com/vilofleet/flota-api/internal/domain"
	"github.com/vilofleet/flota-api/internal/domain/entity"
	"github.com/vilofleet/flota-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeInviteRepo struct {
	byID map[string]*entity.EmployeeInvite
}

func newFakeInviteRepo() *fakeInviteRepo {
	return &fakeInviteRepo{byID: make(map[string]*entity.EmployeeInvite)}
}

func (f *fakeInviteRepo) Create(_ context.Context, inv *entity.EmployeeInvite) error {
	cp := *inv
	f.byID[inv.ID] = &cp
	return nil
}

func (f *fakeInviteRepo) GetByID(_ context.Context, id string) (*entity.EmployeeInvite, error) {
	inv, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeInviteRepo) Update(_ context.Context, inv *entity.EmployeeInvite) error {
	if _, ok := f.byID[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *inv
	f.byID[inv.ID] = &cp
	return nil
}

func (f *fakeInviteRepo) FindPending(_ context.Context, email, companyID string, portal entity.PortalType) (*entity.EmployeeInvite, error) {
	for _, inv := range f.byID {
		if inv.Email == email &&
			(inv.CompanyID == companyID || inv.EmployerCompanyID == companyID) &&
			inv.PortalType == portal &&
			inv.Status == entity.InviteStatusPending {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeInviteRepo) ListByCompanyOrEmployer(_ context.Context, companyID string) ([]*entity.EmployeeInvite, error) {
	var out []*entity.EmployeeInvite
	for _, inv := range f.byID {
		if inv.CompanyID == companyID || inv.EmployerCompanyID == companyID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	byID     map[string]*entity.User
	statuses map[string]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*entity.User), statuses: make(map[string]string)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return f.byID[id], nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) UpdateStatus(_ context.Context, id, status string) error {
	f.statuses[id] = status
	if u, ok := f.byID[id]; ok {
		u.Status = status
	}
	return nil
}

func (f *fakeUserRepo) ListByCompanyOrEmployer(_ context.Context, companyID string) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range f.byID {
		if u.CompanyID == companyID || u.EmployerCompanyID == companyID {
			out = append(out, u)
		}
	}
	return out, nil
}

type sentMail struct {
	kind      string
	recipient string
	params    map[string]string
}

type fakeMailer struct {
	fail bool
	sent []sentMail
}

func (f *fakeMailer) SendInvitation(_ context.Context, kind, recipient string, params map[string]string) (string, error) {
	if f.fail {
		return "", errors.New("smtp: conexión rechazada")
	}
	f.sent = append(f.sent, sentMail{kind: kind, recipient: recipient, params: params})
	return "<msg@test>", nil
}

func newEmployeeUC() (*invites.EmployeeInviteUseCase, *fakeInviteRepo, *fakeUserRepo, *fakeMailer) {
	invRepo := newFakeInviteRepo()
	userRepo := newFakeUserRepo()
	mailer := &fakeMailer{}
	uc := invites.NewEmployeeInviteUseCase(invRepo, userRepo, mailer, invites.Links{BaseURL: "https://app.test"}, logger.Nop())
	return uc, invRepo, userRepo, mailer
}

// ──────────────────────────────────────────────────────────────────────────────
// Invite / GenerateLink
// ──────────────────────────────────────────────────────────────────────────────

func TestEmployeeInvite_PorEmail(t *testing.T) {
	uc, invRepo, _, mailer := newEmployeeUC()

	out, err := uc.Invite(context.Background(), dto.InviteEmployeeRequest{
		Email:      "max@firma.de",
		CompanyID:  "company-1",
		PortalType: string(entity.PortalNormal),
		InvitedBy:  "employer-1",
		FirstName:  "Max",
	})
	require.NoError(t, err)

	assert.Equal(t, string(entity.MethodEmail), out.Method)
	assert.True(t, out.EmailSent)
	assert.Contains(t, out.Link, "/verify/employee/normal")

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, invites.MailEmployeeInvite, mailer.sent[0].kind)
	assert.Equal(t, "max@firma.de", mailer.sent[0].recipient)

	stored, err := invRepo.GetByID(context.Background(), out.InviteID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, entity.InviteStatusPending, stored.Status)
	assert.Equal(t, entity.RoleEmployeeNormal, stored.Role)
}

func TestEmployeeInvite_DuplicadaMismoEmailEmpresaYPortal(t *testing.T) {
	uc, _, _, _ := newEmployeeUC()

	in := dto.InviteEmployeeRequest{
		Email:      "max@firma.de",
		CompanyID:  "company-1",
		PortalType: string(entity.PortalNormal),
		InvitedBy:  "employer-1",
	}
	_, err := uc.Invite(context.Background(), in)
	require.NoError(t, err)

	_, err = uc.Invite(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrDuplicateInvite)

	// El mismo email en el otro portal sí se permite.
	in.PortalType = string(entity.PortalSalary)
	_, err = uc.Invite(context.Background(), in)
	assert.NoError(t, err)
}

func TestEmployeeInvite_FalloDeCorreoConservaLaInvitacion(t *testing.T) {
	uc, invRepo, _, mailer := newEmployeeUC()
	mailer.fail = true

	out, err := uc.Invite(context.Background(), dto.InviteEmployeeRequest{
		Email:      "max@firma.de",
		CompanyID:  "company-1",
		PortalType: string(entity.PortalNormal),
		InvitedBy:  "employer-1",
	})
	assert.ErrorIs(t, err, domain.ErrMailDelivery)
	require.NotNil(t, out, "la invitación creada se devuelve aunque el correo falle")
	assert.False(t, out.EmailSent)

	stored, err := invRepo.GetByID(context.Background(), out.InviteID)
	require.NoError(t, err)
	assert.NotNil(t, stored, "la invitación persiste pese al fallo de correo")
}

func TestGenerateLink_PlaceholderSinDedup(t *testing.T) {
	uc, invRepo, _, mailer := newEmployeeUC()

	a, err := uc.GenerateLink(context.Background(), "company-1", entity.PortalSalary, "employer-1")
	require.NoError(t, err)
	b, err := uc.GenerateLink(context.Background(), "company-1", entity.PortalSalary, "employer-1")
	require.NoError(t, err)

	// Sin destinatario no aplica el chequeo de duplicados ni se envía correo.
	assert.NotEqual(t, a.InviteID, b.InviteID)
	assert.Empty(t, mailer.sent)
	assert.Equal(t, string(entity.MethodLink), a.Method)
	assert.True(t, strings.HasSuffix(a.Link, "/register/employee/"+a.InviteID))

	stored, err := invRepo.GetByID(context.Background(), a.InviteID)
	require.NoError(t, err)
	assert.True(t, stored.Placeholder())
	assert.Equal(t, entity.RoleEmployeeSalary, stored.Role)
}

func TestEmployeeInvite_PortalDesconocido(t *testing.T) {
	uc, _, _, _ := newEmployeeUC()
	_, err := uc.Invite(context.Background(), dto.InviteEmployeeRequest{
		CompanyID:  "company-1",
		PortalType: "vip",
		InvitedBy:  "employer-1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// AttachRegistrant
// ──────────────────────────────────────────────────────────────────────────────

func TestAttachRegistrant(t *testing.T) {
	uc, invRepo, _, _ := newEmployeeUC()

	link, err := uc.GenerateLink(context.Background(), "company-1", entity.PortalNormal, "employer-1")
	require.NoError(t, err)

	err = uc.AttachRegistrant(context.Background(), link.InviteID, dto.AttachRegistrantRequest{
		UserID: "u1",
		Email:  "max@firma.de",
	})
	require.NoError(t, err)

	stored, err := invRepo.GetByID(context.Background(), link.InviteID)
	require.NoError(t, err)
	assert.Equal(t, "u1", stored.UserID)
	assert.Equal(t, "max@firma.de", stored.Email)
	assert.False(t, stored.Placeholder())
}

func TestAttachRegistrant_RequiereUsuario(t *testing.T) {
	uc, _, _, _ := newEmployeeUC()

	link, err := uc.GenerateLink(context.Background(), "company-1", entity.PortalNormal, "employer-1")
	require.NoError(t, err)

	err = uc.AttachRegistrant(context.Background(), link.InviteID, dto.AttachRegistrantRequest{Email: "max@firma.de"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAttachRegistrant_Inexistente(t *testing.T) {
	uc, _, _, _ := newEmployeeUC()
	err := uc.AttachRegistrant(context.Background(), "no-existe", dto.AttachRegistrantRequest{UserID: "u1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Approve / Deny
// ──────────────────────────────────────────────────────────────────────────────

func TestApprove_ActivaYReflejaEnUsuario(t *testing.T) {
	uc, invRepo, userRepo, mailer := newEmployeeUC()
	userRepo.byID["u1"] = &entity.User{ID: "u1", Status: "inactive"}

	out, err := uc.Invite(context.Background(), dto.InviteEmployeeRequest{
		Email:      "max@firma.de",
		CompanyID:  "company-1",
		PortalType: string(entity.PortalNormal),
		InvitedBy:  "employer-1",
	})
	require.NoError(t, err)
	require.NoError(t, uc.AttachRegistrant(context.Background(), out.InviteID, dto.AttachRegistrantRequest{UserID: "u1"}))

	mailer.sent = nil
	require.NoError(t, uc.Approve(context.Background(), out.InviteID))

	stored, err := invRepo.GetByID(context.Background(), out.InviteID)
	require.NoError(t, err)
	assert.Equal(t, entity.InviteStatusActive, stored.Status)
	assert.NotNil(t, stored.ApprovedAt)
	assert.Equal(t, "active", userRepo.statuses["u1"])

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, invites.MailInviteApproved, mailer.sent[0].kind)
}

func TestDeny_RechazaYReflejaEnUsuario(t *testing.T) {
	uc, invRepo, userRepo, mailer := newEmployeeUC()
	userRepo.byID["u1"] = &entity.User{ID: "u1", Status: "inactive"}

	out, err := uc.Invite(context.Background(), dto.InviteEmployeeRequest{
		Email:      "max@firma.de",
		CompanyID:  "company-1",
		PortalType: string(entity.PortalNormal),
		InvitedBy:  "employer-1",
	})
	require.NoError(t, err)
	require.NoError(t, uc.AttachRegistrant(context.Background(), out.InviteID, dto.AttachRegistrantRequest{UserID: "u1"}))

	mailer.sent = nil
	require.NoError(t, uc.Deny(context.Background(), out.InviteID))

	stored, err := invRepo.GetByID(context.Background(), out.InviteID)
	require.NoError(t, err)
	assert.Equal(t, entity.InviteStatusRejected, stored.Status)
	assert.NotNil(t, stored.DeniedAt)
	assert.Equal(t, "rejected", userRepo.statuses["u1"])

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, invites.MailInviteRejected, mailer.sent[0].kind)
}

func TestDecide_ElEstadoPersisteAunqueElCorreoFalle(t *testing.T) {
	uc, invRepo, _, mailer := newEmployeeUC()

	out, err := uc.Invite(context.Background(), dto.InviteEmployeeRequest{
		Email:      "max@firma.de",
		CompanyID:  "company-1",
		PortalType: string(entity.PortalNormal),
		InvitedBy:  "employer-1",
	})
	require.NoError(t, err)

	mailer.fail = true
	err = uc.Approve(context.Background(), out.InviteID)
	assert.ErrorIs(t, err, domain.ErrMailDelivery)

	// La mutación de estado no se revierte por el fallo del correo.
	stored, err := invRepo.GetByID(context.Background(), out.InviteID)
	require.NoError(t, err)
	assert.Equal(t, entity.InviteStatusActive, stored.Status)
}

func TestDecide_Inexistente(t *testing.T) {
	uc, _, _, _ := newEmployeeUC()
	assert.ErrorIs(t, uc.Approve(context.Background(), "no-existe"), domain.ErrNotFound)
	assert.ErrorIs(t, uc.Deny(context.Background(), "no-existe"), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// ListRoster
// ──────────────────────────────────────────────────────────────────────────────

func TestListRoster_CombinaUsuariosEInvitaciones(t *testing.T) {
	uc, _, userRepo, _ := newEmployeeUC()

	userRepo.byID["u1"] = &entity.User{
		ID: "u1", CompanyID: "company-1", Email: "max@firma.de",
		FirstName: "Max", Status: "active",
	}

	// Invitación dirigida y un link placeholder que no debe contar.
	_, err := uc.Invite(context.Background(), dto.InviteEmployeeRequest{
		Email:      "erika@firma.de",
		CompanyID:  "company-1",
		PortalType: string(entity.PortalNormal),
		InvitedBy:  "employer-1",
	})
	require.NoError(t, err)
	_, err = uc.GenerateLink(context.Background(), "company-1", entity.PortalNormal, "employer-1")
	require.NoError(t, err)

	out, err := uc.ListRoster(context.Background(), "company-1")
	require.NoError(t, err)
	require.Equal(t, 2, out.Total)

	sources := map[string]string{}
	for _, e := range out.Items {
		sources[e.Email] = e.Source
	}
	assert.Equal(t, "user", sources["max@firma.de"])
	assert.Equal(t, "invite", sources["erika@firma.de"])
}
