package invites_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilofleet/flota-api/internal/application/invites"
	"github.com/vilofleet/flota-api/internal/domain/entity"
)

func TestMergeRoster_ElUsuarioRegistradoGana(t *testing.T) {
	users := []*entity.User{
		{ID: "u1", Email: "max@firma.de", FirstName: "Max", LastName: "Muster", Status: "active", Role: entity.RoleEmployeeNormal},
	}
	inv := []*entity.EmployeeInvite{
		// Misma persona por email: debe quedar fuera.
		{ID: "i1", Email: "max@firma.de", FirstName: "Max", Status: entity.InviteStatusPending},
		// Misma persona por usuario vinculado: también fuera.
		{ID: "i2", UserID: "u1", Status: entity.InviteStatusPending},
		// Persona distinta: entra como invite.
		{ID: "i3", Email: "erika@firma.de", FirstName: "Erika", LastName: "Muster", Status: entity.InviteStatusPending},
	}

	out := invites.MergeRoster(users, inv)
	require.Len(t, out, 2)

	bySource := map[string]string{}
	for _, e := range out {
		bySource[e.Email] = e.Source
	}
	assert.Equal(t, "user", bySource["max@firma.de"])
	assert.Equal(t, "invite", bySource["erika@firma.de"])
}

func TestMergeRoster_ExcluyePlaceholders(t *testing.T) {
	inv := []*entity.EmployeeInvite{
		// Link pregenerado: sin email ni usuario, no cuenta.
		{ID: "i1", Status: entity.InviteStatusPending, Method: entity.MethodLink},
		{ID: "i2", Email: "erika@firma.de", Status: entity.InviteStatusPending},
	}
	out := invites.MergeRoster(nil, inv)
	require.Len(t, out, 1)
	assert.Equal(t, "i2", out[0].ID)
}

func TestMergeRoster_InviteConUsuarioPeroSinEmailNoEsPlaceholder(t *testing.T) {
	inv := []*entity.EmployeeInvite{
		{ID: "i1", UserID: "u-nuevo", Status: entity.InviteStatusPending},
	}
	out := invites.MergeRoster(nil, inv)
	require.Len(t, out, 1)
	assert.Equal(t, "invite", out[0].Source)
	assert.Equal(t, "i1", out[0].InviteID)
}

func TestMergeRoster_DeduplicaEntreInvitaciones(t *testing.T) {
	inv := []*entity.EmployeeInvite{
		{ID: "i1", Email: "erika@firma.de", Status: entity.InviteStatusPending},
		// Mismo email en un documento distinto: solo entra el primero.
		{ID: "i2", Email: "erika@firma.de", Status: entity.InviteStatusActive},
	}
	out := invites.MergeRoster(nil, inv)
	require.Len(t, out, 1)
	assert.Equal(t, "i1", out[0].ID)
}

func TestMergeRoster_EsPuraEInsensibleAlOrden(t *testing.T) {
	users := []*entity.User{
		{ID: "u1", Email: "max@firma.de", FirstName: "Max", Status: "active"},
		{ID: "u2", Email: "anna@firma.de", FirstName: "Anna", Status: "active"},
	}
	inv := []*entity.EmployeeInvite{
		{ID: "i1", Email: "erika@firma.de", FirstName: "Erika", Status: entity.InviteStatusPending},
		{ID: "i2", Email: "max@firma.de", Status: entity.InviteStatusPending},
	}

	a := invites.MergeRoster(users, inv)
	// Mismo snapshot con las fuentes en otro orden.
	usersRev := []*entity.User{users[1], users[0]}
	invRev := []*entity.EmployeeInvite{inv[1], inv[0]}
	b := invites.MergeRoster(usersRev, invRev)

	assert.Equal(t, a, b, "el merge debe ser determinista sobre el mismo snapshot")

	// Recalcular sobre el resultado no cambia nada (idempotencia lógica).
	c := invites.MergeRoster(users, inv)
	assert.Equal(t, a, c)
}

func TestMergeRoster_OrdenEstable(t *testing.T) {
	users := []*entity.User{
		{ID: "u2", Email: "zoe@firma.de", FirstName: "Zoe", Status: "active"},
		{ID: "u1", Email: "anna@firma.de", FirstName: "Anna", Status: "active"},
	}
	out := invites.MergeRoster(users, nil)
	require.Len(t, out, 2)
	assert.Equal(t, "Anna", out[0].Name)
	assert.Equal(t, "Zoe", out[1].Name)
}
