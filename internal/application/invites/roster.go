package invites

import (
	"sort"

	"github.com/vilofleet/flota-api/internal/application/dto"
	"github.com/vilofleet/flota-api/internal/domain/entity"
)

// MergeRoster combina usuarios registrados e invitaciones en un único roster
// lógico. El orden de las reglas es contrato y no debe alterarse:
//
//  1. Se descartan invitaciones sin email NI usuario vinculado (placeholders
//     de links pregenerados).
//  2. Se indexan primero los usuarios registrados, por id y por email; ante
//     conflicto gana siempre el dato del usuario registrado.
//  3. Las invitaciones entran solo si ninguna de sus claves (id, usuario
//     vinculado o email) está ya presente.
//  4. Una pasada final elimina duplicados restantes por igualdad id-o-email.
//
// La función es pura y total: recalcularla sobre el mismo snapshot produce
// siempre el mismo conjunto, sin importar el orden de llegada de las fuentes.
func MergeRoster(users []*entity.User, invites []*entity.EmployeeInvite) []dto.RosterEntryDTO {
	seen := make(map[string]bool, len(users)*2)
	entries := make([]dto.RosterEntryDTO, 0, len(users)+len(invites))

	for _, u := range users {
		if u == nil {
			continue
		}
		entries = append(entries, dto.RosterEntryDTO{
			ID:         u.ID,
			Email:      u.Email,
			Name:       u.FullName(),
			Role:       u.Role,
			PortalType: string(u.PortalType),
			Status:     u.Status,
			Source:     "user",
		})
		seen[u.ID] = true
		if u.Email != "" {
			seen[u.Email] = true
		}
	}

	for _, inv := range invites {
		if inv == nil || inv.Placeholder() {
			continue
		}
		if seen[inv.ID] || (inv.UserID != "" && seen[inv.UserID]) || (inv.Email != "" && seen[inv.Email]) {
			continue
		}
		entries = append(entries, dto.RosterEntryDTO{
			ID:         inv.ID,
			Email:      inv.Email,
			Name:       inviteName(inv),
			Role:       inv.Role,
			PortalType: string(inv.PortalType),
			Status:     inv.Status,
			Source:     "invite",
			InviteID:   inv.ID,
		})
		seen[inv.ID] = true
		if inv.UserID != "" {
			seen[inv.UserID] = true
		}
		if inv.Email != "" {
			seen[inv.Email] = true
		}
	}

	entries = dedupeByIDOrEmail(entries)

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		if entries[i].Email != entries[j].Email {
			return entries[i].Email < entries[j].Email
		}
		return entries[i].ID < entries[j].ID
	})
	return entries
}

// dedupeByIDOrEmail pasada final del merge: conserva la primera aparición de
// cada id y de cada email.
func dedupeByIDOrEmail(entries []dto.RosterEntryDTO) []dto.RosterEntryDTO {
	byID := make(map[string]bool, len(entries))
	byEmail := make(map[string]bool, len(entries))
	out := entries[:0]
	for _, e := range entries {
		if byID[e.ID] {
			continue
		}
		if e.Email != "" && byEmail[e.Email] {
			continue
		}
		byID[e.ID] = true
		if e.Email != "" {
			byEmail[e.Email] = true
		}
		out = append(out, e)
	}
	return out
}

func inviteName(inv *entity.EmployeeInvite) string {
	switch {
	case inv.FirstName == "" && inv.LastName == "":
		return ""
	case inv.FirstName == "":
		return inv.LastName
	case inv.LastName == "":
		return inv.FirstName
	}
	return inv.FirstName + " " + inv.LastName
}
