package invites

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vilofleet/flota-api/internal/application/dto"
	"github.com/vilofleet/flota-api/internal/domain"
	"github.com/vilofleet/flota-api/internal/domain/entity"
	"github.com/vilofleet/flota-api/internal/domain/repository"
	"github.com/vilofleet/flota-api/pkg/logger"
)

// EmployeeInviteUseCase invitaciones de empleados: emisión por email o link,
// registro, aprobación/denegación y el roster combinado.
type EmployeeInviteUseCase struct {
	inviteRepo repository.EmployeeInviteRepository
	userRepo   repository.UserRepository
	mailer     Mailer
	links      Links
	log        *logger.Logger
}

// NewEmployeeInviteUseCase construye el caso de uso.
func NewEmployeeInviteUseCase(
	inviteRepo repository.EmployeeInviteRepository,
	userRepo repository.UserRepository,
	mailer Mailer,
	links Links,
	log *logger.Logger,
) *EmployeeInviteUseCase {
	return &EmployeeInviteUseCase{inviteRepo: inviteRepo, userRepo: userRepo, mailer: mailer, links: links, log: log}
}

// Invite emite una invitación de empleado.
//
// Para invitaciones por email se comprueba primero que no exista ya una
// invitación pendiente con el mismo email + empresa + portal (DuplicateInvite).
// El chequeo se omite para invitaciones por link: varias personas pueden
// registrarse contra el mismo link compartible.
func (uc *EmployeeInviteUseCase) Invite(ctx context.Context, in dto.InviteEmployeeRequest) (*dto.InviteEmployeeResponse, error) {
	if in.CompanyID == "" || in.InvitedBy == "" {
		return nil, fmt.Errorf("company_id e invited_by son requeridos: %w", domain.ErrInvalidInput)
	}
	portal := entity.PortalType(in.PortalType)
	if portal != entity.PortalNormal && portal != entity.PortalSalary {
		return nil, fmt.Errorf("portal desconocido %q: %w", in.PortalType, domain.ErrInvalidInput)
	}

	method := entity.MethodLink
	if in.Email != "" {
		method = entity.MethodEmail
		existing, err := uc.inviteRepo.FindPending(ctx, in.Email, in.CompanyID, portal)
		if err != nil {
			return nil, fmt.Errorf("buscar invitación pendiente: %w", err)
		}
		if existing != nil {
			return nil, domain.ErrDuplicateInvite
		}
	}

	now := time.Now()
	inv := &entity.EmployeeInvite{
		ID:                uuid.New().String(),
		Email:             in.Email,
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		CompanyID:         in.CompanyID,
		EmployerCompanyID: in.CompanyID,
		PortalType:        portal,
		Role:              entity.RoleForPortal(portal),
		Status:            entity.InviteStatusPending,
		Method:            method,
		Origin:            entity.OriginEmployer,
		InvitedBy:         in.InvitedBy,
		CreatedAt:         now,
	}
	if err := uc.inviteRepo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("crear invitación de empleado: %w", err)
	}

	resp := &dto.InviteEmployeeResponse{
		InviteID: inv.ID,
		Method:   string(method),
		Status:   inv.Status,
	}
	if method == entity.MethodEmail {
		resp.Link = uc.links.EmployeeVerify(string(portal), in.CompanyID, inv.ID)
		if _, mailErr := uc.mailer.SendInvitation(ctx, MailEmployeeInvite, in.Email, map[string]string{
			"link":   resp.Link,
			"portal": string(portal),
		}); mailErr != nil {
			uc.log.Error().Err(mailErr).Str("invite_id", inv.ID).Msg("correo de invitación de empleado no enviado")
			return resp, fmt.Errorf("%w: %v", domain.ErrMailDelivery, mailErr)
		}
		resp.EmailSent = true
	} else {
		resp.Link = uc.links.EmployeeRegister(inv.ID)
	}
	return resp, nil
}

// GenerateLink pregenera una invitación de link sin destinatario. El documento
// es un placeholder: no cuenta en ningún listado hasta que un registrante
// adjunta su email o su usuario.
func (uc *EmployeeInviteUseCase) GenerateLink(ctx context.Context, companyID string, portal entity.PortalType, invitedBy string) (*dto.InviteEmployeeResponse, error) {
	return uc.Invite(ctx, dto.InviteEmployeeRequest{
		CompanyID:  companyID,
		PortalType: string(portal),
		InvitedBy:  invitedBy,
	})
}

// AttachRegistrant adjunta la identidad del registrante a una invitación.
// Es la única mutación permitida a la parte invitada.
func (uc *EmployeeInviteUseCase) AttachRegistrant(ctx context.Context, inviteID string, in dto.AttachRegistrantRequest) error {
	inv, err := uc.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		return fmt.Errorf("cargar invitación: %w", err)
	}
	if inv == nil {
		return domain.ErrNotFound
	}
	if in.UserID == "" {
		return fmt.Errorf("user_id es requerido: %w", domain.ErrInvalidInput)
	}
	inv.UserID = in.UserID
	if in.Email != "" {
		inv.Email = in.Email
	}
	if err := uc.inviteRepo.Update(ctx, inv); err != nil {
		return fmt.Errorf("adjuntar registrante: %w", err)
	}
	return nil
}

// Approve activa una invitación, estampa la fecha y refleja el estado en el
// usuario vinculado si existe; después notifica por correo. El fallo del
// correo no revierte la mutación de estado.
func (uc *EmployeeInviteUseCase) Approve(ctx context.Context, inviteID string) error {
	return uc.decide(ctx, inviteID, true)
}

// Deny rechaza una invitación; misma mecánica que Approve.
func (uc *EmployeeInviteUseCase) Deny(ctx context.Context, inviteID string) error {
	return uc.decide(ctx, inviteID, false)
}

func (uc *EmployeeInviteUseCase) decide(ctx context.Context, inviteID string, approve bool) error {
	inv, err := uc.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		return fmt.Errorf("cargar invitación: %w", err)
	}
	if inv == nil {
		return domain.ErrNotFound
	}

	now := time.Now()
	userStatus := "active"
	mailKind := MailInviteApproved
	if approve {
		inv.Approve(now)
	} else {
		inv.Deny(now)
		userStatus = "rejected"
		mailKind = MailInviteRejected
	}
	if err := uc.inviteRepo.Update(ctx, inv); err != nil {
		return fmt.Errorf("actualizar invitación: %w", err)
	}

	// Espejo sobre el usuario vinculado; independiente del correo.
	if inv.UserID != "" {
		if err := uc.userRepo.UpdateStatus(ctx, inv.UserID, userStatus); err != nil {
			uc.log.Warn().Err(err).Str("user_id", inv.UserID).Msg("no se pudo reflejar el estado en el usuario")
		}
	}

	if inv.Email != "" {
		if _, mailErr := uc.mailer.SendInvitation(ctx, mailKind, inv.Email, map[string]string{
			"portal": string(inv.PortalType),
		}); mailErr != nil {
			uc.log.Error().Err(mailErr).Str("invite_id", inv.ID).Msg("correo de decisión no enviado")
			return fmt.Errorf("%w: %v", domain.ErrMailDelivery, mailErr)
		}
	}
	return nil
}

// ListRoster devuelve el roster combinado y deduplicado de una empresa:
// usuarios registrados más invitaciones, con precedencia del usuario.
func (uc *EmployeeInviteUseCase) ListRoster(ctx context.Context, companyID string) (*dto.RosterResponse, error) {
	users, err := uc.userRepo.ListByCompanyOrEmployer(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("cargar usuarios del roster: %w", err)
	}
	invs, err := uc.inviteRepo.ListByCompanyOrEmployer(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("cargar invitaciones del roster: %w", err)
	}
	items := MergeRoster(users, invs)
	return &dto.RosterResponse{Items: items, Total: len(items)}, nil
}
