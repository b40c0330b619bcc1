// Package invites implementa el flujo de invitaciones y aprobaciones:
// onboarding de empresas, empleadores y brokers vía tokens de verificación,
// invitaciones de empleados con deduplicación y el roster combinado.
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
	"golang.org/x/crypto/bcrypt"
)

// CompanyInviteUseCase emite y consume invitaciones de empresa, empleador y broker.
type CompanyInviteUseCase struct {
	companyRepo      repository.CompanyRepository
	verificationRepo repository.VerificationRepository
	userRepo         repository.UserRepository
	brokerRepo       repository.BrokerRepository
	tx               TxRunner
	mailer           Mailer
	links            Links
	ttl              time.Duration
	log              *logger.Logger
}

// NewCompanyInviteUseCase construye el caso de uso.
func NewCompanyInviteUseCase(
	companyRepo repository.CompanyRepository,
	verificationRepo repository.VerificationRepository,
	userRepo repository.UserRepository,
	brokerRepo repository.BrokerRepository,
	tx TxRunner,
	mailer Mailer,
	links Links,
	ttl time.Duration,
	log *logger.Logger,
) *CompanyInviteUseCase {
	return &CompanyInviteUseCase{
		companyRepo:      companyRepo,
		verificationRepo: verificationRepo,
		userRepo:         userRepo,
		brokerRepo:       brokerRepo,
		tx:               tx,
		mailer:           mailer,
		links:            links,
		ttl:              ttl,
		log:              log,
	}
}

// Invite crea el shell (empresa en pending, salvo invitaciones de broker) y su
// token de verificación en una escritura por lotes, luego dispara el correo.
//
// Si el envío de correo falla los documentos YA creados se conservan con
// emailSent = false y el error se propaga envuelto en ErrMailDelivery para que
// el caller decida reintentar solo la notificación.
func (uc *CompanyInviteUseCase) Invite(ctx context.Context, in dto.InviteCompanyRequest) (*dto.InviteCompanyResponse, error) {
	vType := entity.VerificationType(in.Kind)
	switch vType {
	case entity.VerificationCompanyInvite, entity.VerificationEmployerInvite, entity.VerificationBrokerInvite:
	default:
		return nil, fmt.Errorf("tipo de invitación desconocido %q: %w", in.Kind, domain.ErrInvalidInput)
	}
	if in.Email == "" {
		return nil, fmt.Errorf("email es requerido: %w", domain.ErrInvalidInput)
	}

	now := time.Now()
	verification := &entity.Verification{
		ID:        uuid.New().String(),
		Type:      vType,
		Email:     in.Email,
		BrokerID:  in.BrokerID,
		Status:    entity.VerificationStatusPending,
		ExpiresAt: now.Add(uc.ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}

	var companyID string
	err := uc.tx.RunOnboardingTx(ctx, func(
		companyRepo repository.CompanyRepository,
		verificationRepo repository.VerificationRepository,
		_ repository.UserRepository,
		_ repository.BrokerRepository,
	) error {
		if vType != entity.VerificationBrokerInvite {
			company := &entity.Company{
				ID:        uuid.New().String(),
				Name:      in.CompanyName,
				Status:    entity.CompanyStatusPending,
				InvitedBy: in.BrokerID,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := companyRepo.Create(ctx, company); err != nil {
				return err
			}
			companyID = company.ID
			verification.CompanyID = company.ID
		}
		if err := verificationRepo.Create(ctx, verification); err != nil {
			return err
		}
		if companyID != "" {
			return companyRepo.SetVerification(ctx, companyID, verification.ID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("crear invitación: %w", err)
	}

	resp := &dto.InviteCompanyResponse{
		CompanyID:      companyID,
		VerificationID: verification.ID,
		Link:           uc.links.Verify(verification.ID),
		ExpiresAt:      verification.ExpiresAt,
	}

	if _, mailErr := uc.mailer.SendInvitation(ctx, in.Kind, in.Email, map[string]string{
		"link":         resp.Link,
		"company_name": in.CompanyName,
	}); mailErr != nil {
		uc.log.Error().Err(mailErr).Str("verification_id", verification.ID).Msg("correo de invitación no enviado")
		uc.appendEmailLog(ctx, companyID, in.Kind, false, mailErr.Error())
		return resp, fmt.Errorf("%w: %v", domain.ErrMailDelivery, mailErr)
	}

	if err := uc.verificationRepo.MarkEmailSent(ctx, verification.ID, time.Now()); err != nil {
		uc.log.Warn().Err(err).Str("verification_id", verification.ID).Msg("no se pudo marcar emailSent")
	} else {
		resp.EmailSent = true
	}
	uc.appendEmailLog(ctx, companyID, in.Kind, true, "")
	return resp, nil
}

// VerifyToken valida un token antes de honrarlo: NotFound si no existe,
// Expired si venció (marcándolo expired de forma oportunista) y AlreadyUsed si
// ya fue consumido.
func (uc *CompanyInviteUseCase) VerifyToken(ctx context.Context, tokenID string) (*dto.VerificationResponse, error) {
	v, err := uc.loadValidToken(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	return &dto.VerificationResponse{
		ID:        v.ID,
		Type:      string(v.Type),
		Email:     v.Email,
		CompanyID: v.CompanyID,
		Status:    v.Status,
		ExpiresAt: v.ExpiresAt,
	}, nil
}

// CompleteRegistration consume el token y cierra el alta: crea la cuenta de
// usuario, activa la empresa (o crea el broker) y marca el token verificado.
// Las tres escrituras van en una transacción: si un paso falla no queda un
// token consumido sin cuenta detrás.
func (uc *CompanyInviteUseCase) CompleteRegistration(ctx context.Context, tokenID string, in dto.CompleteRegistrationRequest) (*dto.UserResponse, error) {
	if in.FirstName == "" || in.LastName == "" || len(in.Password) < 8 {
		return nil, fmt.Errorf("nombre, apellido y password (mínimo 8) son requeridos: %w", domain.ErrInvalidInput)
	}
	v, err := uc.loadValidToken(ctx, tokenID)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashear password: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    v.CompanyID,
		Email:        v.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	switch v.Type {
	case entity.VerificationBrokerInvite:
		user.Role = entity.RoleBroker
	case entity.VerificationEmployerInvite:
		user.Role = entity.RoleEmployer
	default:
		user.Role = entity.RoleCustomer
	}

	err = uc.tx.RunOnboardingTx(ctx, func(
		companyRepo repository.CompanyRepository,
		verificationRepo repository.VerificationRepository,
		userRepo repository.UserRepository,
		brokerRepo repository.BrokerRepository,
	) error {
		if err := userRepo.Create(ctx, user); err != nil {
			return err
		}
		if v.Type == entity.VerificationBrokerInvite {
			broker := &entity.Broker{
				ID:                  user.ID,
				Email:               v.Email,
				ParentBrokerID:      v.BrokerID,
				FirstName:           in.FirstName,
				LastName:            in.LastName,
				Phone:               in.Phone,
				Commission:          entity.DefaultCommission,
				SubBrokerCommission: entity.DefaultSubBrokerCommission,
				CreatedAt:           now,
				UpdatedAt:           now,
			}
			if err := brokerRepo.Create(ctx, broker); err != nil {
				return err
			}
		} else if v.CompanyID != "" {
			if err := companyRepo.Activate(ctx, v.CompanyID, user.ID, now); err != nil {
				return err
			}
		}
		return verificationRepo.MarkVerified(ctx, v.ID, now)
	})
	if err != nil {
		return nil, fmt.Errorf("completar registro: %w", err)
	}

	return &dto.UserResponse{
		ID:        user.ID,
		CompanyID: user.CompanyID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		Status:    user.Status,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}, nil
}

// SweepExpired elimina tokens vencidos y no verificados. Lo dispara el cron.
func (uc *CompanyInviteUseCase) SweepExpired(ctx context.Context) (int64, error) {
	n, err := uc.verificationRepo.DeleteExpiredUnverified(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("barrido de tokens vencidos: %w", err)
	}
	if n > 0 {
		uc.log.Info().Int64("deleted", n).Msg("tokens de verificación vencidos eliminados")
	}
	return n, nil
}

func (uc *CompanyInviteUseCase) loadValidToken(ctx context.Context, tokenID string) (*entity.Verification, error) {
	v, err := uc.verificationRepo.GetByID(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("cargar token: %w", err)
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	if v.Expired(time.Now()) && !v.Verified {
		if markErr := uc.verificationRepo.MarkExpired(ctx, v.ID); markErr != nil {
			uc.log.Warn().Err(markErr).Str("verification_id", v.ID).Msg("no se pudo marcar el token como expirado")
		}
		return nil, domain.ErrExpired
	}
	if v.Consumed() {
		return nil, domain.ErrAlreadyUsed
	}
	return v, nil
}

// appendEmailLog registra el intento de envío en la empresa; mejor esfuerzo.
func (uc *CompanyInviteUseCase) appendEmailLog(ctx context.Context, companyID, mailType string, success bool, errMsg string) {
	if companyID == "" {
		return
	}
	entry := entity.EmailLogEntry{Type: mailType, SentAt: time.Now(), Success: success, Error: errMsg}
	if err := uc.companyRepo.AppendEmailLog(ctx, companyID, entry); err != nil {
		uc.log.Warn().Err(err).Str("company_id", companyID).Msg("no se pudo registrar el email log")
	}
}
