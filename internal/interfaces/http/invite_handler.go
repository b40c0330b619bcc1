package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/vilofleet/flota-api/internal/application/dto"
	"github.com/vilofleet/flota-api/internal/application/invites"
	"github.com/vilofleet/flota-api/internal/domain"
)

// InviteHandler maneja invitaciones de empresa/empleador/broker y sus tokens.
type InviteHandler struct {
	uc *invites.CompanyInviteUseCase
}

// NewInviteHandler construye el handler.
func NewInviteHandler(uc *invites.CompanyInviteUseCase) *InviteHandler {
	return &InviteHandler{uc: uc}
}

// InviteCompany godoc
// @Summary      Emitir una invitación de empresa, empleador o broker
// @Description  Crea el shell de empresa y el token de verificación en una escritura atómica y dispara el correo.
// @Tags         invites
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InviteCompanyRequest  true  "Datos de la invitación"
// @Success      201   {object}  dto.InviteCompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/invites/companies [post]
func (h *InviteHandler) InviteCompany(c *fiber.Ctx) error {
	var in dto.InviteCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	out, err := h.uc.Invite(c.Context(), in)
	if err != nil {
		// El fallo de correo no revierte los documentos: la invitación existe
		// y se devuelve junto al error para que el cliente pueda reintentar el envío.
		if errors.Is(err, domain.ErrMailDelivery) && out != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"invitation": out,
				"error":      dto.ErrorResponse{Code: "MAIL_DELIVERY", Message: "la invitación se creó pero el correo no pudo enviarse"},
			})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// VerifyToken godoc
// @Summary      Consultar un token de verificación
// @Tags         invites
// @Produce      json
// @Param        id   path      string  true  "ID del token"
// @Success      200  {object}  dto.VerificationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      410  {object}  dto.ErrorResponse
// @Router       /api/verifications/{id} [get]
func (h *InviteHandler) VerifyToken(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	out, err := h.uc.VerifyToken(c.Context(), id)
	if err != nil {
		return h.tokenError(c, err)
	}
	return c.JSON(out)
}

// CompleteRegistration godoc
// @Summary      Completar el registro a partir de un token válido
// @Description  Crea el usuario, activa la empresa (o crea el broker) y consume el token como unidad de consistencia.
// @Tags         invites
// @Accept       json
// @Produce      json
// @Param        id    path  string                           true  "ID del token"
// @Param        body  body  dto.CompleteRegistrationRequest  true  "Datos del registrante"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      410   {object}  dto.ErrorResponse
// @Router       /api/verifications/{id}/complete [post]
func (h *InviteHandler) CompleteRegistration(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.CompleteRegistrationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	out, err := h.uc.CompleteRegistration(c.Context(), id, in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el email ya está registrado"})
		}
		return h.tokenError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// tokenError mapea la taxonomía de errores de tokens de verificación.
func (h *InviteHandler) tokenError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "token no encontrado"})
	}
	if errors.Is(err, domain.ErrExpired) {
		return c.Status(fiber.StatusGone).JSON(dto.ErrorResponse{Code: "EXPIRED", Message: "el token expiró"})
	}
	if errors.Is(err, domain.ErrAlreadyUsed) {
		return c.Status(fiber.StatusGone).JSON(dto.ErrorResponse{Code: "ALREADY_USED", Message: "el token ya fue utilizado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
