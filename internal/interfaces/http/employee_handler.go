package http

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"github.com/vilofleet/flota-api/internal/application/dto"
	"github.com/vilofleet/flota-api/internal/application/invites"
	"github.com/vilofleet/flota-api/internal/domain"
	"github.com/vilofleet/flota-api/internal/domain/entity"
)

// EmployeeHandler maneja invitaciones de empleado y el roster combinado.
type EmployeeHandler struct {
	uc      *invites.EmployeeInviteUseCase
	watcher *invites.RosterWatcher
}

// NewEmployeeHandler construye el handler.
func NewEmployeeHandler(uc *invites.EmployeeInviteUseCase, watcher *invites.RosterWatcher) *EmployeeHandler {
	return &EmployeeHandler{uc: uc, watcher: watcher}
}

// Invite godoc
// @Summary      Invitar a un empleado por email
// @Tags         employees
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InviteEmployeeRequest  true  "Datos de la invitación"
// @Success      201   {object}  dto.InviteEmployeeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invites/employees [post]
func (h *EmployeeHandler) Invite(c *fiber.Ctx) error {
	var in dto.InviteEmployeeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.CompanyID == "" {
		in.CompanyID = GetCompanyID(c)
	}
	if in.InvitedBy == "" {
		in.InvitedBy = GetUserID(c)
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	out, err := h.uc.Invite(c.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateInvite) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_INVITE", Message: "ya existe una invitación pendiente para ese email, empresa y portal"})
		}
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

// GenerateLink godoc
// @Summary      Generar un link de registro de empleado compartible
// @Tags         employees
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InviteEmployeeRequest  true  "Empresa y portal"
// @Success      201   {object}  dto.InviteEmployeeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/invites/employees/link [post]
func (h *EmployeeHandler) GenerateLink(c *fiber.Ctx) error {
	var in dto.InviteEmployeeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.CompanyID == "" {
		in.CompanyID = GetCompanyID(c)
	}
	if in.InvitedBy == "" {
		in.InvitedBy = GetUserID(c)
	}
	out, err := h.uc.GenerateLink(c.Context(), in.CompanyID, entity.PortalType(in.PortalType), in.InvitedBy)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AttachRegistrant godoc
// @Summary      Adjuntar el registrante a una invitación de link
// @Description  Única mutación permitida a la parte invitada: vincular su usuario y email.
// @Tags         employees
// @Accept       json
// @Param        id    path  string                      true  "ID de la invitación"
// @Param        body  body  dto.AttachRegistrantRequest  true  "Identidad del registrante"
// @Success      204
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invites/employees/{id}/register [post]
func (h *EmployeeHandler) AttachRegistrant(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.AttachRegistrantRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	if err := h.uc.AttachRegistrant(c.Context(), id, in); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "invitación no encontrada"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Approve godoc
// @Summary      Aprobar una invitación de empleado
// @Tags         employees
// @Security     Bearer
// @Param        id  path  string  true  "ID de la invitación"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invites/employees/{id}/approve [post]
func (h *EmployeeHandler) Approve(c *fiber.Ctx) error {
	return h.decide(c, h.uc.Approve)
}

// Deny godoc
// @Summary      Rechazar una invitación de empleado
// @Tags         employees
// @Security     Bearer
// @Param        id  path  string  true  "ID de la invitación"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invites/employees/{id}/deny [post]
func (h *EmployeeHandler) Deny(c *fiber.Ctx) error {
	return h.decide(c, h.uc.Deny)
}

func (h *EmployeeHandler) decide(c *fiber.Ctx, fn func(context.Context, string) error) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	if err := fn(c.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "invitación no encontrada"})
		}
		// El estado ya quedó persistido aunque el correo de notificación falle.
		if errors.Is(err, domain.ErrMailDelivery) {
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "MAIL_DELIVERY", Message: "la decisión se registró pero el correo no pudo enviarse"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Roster godoc
// @Summary      Roster combinado de usuarios e invitaciones de una empresa
// @Tags         employees
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la empresa"
// @Success      200  {object}  dto.RosterResponse
// @Router       /api/companies/{id}/employees [get]
func (h *EmployeeHandler) Roster(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	out, err := h.uc.ListRoster(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// WatchRoster godoc
// @Summary      Suscripción SSE al roster de una empresa
// @Description  Emite un snapshot completo del roster en cada cambio; nunca parches incrementales.
// @Tags         employees
// @Security     Bearer
// @Produce      text/event-stream
// @Param        id  path  string  true  "ID de la empresa"
// @Router       /api/companies/{id}/employees/watch [get]
func (h *EmployeeHandler) WatchRoster(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}

	snapshots, cancel, err := h.watcher.Watch(context.Background(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		for snapshot := range snapshots {
			payload, err := json.Marshal(dto.RosterResponse{Items: snapshot, Total: len(snapshot)})
			if err != nil {
				return
			}
			if _, err := w.WriteString("data: " + string(payload) + "\n\n"); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))
	return nil
}
