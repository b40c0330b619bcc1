package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrUserNotFound    = errors.New("usuario no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrDuplicate       = errors.New("recurso duplicado")
	ErrDuplicateInvite = errors.New("ya existe una invitación pendiente para ese email")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrForbidden       = errors.New("acceso denegado")
	ErrConflict        = errors.New("conflicto con el estado actual")
	ErrExpired         = errors.New("el token ha expirado")
	ErrAlreadyUsed     = errors.New("el token ya fue utilizado")
	ErrMailDelivery    = errors.New("fallo el envío de correo")

	// ErrUseConversion indica que la transición solicitada crea un pedido y debe
	// pasar por ApproveAndConvertToOrder, nunca por Transition.
	ErrUseConversion = errors.New("la aprobación convierte la solicitud en pedido: usar la operación de conversión")
)
