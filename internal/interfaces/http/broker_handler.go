package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/vilofleet/flota-api/internal/application/brokers"
	"github.com/vilofleet/flota-api/internal/application/dto"
	"github.com/vilofleet/flota-api/internal/domain"
)

// BrokerHandler expone las agregaciones del árbol de brokers (protegido).
type BrokerHandler struct {
	agg *brokers.Aggregator
}

// NewBrokerHandler construye el handler.
func NewBrokerHandler(agg *brokers.Aggregator) *BrokerHandler {
	return &BrokerHandler{agg: agg}
}

// Stats godoc
// @Summary      Estadísticas mensuales del árbol de un broker
// @Description  Empresas y clientes activos, vehículos entregados y comisión del mes sobre todo el subárbol.
// @Tags         brokers
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del broker raíz"
// @Success      200  {object}  dto.BrokerStatsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/brokers/{id}/stats [get]
func (h *BrokerHandler) Stats(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	out, err := h.agg.ComputeStats(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "broker no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// TopBrokers godoc
// @Summary      Ranking de brokers del árbol por entregas del mes
// @Tags         brokers
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del broker raíz"
// @Param        limit  query  int     false  "Máximo de entradas (por defecto 5)"
// @Success      200  {object}  dto.TopBrokersResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/brokers/{id}/top [get]
func (h *BrokerHandler) TopBrokers(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	limit := c.QueryInt("limit", 0)
	out, err := h.agg.ComputeTopBrokers(c.Context(), id, limit)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "broker no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
