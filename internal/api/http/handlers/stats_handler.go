package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/digiticket/helpdesk-service/internal/api/dto"
	"github.com/digiticket/helpdesk-service/internal/service"
)

// StatsHandler exposes reporting aggregates over the ticket store.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// ByStatus handles GET /api/stats/tickets/status.
func (h *StatsHandler) ByStatus(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	counts, err := h.stats.TicketsByStatus(c.Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStatusCountResponse(counts)})
}

// PerAgent handles GET /api/stats/tickets/agents.
func (h *StatsHandler) PerAgent(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	counts, err := h.stats.TicketsPerAgent(c.Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAgentCountListResponse(counts)})
}

// PerClient handles GET /api/stats/tickets/clients.
func (h *StatsHandler) PerClient(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	counts, err := h.stats.TicketsPerClient(c.Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClientCountListResponse(counts)})
}
