package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/digiticket/helpdesk-service/internal/api/dto"
	"github.com/digiticket/helpdesk-service/internal/service"
)

// AdminHandler exposes forced assignment and the audit trail.
type AdminHandler struct {
	tickets *service.TicketService
	audit   *service.AuditService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(tickets *service.TicketService, audit *service.AuditService) *AdminHandler {
	return &AdminHandler{tickets: tickets, audit: audit}
}

// ForceAssign handles PUT /api/admin/tickets/:ticketId/assign/:agentId.
// The assignment is recorded in the audit trail.
func (h *AdminHandler) ForceAssign(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.ForceAssign(c.Context(), caller, c.Params("ticketId"), c.Params("agentId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ListLogs handles GET /api/admin/logs.
func (h *AdminHandler) ListLogs(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	entries, err := h.audit.ListAll(c.Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAdminLogListResponse(entries)})
}

// ListMyLogs handles GET /api/admin/logs/my.
func (h *AdminHandler) ListMyLogs(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	entries, err := h.audit.ListByAdmin(c.Context(), caller, caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAdminLogListResponse(entries)})
}
