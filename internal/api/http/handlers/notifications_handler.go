package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/digiticket/helpdesk-service/internal/api/dto"
	"github.com/digiticket/helpdesk-service/internal/service"
)

// NotificationsHandler exposes the caller's notification feed.
type NotificationsHandler struct {
	notifications *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notifications *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications}
}

// ListMine handles GET /api/notifications.
func (h *NotificationsHandler) ListMine(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	notifications, err := h.notifications.ListForUser(c.Context(), caller, caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewNotificationListResponse(notifications)})
}

// ListUnread handles GET /api/notifications/unread.
func (h *NotificationsHandler) ListUnread(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	notifications, err := h.notifications.ListUnreadForUser(c.Context(), caller, caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewNotificationListResponse(notifications)})
}

// UnreadCount handles GET /api/notifications/unread/count.
func (h *NotificationsHandler) UnreadCount(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	count, err := h.notifications.UnreadCount(c.Context(), caller, caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"unread": count}})
}

// MarkRead handles PATCH /api/notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	notification, err := h.notifications.MarkRead(c.Context(), caller, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewNotificationResponse(notification)})
}

// MarkAllRead handles PATCH /api/notifications/read-all.
func (h *NotificationsHandler) MarkAllRead(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	updated, err := h.notifications.MarkAllRead(c.Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": updated}})
}
