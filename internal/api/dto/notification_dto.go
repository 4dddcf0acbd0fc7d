package dto

import (
	"time"

	"github.com/digiticket/helpdesk-service/internal/domain"
)

// NotificationResponse is the wire form of a notification.
type NotificationResponse struct {
	ID        string    `json:"id"`
	TicketID  *string   `json:"ticket_id,omitempty"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotificationResponse maps a domain notification.
func NewNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		TicketID:  n.TicketID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

// NewNotificationListResponse maps a slice of domain notifications.
func NewNotificationListResponse(notifications []domain.Notification) []NotificationResponse {
	result := make([]NotificationResponse, 0, len(notifications))
	for i := range notifications {
		result = append(result, NewNotificationResponse(&notifications[i]))
	}
	return result
}

// AdminLogResponse is the wire form of an audit entry.
type AdminLogResponse struct {
	ID             string    `json:"id"`
	AdminID        string    `json:"admin_id"`
	Action         string    `json:"action"`
	Details        string    `json:"details"`
	TargetUserID   *string   `json:"target_user_id,omitempty"`
	TargetTicketID *string   `json:"target_ticket_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewAdminLogListResponse maps a slice of audit entries.
func NewAdminLogListResponse(entries []domain.AdminLog) []AdminLogResponse {
	result := make([]AdminLogResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, AdminLogResponse{
			ID:             entry.ID,
			AdminID:        entry.AdminID,
			Action:         string(entry.Action),
			Details:        entry.Details,
			TargetUserID:   entry.TargetUserID,
			TargetTicketID: entry.TargetTicketID,
			CreatedAt:      entry.CreatedAt,
		})
	}
	return result
}
