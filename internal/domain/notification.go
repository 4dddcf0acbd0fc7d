package domain

import "time"

// NotificationType tags the lifecycle event a notification was born from.
type NotificationType string

const (
	NotificationTicketCreated       NotificationType = "TICKET_CREATED"
	NotificationTicketAssigned      NotificationType = "TICKET_ASSIGNED"
	NotificationTicketStatusChanged NotificationType = "TICKET_STATUS_CHANGED"
	NotificationTicketEscalated     NotificationType = "TICKET_ESCALATED"
	NotificationTicketClosed        NotificationType = "TICKET_CLOSED"
)

// Notification is a per-user record of a ticket event. The ticket
// reference is weak: the ticket may be modified or removed later without
// cascading here.
type Notification struct {
	ID        string
	UserID    string
	TicketID  *string
	Type      NotificationType
	Title     string
	Message   string
	Read      bool
	CreatedAt time.Time
}
