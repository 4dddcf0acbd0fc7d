package events

import (
	"time"

	"github.com/digiticket/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketEscalated     EventType = "ticket_escalated"
	EventTicketClosed        EventType = "ticket_closed"
)

// Event represents a domain event emitted after a committed ticket
// transition. Payloads carry everything the fan-out needs so handlers
// never re-read the ticket.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	ClientID string `json:"client_id"`
	Title    string `json:"title"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	ClientID string `json:"client_id"`
	AgentID  string `json:"agent_id"`
	Title    string `json:"title"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	ClientID  string              `json:"client_id"`
	AgentID   *string             `json:"agent_id,omitempty"`
	Title     string              `json:"title"`
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketEscalatedPayload payload.
type TicketEscalatedPayload struct {
	ClientID string  `json:"client_id"`
	AgentID  *string `json:"agent_id,omitempty"`
	Title    string  `json:"title"`
}

// TicketClosedPayload payload.
type TicketClosedPayload struct {
	ClientID string  `json:"client_id"`
	AgentID  *string `json:"agent_id,omitempty"`
	Title    string  `json:"title"`
}
