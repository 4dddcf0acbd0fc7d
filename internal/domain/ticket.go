package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusEscalated  TicketStatus = "ESCALATED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// ParseTicketStatus validates a raw status value.
func ParseTicketStatus(raw string) (TicketStatus, bool) {
	switch TicketStatus(raw) {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusEscalated, TicketStatusClosed:
		return TicketStatus(raw), true
	default:
		return "", false
	}
}

// Ticket is the aggregate for support requests. The client reference is
// set at creation and never changes; the agent reference is nullable and
// set through assignment.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Status      TicketStatus
	ClientID    string
	AgentID     *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsClosed reports whether the ticket reached its terminal state.
func (t *Ticket) IsClosed() bool {
	return t.Status == TicketStatusClosed
}

// HasAgent reports whether an agent is currently assigned.
func (t *Ticket) HasAgent() bool {
	return t.AgentID != nil && *t.AgentID != ""
}
