package dto

import (
	"time"

	"github.com/digiticket/helpdesk-service/internal/domain"
)

// TicketCreateRequest is the ticket creation payload.
type TicketCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TicketStatusRequest carries a requested status change.
type TicketStatusRequest struct {
	Status string `json:"status"`
}

// TicketResponse is the wire form of a ticket.
type TicketResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	ClientID    string    `json:"client_id"`
	AgentID     *string   `json:"agent_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		ClientID:    t.ClientID,
		AgentID:     t.AgentID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// NewTicketListResponse maps a slice of domain tickets.
func NewTicketListResponse(tickets []domain.Ticket) []TicketResponse {
	result := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		result = append(result, NewTicketResponse(&tickets[i]))
	}
	return result
}
