package dto

import (
	"github.com/digiticket/helpdesk-service/internal/domain"
	"github.com/digiticket/helpdesk-service/internal/repository"
)

// AgentTicketCountResponse is the per-agent aggregate row.
type AgentTicketCountResponse struct {
	AgentID   string `json:"agent_id"`
	AgentName string `json:"agent_name"`
	Total     int64  `json:"total"`
}

// ClientTicketCountResponse is the per-client aggregate row.
type ClientTicketCountResponse struct {
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
	Total      int64  `json:"total"`
}

// NewStatusCountResponse maps status counts to their wire form.
func NewStatusCountResponse(counts map[domain.TicketStatus]int64) map[string]int64 {
	result := make(map[string]int64, len(counts))
	for status, total := range counts {
		result[string(status)] = total
	}
	return result
}

// NewAgentCountListResponse maps per-agent aggregates.
func NewAgentCountListResponse(counts []repository.AgentTicketCount) []AgentTicketCountResponse {
	result := make([]AgentTicketCountResponse, 0, len(counts))
	for _, count := range counts {
		result = append(result, AgentTicketCountResponse{
			AgentID:   count.AgentID,
			AgentName: count.AgentName,
			Total:     count.Total,
		})
	}
	return result
}

// NewClientCountListResponse maps per-client aggregates.
func NewClientCountListResponse(counts []repository.ClientTicketCount) []ClientTicketCountResponse {
	result := make([]ClientTicketCountResponse, 0, len(counts))
	for _, count := range counts {
		result = append(result, ClientTicketCountResponse{
			ClientID:   count.ClientID,
			ClientName: count.ClientName,
			Total:      count.Total,
		})
	}
	return result
}
