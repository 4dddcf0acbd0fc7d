package service

import (
	"context"

	"github.com/digiticket/helpdesk-service/internal/domain"
	"github.com/digiticket/helpdesk-service/internal/policy"
	"github.com/digiticket/helpdesk-service/internal/repository"
	apperrors "github.com/digiticket/helpdesk-service/pkg/util/errorutil"
)

// StatsService serves ticket aggregates to administrators.
type StatsService struct {
	tickets repository.TicketRepository
}

// NewStatsService builds the service.
func NewStatsService(tickets repository.TicketRepository) *StatsService {
	return &StatsService{tickets: tickets}
}

// TicketsByStatus returns ticket counts grouped by status.
func (s *StatsService) TicketsByStatus(ctx context.Context, caller policy.Caller) (map[domain.TicketStatus]int64, error) {
	if decision := policy.Authorize(caller, policy.OpStatsRead, policy.Resource{}); !decision.Allowed {
		return nil, apperrors.NewForbidden(decision.Reason)
	}
	counts, err := s.tickets.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return counts, nil
}

// TicketsPerAgent returns ticket totals per assigned agent.
func (s *StatsService) TicketsPerAgent(ctx context.Context, caller policy.Caller) ([]repository.AgentTicketCount, error) {
	if decision := policy.Authorize(caller, policy.OpStatsRead, policy.Resource{}); !decision.Allowed {
		return nil, apperrors.NewForbidden(decision.Reason)
	}
	counts, err := s.tickets.CountByAgent(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return counts, nil
}

// TicketsPerClient returns ticket totals per client.
func (s *StatsService) TicketsPerClient(ctx context.Context, caller policy.Caller) ([]repository.ClientTicketCount, error) {
	if decision := policy.Authorize(caller, policy.OpStatsRead, policy.Resource{}); !decision.Allowed {
		return nil, apperrors.NewForbidden(decision.Reason)
	}
	counts, err := s.tickets.CountByClient(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return counts, nil
}
