package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/digiticket/helpdesk-service/internal/domain"
	"github.com/digiticket/helpdesk-service/internal/events"
	"github.com/digiticket/helpdesk-service/internal/policy"
	"github.com/digiticket/helpdesk-service/internal/repository"
	apperrors "github.com/digiticket/helpdesk-service/pkg/util/errorutil"
)

// TicketService owns the ticket lifecycle state machine. Every mutation
// runs inside a unit of work with the ticket row locked, so concurrent
// transitions on the same ticket serialize. Lifecycle events publish
// after the commit; the notification fan-out must never roll back a
// committed transition.
type TicketService struct {
	uow        repository.UnitOfWork
	tickets    repository.TicketRepository
	users      repository.UserRepository
	audit      *AuditService
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for ticket service.
type TicketDependencies struct {
	UnitOfWork repository.UnitOfWork
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Audit      *AuditService
	Dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		uow:        deps.UnitOfWork,
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		audit:      deps.Audit,
		dispatcher: deps.Dispatcher,
	}
}

// Create opens a new ticket for the calling client. Tickets always
// start OPEN with no assigned agent.
func (s *TicketService) Create(ctx context.Context, caller policy.Caller, title, description string) (*domain.Ticket, error) {
	if decision := policy.Authorize(caller, policy.OpTicketCreate, policy.Resource{}); !decision.Allowed {
		return nil, apperrors.NewForbidden(decision.Reason)
	}
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required", nil)
	}
	if description == "" {
		return nil, apperrors.NewValidationError("description is required", nil)
	}

	ticket := &domain.Ticket{
		Title:       title,
		Description: description,
		Status:      domain.TicketStatusOpen,
		ClientID:    caller.ID,
	}
	err := s.uow.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		return repos.Tickets.Create(ctx, ticket)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  caller.ID,
		Payload: events.TicketCreatedPayload{
			ClientID: ticket.ClientID,
			Title:    ticket.Title,
		},
	})
	return ticket, nil
}

// GetByID fetches a single ticket with per-role visibility rules.
func (s *TicketService) GetByID(ctx context.Context, caller policy.Caller, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if decision := policy.Authorize(caller, policy.OpTicketRead, policy.Resource{Ticket: ticket}); !decision.Allowed {
		return nil, apperrors.NewForbidden(decision.Reason)
	}
	return ticket, nil
}

// ListAll returns every ticket. Staff only.
func (s *TicketService) ListAll(ctx context.Context, caller policy.Caller) ([]domain.Ticket, error) {
	if decision := policy.Authorize(caller, policy.OpTicketListAll, policy.Resource{}); !decision.Allowed {
		return nil, apperrors.NewForbidden(decision.Reason)
	}
	list, err := s.tickets.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// ListByClient returns a client's tickets.
func (s *TicketService) ListByClient(ctx context.Context, caller policy.Caller, clientID string) ([]domain.Ticket, error) {
	if decision := policy.Authorize(caller, policy.OpTicketListByClient, policy.Resource{OwnerID: clientID}); !decision.Allowed {
		return nil, apperrors.NewForbidden(decision.Reason)
	}
	if _, err := s.users.GetByID(ctx, clientID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("client", map[string]any{"client_id": clientID})
		}
		return nil, apperrors.MapError(err)
	}
	list, err := s.tickets.ListByClient(ctx, clientID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// ListByAgent returns tickets assigned to an agent.
func (s *TicketService) ListByAgent(ctx context.Context, caller policy.Caller, agentID string) ([]domain.Ticket, error) {
	if decision := policy.Authorize(caller, policy.OpTicketListByAgent, policy.Resource{OwnerID: agentID}); !decision.Allowed {
		return nil, apperrors.NewForbidden(decision.Reason)
	}
	if _, err := s.users.GetByID(ctx, agentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("agent", map[string]any{"agent_id": agentID})
		}
		return nil, apperrors.MapError(err)
	}
	list, err := s.tickets.ListByAgent(ctx, agentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// Assign sets the ticket's agent. OPEN tickets move to IN_PROGRESS; a
// ticket already in progress or escalated keeps its status.
func (s *TicketService) Assign(ctx context.Context, caller policy.Caller, ticketID, agentID string) (*domain.Ticket, error) {
	if decision := policy.Authorize(caller, policy.OpTicketAssign, policy.Resource{}); !decision.Allowed {
		return nil, apperrors.NewForbidden(decision.Reason)
	}
	return s.assign(ctx, caller, ticketID, agentID, false)
}

// ForceAssign is the privileged administrator variant of Assign: the
// same transition rules apply (a closed ticket stays immutable), plus an
// audit entry committed with the assignment.
func (s *TicketService) ForceAssign(ctx context.Context, caller policy.Caller, ticketID, agentID string) (*domain.Ticket, error) {
	if decision := policy.Authorize(caller, policy.OpTicketForceAssign, policy.Resource{}); !decision.Allowed {
		return nil, apperrors.NewForbidden(decision.Reason)
	}
	return s.assign(ctx, caller, ticketID, agentID, true)
}

func (s *TicketService) assign(ctx context.Context, caller policy.Caller, ticketID, agentID string, audited bool) (*domain.Ticket, error) {
	var ticket *domain.Ticket
	var pending events.Event

	err := s.uow.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		ticket, err = lockTicket(ctx, repos, ticketID)
		if err != nil {
			return err
		}
		if ticket.IsClosed() {
			return apperrors.NewTicketClosed(ticket.ID)
		}

		agent, err := repos.Users.GetByID(ctx, agentID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("agent", map[string]any{"agent_id": agentID})
			}
			return err
		}
		if !agent.Role.IsStaff() {
			return apperrors.NewInvalidAssignee("assignee must be an agent or an administrator", map[string]any{"agent_id": agentID, "role": agent.Role})
		}
		if !agent.Active {
			return apperrors.NewInvalidAssignee("assignee account is inactive", map[string]any{"agent_id": agentID})
		}

		ticket.AgentID = &agent.ID
		if ticket.Status == domain.TicketStatusOpen {
			ticket.Status = domain.TicketStatusInProgress
		}
		if err := repos.Tickets.Update(ctx, ticket); err != nil {
			return err
		}

		if audited {
			details := fmt.Sprintf("Assignation du ticket %s à l'agent %s", ticket.ID, agent.Email)
			if err := s.audit.Append(ctx, repos, caller.ID, domain.AdminActionAssignTicket, details, &agent.ID, &ticket.ID); err != nil {
				return err
			}
		}

		pending = events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: ticket.ID,
			ActorID:  caller.ID,
			Payload: events.TicketAssignedPayload{
				ClientID: ticket.ClientID,
				AgentID:  agent.ID,
				Title:    ticket.Title,
			},
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, pending)
	return ticket, nil
}

// UpdateStatus moves the ticket to the requested status when the
// transition guards hold.
func (s *TicketService) UpdateStatus(ctx context.Context, caller policy.Caller, ticketID string, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if decision := policy.Authorize(caller, policy.OpTicketUpdateStatus, policy.Resource{}); !decision.Allowed {
		return nil, apperrors.NewForbidden(decision.Reason)
	}

	var ticket *domain.Ticket
	var pending events.Event

	err := s.uow.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		ticket, err = lockTicket(ctx, repos, ticketID)
		if err != nil {
			return err
		}
		if err := validateStatusChange(ticket, newStatus); err != nil {
			return err
		}

		oldStatus := ticket.Status
		ticket.Status = newStatus
		if err := repos.Tickets.Update(ctx, ticket); err != nil {
			return err
		}

		pending = events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			ActorID:  caller.ID,
			Payload: events.TicketStatusChangedPayload{
				ClientID:  ticket.ClientID,
				AgentID:   ticket.AgentID,
				Title:     ticket.Title,
				OldStatus: oldStatus,
				NewStatus: newStatus,
			},
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, pending)
	return ticket, nil
}

// Escalate raises the ticket to ESCALATED.
func (s *TicketService) Escalate(ctx context.Context, caller policy.Caller, ticketID string) (*domain.Ticket, error) {
	if decision := policy.Authorize(caller, policy.OpTicketEscalate, policy.Resource{}); !decision.Allowed {
		return nil, apperrors.NewForbidden(decision.Reason)
	}

	var ticket *domain.Ticket
	var pending events.Event

	err := s.uow.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		ticket, err = lockTicket(ctx, repos, ticketID)
		if err != nil {
			return err
		}
		if ticket.IsClosed() {
			return apperrors.NewTicketClosed(ticket.ID)
		}
		if ticket.Status == domain.TicketStatusEscalated {
			return apperrors.NewInvalidStatusTransition("ticket is already escalated", map[string]any{"ticket_id": ticket.ID})
		}

		ticket.Status = domain.TicketStatusEscalated
		if err := repos.Tickets.Update(ctx, ticket); err != nil {
			return err
		}

		pending = events.Event{
			Type:     events.EventTicketEscalated,
			TicketID: ticket.ID,
			ActorID:  caller.ID,
			Payload: events.TicketEscalatedPayload{
				ClientID: ticket.ClientID,
				AgentID:  ticket.AgentID,
				Title:    ticket.Title,
			},
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, pending)
	return ticket, nil
}

// Close moves the ticket to its terminal CLOSED state. Staff may close
// any ticket; a client only their own.
func (s *TicketService) Close(ctx context.Context, caller policy.Caller, ticketID string) (*domain.Ticket, error) {
	var ticket *domain.Ticket
	var pending events.Event

	err := s.uow.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		ticket, err = lockTicket(ctx, repos, ticketID)
		if err != nil {
			return err
		}
		if decision := policy.Authorize(caller, policy.OpTicketClose, policy.Resource{Ticket: ticket}); !decision.Allowed {
			return apperrors.NewForbidden(decision.Reason)
		}
		if ticket.IsClosed() {
			return apperrors.NewTicketClosed(ticket.ID)
		}

		ticket.Status = domain.TicketStatusClosed
		if err := repos.Tickets.Update(ctx, ticket); err != nil {
			return err
		}

		pending = events.Event{
			Type:     events.EventTicketClosed,
			TicketID: ticket.ID,
			ActorID:  caller.ID,
			Payload: events.TicketClosedPayload{
				ClientID: ticket.ClientID,
				AgentID:  ticket.AgentID,
				Title:    ticket.Title,
			},
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, pending)
	return ticket, nil
}

func lockTicket(ctx context.Context, repos repository.Repositories, ticketID string) (*domain.Ticket, error) {
	ticket, err := repos.Tickets.GetByIDForUpdate(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, err
	}
	return ticket, nil
}

// validateStatusChange enforces the transition guards. Closed tickets
// reject every change, including a redundant close.
func validateStatusChange(ticket *domain.Ticket, next domain.TicketStatus) error {
	if ticket.IsClosed() {
		return apperrors.NewTicketClosed(ticket.ID)
	}
	switch next {
	case domain.TicketStatusOpen:
		return apperrors.NewInvalidStatusTransition("tickets cannot return to OPEN", map[string]any{"from": ticket.Status})
	case domain.TicketStatusInProgress:
		if !ticket.HasAgent() {
			return apperrors.NewInvalidStatusTransition("an agent must be assigned before IN_PROGRESS", map[string]any{"ticket_id": ticket.ID})
		}
		return nil
	case domain.TicketStatusEscalated:
		if ticket.Status == domain.TicketStatusEscalated {
			return apperrors.NewInvalidStatusTransition("ticket is already escalated", map[string]any{"ticket_id": ticket.ID})
		}
		return nil
	case domain.TicketStatusClosed:
		return nil
	default:
		return apperrors.NewInvalidStatusTransition("unknown status", map[string]any{"status": next})
	}
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil || event.Type == "" {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
