package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/digiticket/helpdesk-service/internal/domain"
	"github.com/digiticket/helpdesk-service/internal/events"
	"github.com/digiticket/helpdesk-service/internal/policy"
	"github.com/digiticket/helpdesk-service/internal/repository"
	apperrors "github.com/digiticket/helpdesk-service/pkg/util/errorutil"
)

// UnreadCounterCache caches per-user unread counts. Implementations must
// tolerate being skipped: the database is the source of truth.
type UnreadCounterCache interface {
	Get(ctx context.Context, userID string) (int64, bool)
	Set(ctx context.Context, userID string, count int64)
	Invalidate(ctx context.Context, userID string)
}

// NotificationService records per-user notifications for ticket events
// and serves read/mark-read operations.
type NotificationService struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	cache         UnreadCounterCache
	logger        *zap.Logger
}

// NewNotificationService creates the service. cache may be nil.
func NewNotificationService(notifications repository.NotificationRepository, users repository.UserRepository, cache UnreadCounterCache, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		cache:         cache,
		logger:        logger,
	}
}

// Create persists a new unread notification record.
func (s *NotificationService) Create(ctx context.Context, userID string, ticketID *string, notifType domain.NotificationType, title, message string) (*domain.Notification, error) {
	notification := &domain.Notification{
		UserID:   userID,
		TicketID: ticketID,
		Type:     notifType,
		Title:    title,
		Message:  message,
		Read:     false,
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		return nil, apperrors.MapError(err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
	s.logger.Debug("notification created",
		zap.String("user_id", userID),
		zap.String("type", string(notifType)))
	return notification, nil
}

// ListForUser returns all notifications for a user, most recent first.
func (s *NotificationService) ListForUser(ctx context.Context, caller policy.Caller, userID string) ([]domain.Notification, error) {
	if decision := policy.Authorize(caller, policy.OpNotificationRead, policy.Resource{OwnerID: userID}); !decision.Allowed {
		return nil, apperrors.NewForbidden(decision.Reason)
	}
	list, err := s.notifications.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// ListUnreadForUser returns unread notifications, most recent first.
func (s *NotificationService) ListUnreadForUser(ctx context.Context, caller policy.Caller, userID string) ([]domain.Notification, error) {
	if decision := policy.Authorize(caller, policy.OpNotificationRead, policy.Resource{OwnerID: userID}); !decision.Allowed {
		return nil, apperrors.NewForbidden(decision.Reason)
	}
	list, err := s.notifications.ListUnreadByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// UnreadCount returns the number of unread notifications for a user,
// served from the cache when warm.
func (s *NotificationService) UnreadCount(ctx context.Context, caller policy.Caller, userID string) (int64, error) {
	if decision := policy.Authorize(caller, policy.OpNotificationRead, policy.Resource{OwnerID: userID}); !decision.Allowed {
		return 0, apperrors.NewForbidden(decision.Reason)
	}
	if s.cache != nil {
		if count, ok := s.cache.Get(ctx, userID); ok {
			return count, nil
		}
	}
	count, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	if s.cache != nil {
		s.cache.Set(ctx, userID, count)
	}
	return count, nil
}

// MarkRead flips the read flag of one notification. Marking an already
// read notification succeeds as a no-op.
func (s *NotificationService) MarkRead(ctx context.Context, caller policy.Caller, notificationID string) (*domain.Notification, error) {
	notification, err := s.notifications.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("notification", map[string]any{"notification_id": notificationID})
		}
		return nil, apperrors.MapError(err)
	}
	if decision := policy.Authorize(caller, policy.OpNotificationRead, policy.Resource{OwnerID: notification.UserID}); !decision.Allowed {
		return nil, apperrors.NewForbidden(decision.Reason)
	}
	if notification.Read {
		return notification, nil
	}
	if err := s.notifications.MarkRead(ctx, notificationID); err != nil {
		return nil, apperrors.MapError(err)
	}
	notification.Read = true
	if s.cache != nil {
		s.cache.Invalidate(ctx, notification.UserID)
	}
	return notification, nil
}

// MarkAllRead flips every unread notification of the caller.
func (s *NotificationService) MarkAllRead(ctx context.Context, caller policy.Caller) (int64, error) {
	updated, err := s.notifications.MarkAllRead(ctx, caller.ID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	if updated > 0 && s.cache != nil {
		s.cache.Invalidate(ctx, caller.ID)
	}
	return updated, nil
}

// RegisterHandlers subscribes the fan-out to ticket lifecycle events.
func (s *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketCreated, s.handleTicketCreated)
	dispatcher.Subscribe(events.EventTicketAssigned, s.handleTicketAssigned)
	dispatcher.Subscribe(events.EventTicketStatusChanged, s.handleTicketStatusChanged)
	dispatcher.Subscribe(events.EventTicketEscalated, s.handleTicketEscalated)
	dispatcher.Subscribe(events.EventTicketClosed, s.handleTicketClosed)
}

func (s *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}
	_, err := s.Create(ctx, payload.ClientID, &event.TicketID, domain.NotificationTicketCreated,
		"Ticket créé",
		fmt.Sprintf("Votre ticket %q a été créé avec succès.", payload.Title))
	return err
}

func (s *NotificationService) handleTicketAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}
	if _, err := s.Create(ctx, payload.AgentID, &event.TicketID, domain.NotificationTicketAssigned,
		"Ticket assigné",
		fmt.Sprintf("Le ticket %q vous a été assigné.", payload.Title)); err != nil {
		return err
	}
	_, err := s.Create(ctx, payload.ClientID, &event.TicketID, domain.NotificationTicketAssigned,
		"Agent assigné",
		fmt.Sprintf("Un agent a été assigné à votre ticket %q.", payload.Title))
	return err
}

func (s *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}
	if _, err := s.Create(ctx, payload.ClientID, &event.TicketID, domain.NotificationTicketStatusChanged,
		"Statut modifié",
		fmt.Sprintf("Le statut de votre ticket %q est passé de %s à %s.", payload.Title, payload.OldStatus, payload.NewStatus)); err != nil {
		return err
	}
	if payload.AgentID == nil {
		return nil
	}
	_, err := s.Create(ctx, *payload.AgentID, &event.TicketID, domain.NotificationTicketStatusChanged,
		"Statut modifié",
		fmt.Sprintf("Le statut du ticket %q est passé de %s à %s.", payload.Title, payload.OldStatus, payload.NewStatus))
	return err
}

func (s *NotificationService) handleTicketEscalated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketEscalatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}
	if _, err := s.Create(ctx, payload.ClientID, &event.TicketID, domain.NotificationTicketEscalated,
		"Ticket escaladé",
		fmt.Sprintf("Votre ticket %q a été escaladé.", payload.Title)); err != nil {
		return err
	}
	if payload.AgentID == nil {
		return nil
	}
	_, err := s.Create(ctx, *payload.AgentID, &event.TicketID, domain.NotificationTicketEscalated,
		"Ticket escaladé",
		fmt.Sprintf("Le ticket %q a été escaladé.", payload.Title))
	return err
}

func (s *NotificationService) handleTicketClosed(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketClosedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}
	if _, err := s.Create(ctx, payload.ClientID, &event.TicketID, domain.NotificationTicketClosed,
		"Ticket fermé",
		fmt.Sprintf("Votre ticket %q a été fermé.", payload.Title)); err != nil {
		return err
	}
	if payload.AgentID == nil {
		return nil
	}
	_, err := s.Create(ctx, *payload.AgentID, &event.TicketID, domain.NotificationTicketClosed,
		"Ticket fermé",
		fmt.Sprintf("Le ticket %q a été fermé.", payload.Title))
	return err
}
