package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/digiticket/helpdesk-service/internal/domain"
	"github.com/digiticket/helpdesk-service/internal/policy"
	"github.com/digiticket/helpdesk-service/internal/repository"
	apperrors "github.com/digiticket/helpdesk-service/pkg/util/errorutil"
)

// AuditService owns the append-only administrative audit trail.
type AuditService struct {
	uow  repository.UnitOfWork
	logs repository.AdminLogRepository
}

// NewAuditService builds the service.
func NewAuditService(uow repository.UnitOfWork, logs repository.AdminLogRepository) *AuditService {
	return &AuditService{uow: uow, logs: logs}
}

// Append writes an audit entry using the repositories of an enclosing
// unit of work, so the entry commits or rolls back together with the
// administrative mutation it records. The admin must resolve to an
// existing user; a missing admin aborts the whole operation. Target
// references that do not resolve are stored as absent.
func (s *AuditService) Append(ctx context.Context, repos repository.Repositories, adminID string, action domain.AdminAction, details string, targetUserID, targetTicketID *string) error {
	if _, err := repos.Users.GetByID(ctx, adminID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("admin", map[string]any{"admin_id": adminID})
		}
		return err
	}

	entry := &domain.AdminLog{
		AdminID: adminID,
		Action:  action,
		Details: details,
	}
	if targetUserID != nil {
		if _, err := repos.Users.GetByID(ctx, *targetUserID); err == nil {
			entry.TargetUserID = targetUserID
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
	}
	if targetTicketID != nil {
		if _, err := repos.Tickets.GetByID(ctx, *targetTicketID); err == nil {
			entry.TargetTicketID = targetTicketID
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
	}

	return repos.AdminLogs.Create(ctx, entry)
}

// Record appends an audit entry in its own unit of work.
func (s *AuditService) Record(ctx context.Context, adminID string, action domain.AdminAction, details string, targetUserID, targetTicketID *string) error {
	return s.uow.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		return s.Append(ctx, repos, adminID, action, details, targetUserID, targetTicketID)
	})
}

// ListAll returns every audit entry, newest first. Admin only.
func (s *AuditService) ListAll(ctx context.Context, caller policy.Caller) ([]domain.AdminLog, error) {
	if decision := policy.Authorize(caller, policy.OpAuditRead, policy.Resource{}); !decision.Allowed {
		return nil, apperrors.NewForbidden(decision.Reason)
	}
	entries, err := s.logs.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// ListByAdmin returns entries recorded by one administrator, newest first.
func (s *AuditService) ListByAdmin(ctx context.Context, caller policy.Caller, adminID string) ([]domain.AdminLog, error) {
	if decision := policy.Authorize(caller, policy.OpAuditRead, policy.Resource{}); !decision.Allowed {
		return nil, apperrors.NewForbidden(decision.Reason)
	}
	entries, err := s.logs.ListByAdmin(ctx, adminID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}
