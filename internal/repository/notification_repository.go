package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/digiticket/helpdesk-service/internal/domain"
)

// NotificationRepository encapsulates notification persistence.
// Notifications are append-mostly: only the read flag ever changes.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	ListUnreadByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
}

type notificationRepository struct {
	db DB
}

// NewNotificationRepository instantiates repository.
func NewNotificationRepository(db DB) NotificationRepository {
	return &notificationRepository{db: db}
}

const notificationColumns = `id, user_id, ticket_id, type, title, message, read, created_at`

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	const query = `
        INSERT INTO notifications (user_id, ticket_id, type, title, message, read)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		notification.UserID,
		notification.TicketID,
		notification.Type,
		notification.Title,
		notification.Message,
		notification.Read,
	).Scan(&notification.ID, &notification.CreatedAt)
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	var n domain.Notification
	if err := r.db.QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id=$1`, id).Scan(
		&n.ID,
		&n.UserID,
		&n.TicketID,
		&n.Type,
		&n.Title,
		&n.Message,
		&n.Read,
		&n.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE notifications SET read=TRUE WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	cmd, err := r.db.Exec(ctx, `UPDATE notifications SET read=TRUE WHERE user_id=$1 AND NOT read`, userID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	return r.list(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE user_id=$1 ORDER BY created_at DESC`, userID)
}

func (r *notificationRepository) ListUnreadByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	return r.list(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE user_id=$1 AND NOT read ORDER BY created_at DESC`, userID)
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id=$1 AND NOT read`, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *notificationRepository) list(ctx context.Context, query string, args ...any) ([]domain.Notification, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.TicketID,
			&n.Type,
			&n.Title,
			&n.Message,
			&n.Read,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}
