package repository

import (
	"context"

	"github.com/digiticket/helpdesk-service/internal/domain"
)

// AdminLogRepository persists the append-only administrative audit trail.
// Entries are never updated or deleted.
type AdminLogRepository interface {
	Create(ctx context.Context, entry *domain.AdminLog) error
	ListAll(ctx context.Context) ([]domain.AdminLog, error)
	ListByAdmin(ctx context.Context, adminID string) ([]domain.AdminLog, error)
}

type adminLogRepository struct {
	db DB
}

// NewAdminLogRepository instantiates repository.
func NewAdminLogRepository(db DB) AdminLogRepository {
	return &adminLogRepository{db: db}
}

const adminLogColumns = `id, admin_id, action, details, target_user_id, target_ticket_id, created_at`

func (r *adminLogRepository) Create(ctx context.Context, entry *domain.AdminLog) error {
	const query = `
        INSERT INTO admin_logs (admin_id, action, details, target_user_id, target_ticket_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		entry.AdminID,
		entry.Action,
		entry.Details,
		entry.TargetUserID,
		entry.TargetTicketID,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *adminLogRepository) ListAll(ctx context.Context) ([]domain.AdminLog, error) {
	return r.list(ctx, `SELECT `+adminLogColumns+` FROM admin_logs ORDER BY created_at DESC`)
}

func (r *adminLogRepository) ListByAdmin(ctx context.Context, adminID string) ([]domain.AdminLog, error) {
	return r.list(ctx, `SELECT `+adminLogColumns+` FROM admin_logs WHERE admin_id=$1 ORDER BY created_at DESC`, adminID)
}

func (r *adminLogRepository) list(ctx context.Context, query string, args ...any) ([]domain.AdminLog, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AdminLog
	for rows.Next() {
		var entry domain.AdminLog
		if err := rows.Scan(
			&entry.ID,
			&entry.AdminID,
			&entry.Action,
			&entry.Details,
			&entry.TargetUserID,
			&entry.TargetTicketID,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
