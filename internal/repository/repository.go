package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB abstracts over a pgx pool and a pgx transaction so repositories can
// run standalone or inside a unit of work.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories bundles the per-entity repositories bound to one DB
// handle. Inside a unit of work every member shares the same transaction.
type Repositories struct {
	Users         UserRepository
	Tickets       TicketRepository
	Notifications NotificationRepository
	AdminLogs     AdminLogRepository
}

// NewRepositories builds the full set over a DB handle.
func NewRepositories(db DB) Repositories {
	return Repositories{
		Users:         NewUserRepository(db),
		Tickets:       NewTicketRepository(db),
		Notifications: NewNotificationRepository(db),
		AdminLogs:     NewAdminLogRepository(db),
	}
}

// UnitOfWork runs a function against a repository set whose writes are
// applied atomically. Row locks taken inside the function (ticket reads
// for update) are held until it returns, serializing concurrent
// transitions on the same entity.
type UnitOfWork interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
