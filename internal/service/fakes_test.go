package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/digiticket/helpdesk-service/internal/domain"
	"github.com/digiticket/helpdesk-service/internal/events"
	"github.com/digiticket/helpdesk-service/internal/repository"
)

// In-memory repository fakes. They mimic the Postgres behavior the
// services rely on: pgx.ErrNoRows for missing rows and copies on read so
// callers never mutate stored state without an explicit Update.

type fakeUserRepo struct {
	seq   int
	users map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			user := user
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeUserRepo) ListAll(ctx context.Context) ([]domain.User, error) {
	list := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		list = append(list, user)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *fakeUserRepo) ListActive(ctx context.Context) ([]domain.User, error) {
	all, _ := r.ListAll(ctx)
	active := make([]domain.User, 0, len(all))
	for _, user := range all {
		if user.Active {
			active = append(active, user)
		}
	}
	return active, nil
}

type fakeTicketRepo struct {
	seq     int
	tickets map[string]domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]domain.Ticket)}
}

func (r *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", r.seq)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) Update(ctx context.Context, ticket *domain.Ticket) error {
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &ticket, nil
}

func (r *fakeTicketRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Ticket, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeTicketRepo) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	list := make([]domain.Ticket, 0, len(r.tickets))
	for _, ticket := range r.tickets {
		list = append(list, ticket)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *fakeTicketRepo) ListByClient(ctx context.Context, clientID string) ([]domain.Ticket, error) {
	all, _ := r.ListAll(ctx)
	list := make([]domain.Ticket, 0, len(all))
	for _, ticket := range all {
		if ticket.ClientID == clientID {
			list = append(list, ticket)
		}
	}
	return list, nil
}

func (r *fakeTicketRepo) ListByAgent(ctx context.Context, agentID string) ([]domain.Ticket, error) {
	all, _ := r.ListAll(ctx)
	list := make([]domain.Ticket, 0, len(all))
	for _, ticket := range all {
		if ticket.AgentID != nil && *ticket.AgentID == agentID {
			list = append(list, ticket)
		}
	}
	return list, nil
}

func (r *fakeTicketRepo) CountByStatus(ctx context.Context) (map[domain.TicketStatus]int64, error) {
	counts := make(map[domain.TicketStatus]int64)
	for _, ticket := range r.tickets {
		counts[ticket.Status]++
	}
	return counts, nil
}

func (r *fakeTicketRepo) CountByAgent(ctx context.Context) ([]repository.AgentTicketCount, error) {
	counts := make(map[string]int64)
	for _, ticket := range r.tickets {
		if ticket.AgentID != nil {
			counts[*ticket.AgentID]++
		}
	}
	result := make([]repository.AgentTicketCount, 0, len(counts))
	for agentID, total := range counts {
		result = append(result, repository.AgentTicketCount{AgentID: agentID, Total: total})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AgentID < result[j].AgentID })
	return result, nil
}

func (r *fakeTicketRepo) CountByClient(ctx context.Context) ([]repository.ClientTicketCount, error) {
	counts := make(map[string]int64)
	for _, ticket := range r.tickets {
		counts[ticket.ClientID]++
	}
	result := make([]repository.ClientTicketCount, 0, len(counts))
	for clientID, total := range counts {
		result = append(result, repository.ClientTicketCount{ClientID: clientID, Total: total})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ClientID < result[j].ClientID })
	return result, nil
}

type fakeNotificationRepo struct {
	seq           int
	notifications []domain.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *domain.Notification) error {
	r.seq++
	notification.ID = fmt.Sprintf("notification-%d", r.seq)
	// Strictly increasing timestamps so recency ordering is deterministic.
	notification.CreatedAt = time.Unix(int64(r.seq), 0)
	r.notifications = append(r.notifications, *notification)
	return nil
}

func (r *fakeNotificationRepo) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	for _, notification := range r.notifications {
		if notification.ID == id {
			notification := notification
			return &notification, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id string) error {
	for i := range r.notifications {
		if r.notifications[i].ID == id {
			r.notifications[i].Read = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	var updated int64
	for i := range r.notifications {
		if r.notifications[i].UserID == userID && !r.notifications[i].Read {
			r.notifications[i].Read = true
			updated++
		}
	}
	return updated, nil
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	list := make([]domain.Notification, 0)
	for _, notification := range r.notifications {
		if notification.UserID == userID {
			list = append(list, notification)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *fakeNotificationRepo) ListUnreadByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	all, _ := r.ListByUser(ctx, userID)
	list := make([]domain.Notification, 0)
	for _, notification := range all {
		if !notification.Read {
			list = append(list, notification)
		}
	}
	return list, nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	list, _ := r.ListUnreadByUser(ctx, userID)
	return int64(len(list)), nil
}

type fakeAdminLogRepo struct {
	seq     int
	entries []domain.AdminLog
}

func newFakeAdminLogRepo() *fakeAdminLogRepo {
	return &fakeAdminLogRepo{}
}

func (r *fakeAdminLogRepo) Create(ctx context.Context, entry *domain.AdminLog) error {
	r.seq++
	entry.ID = fmt.Sprintf("log-%d", r.seq)
	entry.CreatedAt = time.Unix(int64(r.seq), 0)
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAdminLogRepo) ListAll(ctx context.Context) ([]domain.AdminLog, error) {
	list := make([]domain.AdminLog, len(r.entries))
	copy(list, r.entries)
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *fakeAdminLogRepo) ListByAdmin(ctx context.Context, adminID string) ([]domain.AdminLog, error) {
	all, _ := r.ListAll(ctx)
	list := make([]domain.AdminLog, 0)
	for _, entry := range all {
		if entry.AdminID == adminID {
			list = append(list, entry)
		}
	}
	return list, nil
}

// fakeUnitOfWork hands the shared fakes to the unit function. Writes are
// applied immediately; the atomicity tests care about error propagation,
// not rollback.
type fakeUnitOfWork struct {
	repos repository.Repositories
}

func (u *fakeUnitOfWork) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	return fn(ctx, u.repos)
}

// fixture wires the full service graph over the in-memory fakes, with
// the notification fan-out subscribed the way main wires it.
type fixture struct {
	users         *fakeUserRepo
	tickets       *fakeTicketRepo
	notifications *fakeNotificationRepo
	logs          *fakeAdminLogRepo
	uow           *fakeUnitOfWork

	auditService        *AuditService
	notificationService *NotificationService
	ticketService       *TicketService
	userService         *UserService
}

func newFixture() *fixture {
	f := &fixture{
		users:         newFakeUserRepo(),
		tickets:       newFakeTicketRepo(),
		notifications: newFakeNotificationRepo(),
		logs:          newFakeAdminLogRepo(),
	}
	f.uow = &fakeUnitOfWork{repos: repository.Repositories{
		Users:         f.users,
		Tickets:       f.tickets,
		Notifications: f.notifications,
		AdminLogs:     f.logs,
	}}

	logger := zap.NewNop()
	dispatcher := events.NewInMemoryDispatcher(logger)

	f.auditService = NewAuditService(f.uow, f.logs)
	f.notificationService = NewNotificationService(f.notifications, f.users, nil, logger)
	f.notificationService.RegisterHandlers(dispatcher)
	f.ticketService = NewTicketService(TicketDependencies{
		UnitOfWork: f.uow,
		TicketRepo: f.tickets,
		UserRepo:   f.users,
		Audit:      f.auditService,
		Dispatcher: dispatcher,
	})
	f.userService = NewUserService(f.uow, f.users, f.auditService, 4)
	return f
}

func (f *fixture) seedUser(name, email string, role domain.Role, active bool) *domain.User {
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
		Active:       active,
	}
	if err := f.users.Create(context.Background(), user); err != nil {
		panic(err)
	}
	return user
}

func (f *fixture) seedTicket(clientID string, status domain.TicketStatus, agentID *string) *domain.Ticket {
	ticket := &domain.Ticket{
		Title:       "Imprimante cassée",
		Description: "L'imprimante du deuxième étage ne répond plus.",
		Status:      status,
		ClientID:    clientID,
		AgentID:     agentID,
	}
	if err := f.tickets.Create(context.Background(), ticket); err != nil {
		panic(err)
	}
	return ticket
}
