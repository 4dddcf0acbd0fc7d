package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/digiticket/helpdesk-service/internal/auth"
	"github.com/digiticket/helpdesk-service/internal/domain"
	"github.com/digiticket/helpdesk-service/internal/policy"
	"github.com/digiticket/helpdesk-service/internal/repository"
	apperrors "github.com/digiticket/helpdesk-service/pkg/util/errorutil"
)

// UserService is the administrative user directory. Every mutation is
// ADMIN-only and commits an audit entry in the same unit of work.
type UserService struct {
	uow        repository.UnitOfWork
	users      repository.UserRepository
	audit      *AuditService
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(uow repository.UnitOfWork, users repository.UserRepository, audit *AuditService, bcryptCost int) *UserService {
	return &UserService{uow: uow, users: users, audit: audit, bcryptCost: bcryptCost}
}

// CreateUserInput describes the administrative creation payload.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// UpdateUserInput carries optional field changes.
type UpdateUserInput struct {
	Name  *string
	Email *string
}

// Create registers an account through the administrative path. The
// account starts inactive: an administrator must activate it before the
// owner can sign in.
func (s *UserService) Create(ctx context.Context, caller policy.Caller, input CreateUserInput) (*domain.User, error) {
	if decision := policy.Authorize(caller, policy.OpUserManage, policy.Resource{}); !decision.Allowed {
		return nil, apperrors.NewForbidden(decision.Reason)
	}
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("name, email and password are required", nil)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		Active:       false,
	}
	err = s.uow.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		exists, err := repos.Users.ExistsByEmail(ctx, user.Email)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.NewDuplicateEmail(user.Email)
		}
		if err := repos.Users.Create(ctx, user); err != nil {
			return err
		}
		details := fmt.Sprintf("Création de l'utilisateur %s (rôle %s)", user.Email, user.Role)
		return s.audit.Append(ctx, repos, caller.ID, domain.AdminActionCreateUser, details, &user.ID, nil)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// GetByID fetches one account. Admin only.
func (s *UserService) GetByID(ctx context.Context, caller policy.Caller, userID string) (*domain.User, error) {
	if decision := policy.Authorize(caller, policy.OpUserManage, policy.Resource{}); !decision.Allowed {
		return nil, apperrors.NewForbidden(decision.Reason)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// GetByEmail fetches one account by email. Admin only.
func (s *UserService) GetByEmail(ctx context.Context, caller policy.Caller, email string) (*domain.User, error) {
	if decision := policy.Authorize(caller, policy.OpUserManage, policy.Resource{}); !decision.Allowed {
		return nil, apperrors.NewForbidden(decision.Reason)
	}
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"email": email})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ListAll returns every account. Admin only.
func (s *UserService) ListAll(ctx context.Context, caller policy.Caller) ([]domain.User, error) {
	if decision := policy.Authorize(caller, policy.OpUserManage, policy.Resource{}); !decision.Allowed {
		return nil, apperrors.NewForbidden(decision.Reason)
	}
	list, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// ListActive returns active accounts only. Admin only.
func (s *UserService) ListActive(ctx context.Context, caller policy.Caller) ([]domain.User, error) {
	if decision := policy.Authorize(caller, policy.OpUserManage, policy.Resource{}); !decision.Allowed {
		return nil, apperrors.NewForbidden(decision.Reason)
	}
	list, err := s.users.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// Update applies name/email changes. Changing the email to one already
// held by another account fails with DUPLICATE_EMAIL.
func (s *UserService) Update(ctx context.Context, caller policy.Caller, userID string, input UpdateUserInput) (*domain.User, error) {
	if decision := policy.Authorize(caller, policy.OpUserManage, policy.Resource{}); !decision.Allowed {
		return nil, apperrors.NewForbidden(decision.Reason)
	}

	var user *domain.User
	err := s.uow.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		user, err = repos.Users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("user", map[string]any{"user_id": userID})
			}
			return err
		}
		if input.Email != nil {
			email := strings.TrimSpace(strings.ToLower(*input.Email))
			if email != user.Email {
				exists, err := repos.Users.ExistsByEmail(ctx, email)
				if err != nil {
					return err
				}
				if exists {
					return apperrors.NewDuplicateEmail(email)
				}
				user.Email = email
			}
		}
		if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
			user.Name = strings.TrimSpace(*input.Name)
		}
		if err := repos.Users.Update(ctx, user); err != nil {
			return err
		}
		details := fmt.Sprintf("Modification de l'utilisateur %s", user.Email)
		return s.audit.Append(ctx, repos, caller.ID, domain.AdminActionUpdateUser, details, &user.ID, nil)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Delete removes an account through the administrative CRUD path. The
// audit entry keeps the email in its details; the target reference is
// stored absent since the row is gone.
func (s *UserService) Delete(ctx context.Context, caller policy.Caller, userID string) error {
	if decision := policy.Authorize(caller, policy.OpUserManage, policy.Resource{}); !decision.Allowed {
		return apperrors.NewForbidden(decision.Reason)
	}

	err := s.uow.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		user, err := repos.Users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("user", map[string]any{"user_id": userID})
			}
			return err
		}
		if err := repos.Users.Delete(ctx, userID); err != nil {
			return err
		}
		details := fmt.Sprintf("Suppression de l'utilisateur %s", user.Email)
		return s.audit.Append(ctx, repos, caller.ID, domain.AdminActionDeleteUser, details, &userID, nil)
	})
	return apperrors.MapError(err)
}

// SetActive toggles the active flag and records the matching audit action.
func (s *UserService) SetActive(ctx context.Context, caller policy.Caller, userID string, active bool) (*domain.User, error) {
	if decision := policy.Authorize(caller, policy.OpUserManage, policy.Resource{}); !decision.Allowed {
		return nil, apperrors.NewForbidden(decision.Reason)
	}

	var user *domain.User
	err := s.uow.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		user, err = repos.Users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("user", map[string]any{"user_id": userID})
			}
			return err
		}
		user.Active = active
		if err := repos.Users.Update(ctx, user); err != nil {
			return err
		}

		action := domain.AdminActionActivateUser
		details := fmt.Sprintf("Activation du compte utilisateur %s", user.Email)
		if !active {
			action = domain.AdminActionDeactivateUser
			details = fmt.Sprintf("Désactivation du compte utilisateur %s", user.Email)
		}
		return s.audit.Append(ctx, repos, caller.ID, action, details, &user.ID, nil)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// SetRole changes an account's role.
func (s *UserService) SetRole(ctx context.Context, caller policy.Caller, userID string, role domain.Role) (*domain.User, error) {
	if decision := policy.Authorize(caller, policy.OpUserManage, policy.Resource{}); !decision.Allowed {
		return nil, apperrors.NewForbidden(decision.Reason)
	}

	var user *domain.User
	err := s.uow.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		user, err = repos.Users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("user", map[string]any{"user_id": userID})
			}
			return err
		}
		oldRole := user.Role
		user.Role = role
		if err := repos.Users.Update(ctx, user); err != nil {
			return err
		}
		details := fmt.Sprintf("Changement de rôle: %s -> %s pour l'utilisateur %s", oldRole, role, user.Email)
		return s.audit.Append(ctx, repos, caller.ID, domain.AdminActionUpdateUserRole, details, &user.ID, nil)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}
