package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/digiticket/helpdesk-service/internal/auth"
	"github.com/digiticket/helpdesk-service/internal/policy"
	apperrors "github.com/digiticket/helpdesk-service/pkg/util/errorutil"
)

// callerFromContext builds the policy caller from the authenticated
// principal.
func callerFromContext(c *fiber.Ctx) (policy.Caller, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return policy.Caller{}, apperrors.NewUnauthorized("authentication required")
	}
	return policy.Caller{ID: principal.User.ID, Role: principal.User.Role}, nil
}
