package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/digiticket/helpdesk-service/internal/api/dto"
	"github.com/digiticket/helpdesk-service/internal/domain"
	"github.com/digiticket/helpdesk-service/internal/service"
	apperrors "github.com/digiticket/helpdesk-service/pkg/util/errorutil"
)

// AuthHandler exposes registration and login endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	role := domain.RoleClient
	if req.Role != "" {
		parsed, ok := domain.ParseRole(req.Role)
		if !ok {
			return apperrors.NewValidationError("unknown role", map[string]any{"role": req.Role})
		}
		role = parsed
	}

	user, token, exp, err := h.auth.Register(c.Context(), req.Name, req.Email, req.Password, role)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.NewUserResponse(user),
			"auth": dto.AuthResponse{Token: token, Type: "Bearer", ExpiresAt: exp},
		},
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, exp, err := h.auth.Authenticate(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.NewUserResponse(user),
			"auth": dto.AuthResponse{Token: token, Type: "Bearer", ExpiresAt: exp},
		},
	})
}
