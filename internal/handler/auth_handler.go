package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/headstoneworld/orders-api/internal/dto"
	"github.com/headstoneworld/orders-api/internal/service"
	"github.com/headstoneworld/orders-api/internal/utils"
)

// AuthHandler handles both login flavours.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires the login routes.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/login", h.passwordLogin)
	router.Post("/log", h.credentialLogin)
}

func (h *AuthHandler) passwordLogin(c *fiber.Ctx) error {
	var req dto.PasswordLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "password is required")
	}

	if err := h.service.PasswordLogin(c.Context(), req); err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "password is required")
		case errors.Is(err, service.ErrInvalidCredentials):
			return utils.SendError(c, fiber.StatusUnauthorized, "incorrect password")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("password login failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "authentication failed")
		}
	}

	return utils.SendSuccess(c, "authentication successful", nil)
}

func (h *AuthHandler) credentialLogin(c *fiber.Ctx) error {
	var req dto.CredentialLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "username and password are required")
	}

	response, err := h.service.CredentialLogin(c.Context(), req)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "username and password are required")
		case errors.Is(err, service.ErrInvalidCredentials):
			return utils.SendError(c, fiber.StatusUnauthorized, "incorrect password")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("credential login failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "authentication failed")
		}
	}

	return utils.SendSuccess(c, "authentication successful", response)
}
