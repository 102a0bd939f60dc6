package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"shopapi/internal/middleware"
	"shopapi/internal/services"
)

// AuthHandler handles HTTP requests for registration, login and tokens.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes. loginLimiter throttles
// anonymous login attempts.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, loginLimiter fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", loginLimiter, h.HandleLogin)
	authRoutes.Post("/refresh", h.HandleRefresh)
	authRoutes.Get("/me", middleware.AuthRequired(h.authService), h.HandleMe)
}

// RegisterRequest represents the registration body. Presence rules, password
// policy and uniqueness are checked by the service; tags only cover formats.
type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,e164"`
	Password    string `json:"password"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": formatValidationErrors(err),
		})
	}

	user, err := h.authService.Register(services.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"errors": ve.Fields,
			})
		}
		logrus.WithError(err).Error("registration failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Could not register user",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(user.Profile())
}

// LoginRequest represents the login body. The identifier may be a username,
// an email address or a phone number.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// HandleLogin verifies credentials and issues an access/refresh token pair.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": formatValidationErrors(err),
		})
	}

	pair, err := h.authService.Login(req.Identifier, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Invalid credentials",
			})
		}
		logrus.WithError(err).Error("login failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Could not process login",
		})
	}

	return c.JSON(pair)
}

// RefreshRequest represents the token refresh body.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// HandleRefresh mints a new access token from a refresh token.
func (h *AuthHandler) HandleRefresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": formatValidationErrors(err),
		})
	}

	access, err := h.authService.Refresh(req.Refresh)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"detail": "Invalid or expired token",
		})
	}

	return c.JSON(fiber.Map{"access": access})
}

// HandleMe returns the authenticated caller's public profile.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	userID, ok := c.Locals(middleware.UserIDKey).(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"detail": "Invalid or expired token",
		})
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Invalid or expired token",
			})
		}
		logrus.WithError(err).Error("failed to load profile")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Could not load profile",
		})
	}

	return c.JSON(user.Profile())
}

// formatValidationErrors flattens validator errors into a field->message map.
func formatValidationErrors(err error) map[string]string {
	messages := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		messages["detail"] = err.Error()
		return messages
	}
	for _, e := range verrs {
		messages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' rule", e.Field(), e.Tag())
	}
	return messages
}
