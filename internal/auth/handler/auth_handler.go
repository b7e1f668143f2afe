package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ShashkovS/ejapp/internal/auth/domain"
	"github.com/ShashkovS/ejapp/internal/auth/dto"
	"github.com/ShashkovS/ejapp/internal/auth/service"
	autherror "github.com/ShashkovS/ejapp/internal/errors"
)

type AuthHandler struct {
	userService *service.UserService
	tokens      service.TokenCodec
	repo        domain.UserRepository
}

func NewAuthHandler(userService *service.UserService, tokens service.TokenCodec, repo domain.UserRepository) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		tokens:      tokens,
		repo:        repo,
	}
}

func tokenResponse(pair *domain.TokenPair) dto.TokenResponse {
	return dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if input.Email == "" || input.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email and password are required"})
	}

	pair, err := h.userService.Register(c.Context(), input)
	if err != nil {
		if errors.Is(err, autherror.ErrEmailAlreadyInUse) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	return c.Status(fiber.StatusCreated).JSON(tokenResponse(pair))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	pair, err := h.userService.Login(c.Context(), input)
	if err != nil {
		if errors.Is(err, autherror.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	return c.Status(fiber.StatusOK).JSON(tokenResponse(pair))
}

// Refresh accepts the refresh token either as a JSON body field or as the
// bearer credential, and answers any invalid token with a flat 401 that does
// not say which check failed.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var input dto.RefreshInput
	_ = c.BodyParser(&input)
	if input.RefreshToken == "" {
		input.RefreshToken = bearerToken(c)
	}
	if input.RefreshToken == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": autherror.ErrNoCredential.Error()})
	}

	pair, err := h.userService.Refresh(c.Context(), input.RefreshToken)
	if err != nil {
		if autherror.IsTokenError(err) || errors.Is(err, autherror.ErrUnknownSubject) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid refresh token"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	return c.Status(fiber.StatusOK).JSON(tokenResponse(pair))
}

func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	code := c.Query("code")

	pair, err := h.userService.Federated(c.Context(), code)
	if err != nil {
		if errors.Is(err, autherror.ErrInvalidAssertion) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	return c.Status(fiber.StatusOK).JSON(tokenResponse(pair))
}
