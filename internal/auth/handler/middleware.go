package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ShashkovS/ejapp/internal/auth/domain"
	autherror "github.com/ShashkovS/ejapp/internal/errors"
)

const currentUserKey = "currentUser"

func bearerToken(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

// authenticate resolves the request's bearer token to an identity. The
// failure causes stay distinguishable here (ErrNoCredential, the token
// taxonomy, ErrUnknownSubject); RequireAuth collapses them at the boundary.
func (h *AuthHandler) authenticate(c *fiber.Ctx) (*domain.User, error) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return nil, autherror.ErrNoCredential
	}

	claims, err := h.tokens.Decode(tokenString, domain.KindAccess)
	if err != nil {
		return nil, err
	}

	// Exactly one store lookup per request, nothing cached across requests.
	user, err := h.repo.GetByEmail(c.Context(), claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, autherror.ErrUnknownSubject
	}

	return user, nil
}

// RequireAuth is the enforcement point for every protected route. It runs
// before the resource handler and short-circuits on any failure. All
// authentication failures share one 401 body so the reply does not reveal
// which check rejected; only a store outage differs, as a 500.
func (h *AuthHandler) RequireAuth(c *fiber.Ctx) error {
	user, err := h.authenticate(c)
	if err != nil {
		if errors.Is(err, autherror.ErrNoCredential) ||
			errors.Is(err, autherror.ErrUnknownSubject) ||
			autherror.IsTokenError(err) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	c.Locals(currentUserKey, user)

	return c.Next()
}

// CurrentUser returns the identity resolved by RequireAuth, or nil when the
// request did not pass through it.
func CurrentUser(c *fiber.Ctx) *domain.User {
	user, _ := c.Locals(currentUserKey).(*domain.User)
	return user
}
