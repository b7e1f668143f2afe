package handler

import (
	"github.com/gofiber/fiber/v2"

	authhandler "github.com/ShashkovS/ejapp/internal/auth/handler"
	"github.com/ShashkovS/ejapp/internal/item/domain"
	"github.com/ShashkovS/ejapp/internal/item/dto"
)

// ItemHandler serves the protected items resource. It never checks
// credentials itself: the auth guard has already resolved the caller by the
// time these handlers run.
type ItemHandler struct {
	repo domain.ItemRepository
}

func NewItemHandler(repo domain.ItemRepository) *ItemHandler {
	return &ItemHandler{repo: repo}
}

func (h *ItemHandler) List(c *fiber.Ctx) error {
	user := authhandler.CurrentUser(c)

	titles, err := h.repo.TitlesByOwner(c.Context(), user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	items := make([]dto.ItemRead, 0, len(titles))
	for _, title := range titles {
		items = append(items, dto.ItemRead{Title: title})
	}

	return c.Status(fiber.StatusOK).JSON(items)
}

func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var input dto.ItemCreate
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if input.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
	}

	user := authhandler.CurrentUser(c)

	item := &domain.Item{Title: input.Title, OwnerID: user.ID}
	if err := h.repo.Create(c.Context(), item); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	return c.Status(fiber.StatusOK).JSON(dto.ItemOut{ID: item.ID, Title: item.Title})
}

// RegisterRoutes mounts the items routes behind the supplied guard.
func RegisterRoutes(app *fiber.App, h *ItemHandler, requireAuth fiber.Handler) {
	items := app.Group("/items", requireAuth)
	items.Get("/", h.List)
	items.Post("/", h.Create)
}
