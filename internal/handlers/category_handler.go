package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service     *services.CategoryService
	authService *services.AuthService
	validate    *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService, authService *services.AuthService) *CategoryHandler {
	return &CategoryHandler{
		service:     service,
		authService: authService,
		validate:    newValidator(),
	}
}

// RegisterRoutes registers the category routes. Reads are public, mutations
// are admin only.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router) {
	authn := middleware.Authenticate(h.authService)
	admin := middleware.AdminOnly()
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleGetCategories)
	categoryRoutes.Post("/", authn, admin, h.HandleCreateCategory)
	categoryRoutes.Get("/:categoryId", h.HandleGetCategory)
	categoryRoutes.Put("/:categoryId", authn, admin, h.HandleUpdateCategory)
	categoryRoutes.Delete("/:categoryId", authn, admin, h.HandleDeleteCategory)
	categoryRoutes.Post("/:categoryId/updateImage", authn, admin, h.HandleUpdateCategoryImage)
}

// HandleGetCategories retrieves all categories with their products.
func (h *CategoryHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetAllCategories()
	if err != nil {
		return failFromError(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{"categories": categories})
}

// HandleGetCategory retrieves one category with its products.
func (h *CategoryHandler) HandleGetCategory(c *fiber.Ctx) error {
	category, err := h.service.GetCategoryByID(c.Params("categoryId"))
	if err != nil {
		return failFromError(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{"category": category})
}

// CreateCategoryRequest is the validation rule table for category creation.
type CreateCategoryRequest struct {
	Title string `json:"title" validate:"required,min=3,max=50"`
	Color string `json:"color" validate:"required,hexcolor"`
}

// HandleCreateCategory creates a new category (admin).
func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var req CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, firstViolation(err))
	}

	category := &models.Category{Title: req.Title, Color: req.Color}
	if err := h.service.CreateCategory(category); err != nil {
		return failFromError(c, err)
	}
	return success(c, fiber.StatusCreated, fiber.Map{"category": category})
}

// UpdateCategoryRequest is the validation rule table for category updates.
type UpdateCategoryRequest struct {
	Title string `json:"title" validate:"omitempty,min=3,max=50"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// HandleUpdateCategory applies a partial category update (admin).
func (h *CategoryHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	var req UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, firstViolation(err))
	}

	category, err := h.service.GetCategoryByID(c.Params("categoryId"))
	if err != nil {
		return failFromError(c, err)
	}
	if req.Title != "" {
		category.Title = req.Title
	}
	if req.Color != "" {
		category.Color = req.Color
	}
	category.Products = nil

	if err := h.service.UpdateCategory(category); err != nil {
		return failFromError(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{"updatedCategory": category})
}

// HandleDeleteCategory removes a category (admin).
func (h *CategoryHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	categoryID := c.Params("categoryId")
	category, err := h.service.GetCategoryByID(categoryID)
	if err != nil {
		return failFromError(c, err)
	}
	if err := h.service.DeleteCategory(c.UserContext(), categoryID); err != nil {
		return failFromError(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{"category": category})
}

// HandleUpdateCategoryImage uploads a new category image (admin).
func (h *CategoryHandler) HandleUpdateCategoryImage(c *fiber.Ctx) error {
	localPath, cleanup, err := saveUploadedFile(c, "image")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "image file is required")
	}
	defer cleanup()

	category, err := h.service.UpdateCategoryImage(c.UserContext(), c.Params("categoryId"), localPath)
	if err != nil {
		return failFromError(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{"category": category})
}
