package handlers

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service     *services.ProductService
	authService *services.AuthService
	validate    *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, authService *services.AuthService) *ProductHandler {
	return &ProductHandler{
		service:     service,
		authService: authService,
		validate:    newValidator(),
	}
}

// RegisterRoutes registers the product routes. Reads are public, mutations
// are admin only.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	authn := middleware.Authenticate(h.authService)
	admin := middleware.AdminOnly()
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Post("/", authn, admin, h.HandleCreateProduct)
	productRoutes.Get("/:productId", h.HandleGetProduct)
	productRoutes.Put("/:productId", authn, admin, h.HandleUpdateProduct)
	productRoutes.Delete("/:productId", authn, admin, h.HandleDeleteProduct)
	productRoutes.Post("/:productId/uploadImage", authn, admin, h.HandleUploadImage)
	productRoutes.Post("/:productId/uploadImages", authn, admin, h.HandleUploadImages)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		return failFromError(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{"products": products})
}

// HandleGetProduct retrieves one product.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.Params("productId"))
	if err != nil {
		return failFromError(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{"product": product})
}

// CreateProductRequest is the validation rule table for product creation.
type CreateProductRequest struct {
	Title        string  `json:"title" validate:"required,min=3,max=100"`
	Description  string  `json:"description" validate:"required,min=10,max=1000"`
	Brand        string  `json:"brand" validate:"required,min=2,max=50"`
	Price        float64 `json:"price" validate:"required,gt=0"`
	Category     string  `json:"category" validate:"required"`
	CountInStock int     `json:"countInStock" validate:"gte=0,lte=255"`
	Rating       int     `json:"rating" validate:"omitempty,gte=1,lte=5"`
	IsFeatured   *bool   `json:"isFeatured"`
}

// HandleCreateProduct creates a new product (admin). The referenced category
// must exist.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, firstViolation(err))
	}

	product := &models.Product{
		Title:        req.Title,
		Description:  req.Description,
		Brand:        req.Brand,
		Price:        req.Price,
		CategoryID:   req.Category,
		CountInStock: req.CountInStock,
		Rating:       req.Rating,
		IsFeatured:   true,
	}
	if product.Rating == 0 {
		product.Rating = 5
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}
	if err := h.service.CreateProduct(product); err != nil {
		return failFromError(c, err)
	}
	return success(c, fiber.StatusCreated, fiber.Map{"product": product})
}

// UpdateProductRequest is the validation rule table for product updates.
type UpdateProductRequest struct {
	Title        string   `json:"title" validate:"omitempty,min=3,max=100"`
	Description  string   `json:"description" validate:"omitempty,min=10,max=1000"`
	Brand        string   `json:"brand" validate:"omitempty,min=2,max=50"`
	Price        *float64 `json:"price" validate:"omitempty,gt=0"`
	Category     string   `json:"category"`
	CountInStock *int     `json:"countInStock" validate:"omitempty,gte=0,lte=255"`
	Rating       *int     `json:"rating" validate:"omitempty,gte=1,lte=5"`
	IsFeatured   *bool    `json:"isFeatured"`
}

// HandleUpdateProduct applies a partial product update (admin).
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, firstViolation(err))
	}

	product, err := h.service.GetProductByID(c.Params("productId"))
	if err != nil {
		return failFromError(c, err)
	}
	if req.Title != "" {
		product.Title = req.Title
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.Brand != "" {
		product.Brand = req.Brand
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Category != "" {
		product.CategoryID = req.Category
	}
	if req.CountInStock != nil {
		product.CountInStock = *req.CountInStock
	}
	if req.Rating != nil {
		product.Rating = *req.Rating
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}
	product.Images = nil

	if err := h.service.UpdateProduct(product); err != nil {
		return failFromError(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{"updatedProduct": product})
}

// HandleDeleteProduct removes a product and detaches its hosted assets
// (admin).
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), c.Params("productId")); err != nil {
		return failFromError(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{"message": "Product deleted successfully"})
}

// HandleUploadImage replaces the product's primary image (admin).
func (h *ProductHandler) HandleUploadImage(c *fiber.Ctx) error {
	localPath, cleanup, err := saveUploadedFile(c, "image")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "image file is required")
	}
	defer cleanup()

	product, err := h.service.UpdateProductImage(c.UserContext(), c.Params("productId"), localPath)
	if err != nil {
		return failFromError(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{"product": product})
}

// HandleUploadImages appends gallery images to a product (admin).
func (h *ProductHandler) HandleUploadImages(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil || len(form.File["images"]) == 0 {
		return fail(c, fiber.StatusBadRequest, "at least one image file is required")
	}

	var localPaths []string
	defer func() {
		for _, path := range localPaths {
			os.Remove(path)
		}
	}()
	for _, file := range form.File["images"] {
		localPath := os.TempDir() + "/" + uuid.New().String() + "-" + file.Filename
		if err := c.SaveFile(file, localPath); err != nil {
			return fail(c, fiber.StatusInternalServerError, "internal server error")
		}
		localPaths = append(localPaths, localPath)
	}

	product, err := h.service.UploadProductImages(c.UserContext(), c.Params("productId"), localPaths)
	if err != nil {
		return failFromError(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{"product": product})
}
