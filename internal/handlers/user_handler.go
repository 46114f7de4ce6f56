package handlers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"storefront/internal/middleware"
	"storefront/internal/services"
)

// UserHandler handles HTTP requests for user profiles.
type UserHandler struct {
	service     *services.UserService
	authService *services.AuthService
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService, authService *services.AuthService) *UserHandler {
	return &UserHandler{
		service:     service,
		authService: authService,
		validate:    newValidator(),
	}
}

// RegisterRoutes registers the user routes with their guards.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	authn := middleware.Authenticate(h.authService)
	userRoutes := router.Group("/users")
	userRoutes.Get("/", authn, middleware.AdminOnly(), h.HandleGetUsers)
	userRoutes.Post("/profilePhoto", authn, h.HandleUpdateProfilePhoto)
	userRoutes.Get("/:userId", h.HandleGetUser)
	userRoutes.Put("/:userId", authn, middleware.SelfOnly("userId"), h.HandleUpdateUser)
	userRoutes.Delete("/:userId", authn, middleware.SelfOrAdmin("userId"), h.HandleDeleteUser)
}

// HandleGetUsers retrieves all users (admin).
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.service.GetAllUsers()
	if err != nil {
		return failFromError(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{"users": users})
}

// HandleGetUser retrieves one user.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	user, err := h.service.GetUserByID(c.Params("userId"))
	if err != nil {
		return failFromError(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{"user": user})
}

// UpdateUserRequest is the validation rule table for profile updates. All
// fields are optional; present fields must satisfy their constraints.
type UpdateUserRequest struct {
	Username  string `json:"username" validate:"omitempty,min=8,max=30"`
	Email     string `json:"email" validate:"omitempty,email"`
	Password  string `json:"password" validate:"omitempty,password"`
	Street    string `json:"street" validate:"omitempty,min=3,max=50"`
	Apartment string `json:"apartment" validate:"omitempty,min=1,max=50"`
	City      string `json:"city" validate:"omitempty,min=2,max=50"`
	Zip       string `json:"zip" validate:"omitempty,min=2,max=20"`
	Country   string `json:"country" validate:"omitempty,min=2,max=50"`
	Phone     string `json:"phone" validate:"omitempty,min=3,max=30,phone"`
}

// HandleUpdateUser applies a partial profile update (self only).
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, firstViolation(err))
	}

	user, err := h.service.UpdateUser(c.Params("userId"), services.UserUpdate{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Street:    req.Street,
		Apartment: req.Apartment,
		City:      req.City,
		Zip:       req.Zip,
		Country:   req.Country,
		Phone:     req.Phone,
	})
	if err != nil {
		return failFromError(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{"user": user})
}

// HandleDeleteUser removes a user account (self or admin).
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	if err := h.service.DeleteUser(c.Params("userId")); err != nil {
		return failFromError(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{"message": "User deleted successfully"})
}

// HandleUpdateProfilePhoto uploads a new profile photo for the authenticated
// user. The temp file is removed once the upload is through.
func (h *UserHandler) HandleUpdateProfilePhoto(c *fiber.Ctx) error {
	claims := middleware.ClaimsFrom(c)

	localPath, cleanup, err := saveUploadedFile(c, "image")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "image file is required")
	}
	defer cleanup()

	if err := h.service.UpdateProfilePhoto(c.UserContext(), claims.UserID, localPath); err != nil {
		return failFromError(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{
		"message": "your profile photo uploaded successfully",
	})
}

// saveUploadedFile spools one multipart file field to the temp directory and
// returns its path plus a cleanup func.
func saveUploadedFile(c *fiber.Ctx, field string) (string, func(), error) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", nil, err
	}
	localPath := filepath.Join(os.TempDir(),
		fmt.Sprintf("%s-%s", uuid.New().String(), filepath.Base(file.Filename)))
	if err := c.SaveFile(file, localPath); err != nil {
		return "", nil, err
	}
	return localPath, func() { os.Remove(localPath) }, nil
}
