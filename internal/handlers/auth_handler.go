package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"storefront/internal/models"
	"storefront/internal/services"
)

// AuthHandler handles HTTP requests for registration, login and email
// verification.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    newValidator(),
	}
}

// RegisterRoutes registers the authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Get("/:userId/verify/:token", h.HandleVerify)
}

// RegisterRequest is the validation rule table for registration.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=8,max=30"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,password"`
	Street    string `json:"street" validate:"required,min=3,max=50"`
	Apartment string `json:"apartment" validate:"required,min=1,max=50"`
	City      string `json:"city" validate:"required,min=2,max=50"`
	Zip       string `json:"zip" validate:"required,min=2,max=20"`
	Country   string `json:"country" validate:"required,min=2,max=50"`
	Phone     string `json:"phone" validate:"required,min=3,max=30,phone"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, firstViolation(err))
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Street:    req.Street,
		Apartment: req.Apartment,
		City:      req.City,
		Zip:       req.Zip,
		Country:   req.Country,
		Phone:     req.Phone,
	}
	if err := h.authService.Register(user); err != nil {
		return failFromError(c, err)
	}

	return success(c, fiber.StatusOK, fiber.Map{
		"message": "We sent you a verification email, check your inbox",
	})
}

// LoginRequest is the validation rule table for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a bearer token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, firstViolation(err))
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		return failFromError(c, err)
	}

	return success(c, fiber.StatusOK, fiber.Map{
		"_id":          user.ID,
		"username":     user.Username,
		"profilePhoto": user.ProfilePhoto,
		"token":        token,
		"isAdmin":      user.IsAdmin,
	})
}

// HandleVerify consumes a verification link.
func (h *AuthHandler) HandleVerify(c *fiber.Ctx) error {
	if err := h.authService.Verify(c.Params("userId"), c.Params("token")); err != nil {
		return failFromError(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{
		"message": "email verified successfully",
	})
}
