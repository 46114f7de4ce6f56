package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service     *services.OrderService
	authService *services.AuthService
	validate    *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, authService *services.AuthService) *OrderHandler {
	return &OrderHandler{
		service:     service,
		authService: authService,
		validate:    newValidator(),
	}
}

// RegisterRoutes registers the order routes with their guards.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	authn := middleware.Authenticate(h.authService)
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", authn, h.HandleCreateOrder)
	orderRoutes.Get("/", authn, middleware.AdminOnly(), h.HandleGetOrders)
	orderRoutes.Get("/totalSales", authn, middleware.AdminOnly(), h.HandleTotalSales)
	orderRoutes.Get("/users/:userId", authn, middleware.AdminOnly(), h.HandleUserOrders)
	orderRoutes.Put("/:orderId", authn, h.HandleUpdateOrderStatus)
	orderRoutes.Delete("/:orderId", authn, h.HandleDeleteOrder)
}

// OrderItemRequest is one cart line of an order request.
type OrderItemRequest struct {
	Product  string `json:"product" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderRequest is the validation rule table for order placement.
type CreateOrderRequest struct {
	OrderItems       []OrderItemRequest `json:"orderItems" validate:"required,min=1,dive"`
	ShippingAddress1 string             `json:"shippingAddress1" validate:"required,min=5,max=100"`
	ShippingAddress2 string             `json:"shippingAddress2" validate:"omitempty,min=5,max=100"`
	City             string             `json:"city" validate:"required,min=2,max=50"`
	Zip              string             `json:"zip" validate:"required,min=2,max=20"`
	Country          string             `json:"country" validate:"required,min=2,max=50"`
	Phone            string             `json:"phone" validate:"required,min=7,max=20,phone"`
}

// HandleCreateOrder places a new order for the authenticated user.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, firstViolation(err))
	}

	claims := middleware.ClaimsFrom(c)
	input := services.OrderInput{
		Items:            make([]services.OrderLine, 0, len(req.OrderItems)),
		ShippingAddress1: req.ShippingAddress1,
		ShippingAddress2: req.ShippingAddress2,
		City:             req.City,
		Zip:              req.Zip,
		Country:          req.Country,
		Phone:            req.Phone,
	}
	for _, item := range req.OrderItems {
		input.Items = append(input.Items, services.OrderLine{
			ProductID: item.Product,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.service.CreateOrder(claims.UserID, input)
	if err != nil {
		return failFromError(c, err)
	}
	return success(c, fiber.StatusCreated, fiber.Map{"order": order})
}

// HandleGetOrders retrieves all orders (admin).
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders()
	if err != nil {
		return failFromError(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{"orders": orders})
}

// UpdateOrderStatusRequest is the validation rule table for status updates.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleUpdateOrderStatus sets the status of an order. Allowed for the order
// owner and any admin.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, firstViolation(err))
	}

	order, err := h.loadOwnedOrder(c)
	if err != nil {
		return failFromError(c, err)
	}
	if order == nil {
		return nil // response already written by the guard
	}

	updatedOrder, err := h.service.UpdateOrderStatus(order.ID, models.OrderStatus(req.Status))
	if err != nil {
		return failFromError(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{"updatedOrder": updatedOrder})
}

// HandleDeleteOrder removes an order; its items are cleaned up by a
// fire-and-forget cascade after the response.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	order, err := h.loadOwnedOrder(c)
	if err != nil {
		return failFromError(c, err)
	}
	if order == nil {
		return nil
	}

	deleted, err := h.service.DeleteOrder(order.ID)
	if err != nil {
		return failFromError(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{
		"message": "Order deleted successfully",
		"order":   deleted,
	})
}

// HandleTotalSales reports the sum of totalPrice over all orders (admin).
func (h *OrderHandler) HandleTotalSales(c *fiber.Ctx) error {
	total, err := h.service.TotalSales()
	if err != nil {
		return failFromError(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{"totalSales": total})
}

// HandleUserOrders retrieves one user's orders (admin).
func (h *OrderHandler) HandleUserOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetUserOrders(c.Params("userId"))
	if err != nil {
		return failFromError(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{"orders": orders})
}

// loadOwnedOrder resolves the :orderId order and enforces the self-or-admin
// predicate against its owner. On a failed predicate the 403 response is
// written here and (nil, nil) is returned.
func (h *OrderHandler) loadOwnedOrder(c *fiber.Ctx) (*models.Order, error) {
	order, err := h.service.GetOrderByID(c.Params("orderId"))
	if err != nil {
		return nil, err
	}
	claims := middleware.ClaimsFrom(c)
	if claims.UserID != order.UserID && !claims.IsAdmin {
		return nil, fail(c, fiber.StatusForbidden, "only this user or admin can take this action")
	}
	return order, nil
}
