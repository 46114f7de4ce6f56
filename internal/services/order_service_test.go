package services_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
)

// MockEventPublisher is a mock implementation of services.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishOrderEvent(event string, payload map[string]interface{}) error {
	args := m.Called(event, payload)
	return args.Error(0)
}

func shippingInput(items []services.OrderLine) services.OrderInput {
	return services.OrderInput{
		Items:            items,
		ShippingAddress1: "1 Main Street",
		City:             "Springfield",
		Zip:              "12345",
		Country:          "USA",
		Phone:            "+1 555 123 4567",
	}
}

func seedProduct(t *testing.T, repo repositories.ProductRepository, id string, price float64) {
	t.Helper()
	err := repo.Create(&models.Product{
		ID:          id,
		Title:       "Product " + id,
		Description: "A product used in tests",
		Brand:       "Acme",
		Price:       price,
		CategoryID:  "cat-1",
	})
	assert.NoError(t, err)
}

func TestOrderService_CreateOrderTotal(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	productRepo := repositories.NewMockProductRepository()
	events := new(MockEventPublisher)
	events.On("PublishOrderEvent", "order.created", mock.Anything).Return(nil).Once()

	seedProduct(t, productRepo, "P1", 10.00)
	seedProduct(t, productRepo, "P2", 5.50)

	orderService := services.NewOrderService(orderRepo, productRepo, events, zerolog.Nop())

	order, err := orderService.CreateOrder("user-1", shippingInput([]services.OrderLine{
		{ProductID: "P1", Quantity: 2},
		{ProductID: "P2", Quantity: 1},
	}))
	assert.NoError(t, err)
	assert.Equal(t, 25.50, order.TotalPrice)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, "user-1", order.UserID)
	events.AssertExpectations(t)

	// The item list preserves the original cart order.
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "P1", order.Items[0].ProductID)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, "P2", order.Items[1].ProductID)
	assert.Equal(t, 1, order.Items[1].Quantity)
}

func TestOrderService_CreateOrderManyLines(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	productRepo := repositories.NewMockProductRepository()

	var lines []services.OrderLine
	var expectedTotal float64
	for i := 0; i < 25; i++ {
		id := fmt.Sprintf("P%d", i)
		price := float64(i) + 0.25
		qty := i%3 + 1
		seedProduct(t, productRepo, id, price)
		lines = append(lines, services.OrderLine{ProductID: id, Quantity: qty})
		expectedTotal += price * float64(qty)
	}

	orderService := services.NewOrderService(orderRepo, productRepo, nil, zerolog.Nop())

	order, err := orderService.CreateOrder("user-1", shippingInput(lines))
	assert.NoError(t, err)
	assert.InDelta(t, expectedTotal, order.TotalPrice, 1e-9)

	// Cart order survives the concurrent item creation.
	assert.Len(t, order.Items, len(lines))
	for i, item := range order.Items {
		assert.Equal(t, lines[i].ProductID, item.ProductID)
		assert.Equal(t, lines[i].Quantity, item.Quantity)
	}
}

func TestOrderService_CreateOrderUnknownProduct(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	productRepo := repositories.NewMockProductRepository()
	seedProduct(t, productRepo, "P1", 10.00)

	orderService := services.NewOrderService(orderRepo, productRepo, nil, zerolog.Nop())

	_, err := orderService.CreateOrder("user-1", shippingInput([]services.OrderLine{
		{ProductID: "P1", Quantity: 1},
		{ProductID: "missing", Quantity: 1},
	}))
	assert.Error(t, err)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	// The compensating cleanup removed the items persisted before the failure.
	assert.Equal(t, 0, orderRepo.ItemCount())

	orders, err := orderRepo.GetAll()
	assert.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	productRepo := repositories.NewMockProductRepository()
	seedProduct(t, productRepo, "P1", 10.00)

	orderService := services.NewOrderService(orderRepo, productRepo, nil, zerolog.Nop())

	order, err := orderService.CreateOrder("user-1", shippingInput([]services.OrderLine{
		{ProductID: "P1", Quantity: 1},
	}))
	assert.NoError(t, err)

	updated, err := orderService.UpdateOrderStatus(order.ID, models.StatusShipped)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusShipped, updated.Status)

	_, err = orderService.UpdateOrderStatus(order.ID, models.OrderStatus("Teleported"))
	assert.ErrorIs(t, err, services.ErrInvalidStatus)

	_, err = orderService.UpdateOrderStatus("missing", models.StatusShipped)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestOrderService_DeleteOrderCascade(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	productRepo := repositories.NewMockProductRepository()
	events := new(MockEventPublisher)
	events.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(nil)

	seedProduct(t, productRepo, "P1", 10.00)
	seedProduct(t, productRepo, "P2", 5.50)

	orderService := services.NewOrderService(orderRepo, productRepo, events, zerolog.Nop())

	order, err := orderService.CreateOrder("user-1", shippingInput([]services.OrderLine{
		{ProductID: "P1", Quantity: 2},
		{ProductID: "P2", Quantity: 1},
	}))
	assert.NoError(t, err)
	assert.Equal(t, 2, orderRepo.ItemCount())

	deleted, err := orderService.DeleteOrder(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, order.ID, deleted.ID)

	_, err = orderService.GetOrderByID(order.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	// The cascade is fire-and-forget; the items disappear shortly after the
	// delete returns.
	assert.Eventually(t, func() bool {
		return orderRepo.ItemCount() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestOrderService_TotalSales(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	productRepo := repositories.NewMockProductRepository()
	seedProduct(t, productRepo, "P1", 10.00)

	orderService := services.NewOrderService(orderRepo, productRepo, nil, zerolog.Nop())

	// Zero orders sum to zero.
	total, err := orderService.TotalSales()
	assert.NoError(t, err)
	assert.Equal(t, 0.0, total)

	for i := 0; i < 3; i++ {
		_, err := orderService.CreateOrder("user-1", shippingInput([]services.OrderLine{
			{ProductID: "P1", Quantity: i + 1},
		}))
		assert.NoError(t, err)
	}

	total, err = orderService.TotalSales()
	assert.NoError(t, err)
	assert.Equal(t, 60.0, total) // 10 + 20 + 30
}

func TestOrderService_GetUserOrders(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	productRepo := repositories.NewMockProductRepository()
	seedProduct(t, productRepo, "P1", 10.00)

	orderService := services.NewOrderService(orderRepo, productRepo, nil, zerolog.Nop())

	_, err := orderService.CreateOrder("user-1", shippingInput([]services.OrderLine{{ProductID: "P1", Quantity: 1}}))
	assert.NoError(t, err)
	_, err = orderService.CreateOrder("user-2", shippingInput([]services.OrderLine{{ProductID: "P1", Quantity: 1}}))
	assert.NoError(t, err)

	orders, err := orderService.GetUserOrders("user-1")
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, "user-1", orders[0].UserID)
}
