package services

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// EventPublisher publishes order lifecycle events. Satisfied by the rabbitmq
// client; nil disables publishing.
type EventPublisher interface {
	PublishOrderEvent(event string, payload map[string]interface{}) error
}

// OrderLine is one (product, quantity) pair of an incoming cart.
type OrderLine struct {
	ProductID string
	Quantity  int
}

// OrderInput is a validated cart payload plus shipping fields.
type OrderInput struct {
	Items            []OrderLine
	ShippingAddress1 string
	ShippingAddress2 string
	City             string
	Zip              string
	Country          string
	Phone            string
}

// OrderService implements the order workflow: fan-out creation of line items,
// price aggregation, order persistence, cascade deletion and sales reporting.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	events      EventPublisher
	logger      zerolog.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	events EventPublisher,
	logger zerolog.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		events:      events,
		logger:      logger,
	}
}

// CreateOrder turns a cart into a persisted order. Line items are created
// concurrently, then each item's current product price is resolved
// concurrently; the sum of price x quantity becomes the order total. The item
// list attached to the order preserves the original cart order. A product
// that fails to resolve fails the whole order; items persisted up to that
// point get a best-effort compensating delete.
func (s *OrderService) CreateOrder(userID string, input OrderInput) (*models.Order, error) {
	n := len(input.Items)
	itemIDs := make([]string, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i, line := range input.Items {
		wg.Add(1)
		go func(i int, line OrderLine) {
			defer wg.Done()
			item := &models.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Position:  i,
			}
			if err := s.orderRepo.CreateItem(item); err != nil {
				errs[i] = err
				return
			}
			itemIDs[i] = item.ID
		}(i, line)
	}
	wg.Wait()

	if err := firstError(errs); err != nil {
		s.compensateItems(itemIDs)
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	lineTotals := make([]float64, n)
	for i, itemID := range itemIDs {
		wg.Add(1)
		go func(i int, itemID string) {
			defer wg.Done()
			item, err := s.orderRepo.GetItemByID(itemID)
			if err != nil {
				errs[i] = err
				return
			}
			product, err := s.productRepo.GetByID(item.ProductID)
			if err != nil {
				errs[i] = err
				return
			}
			lineTotals[i] = product.Price * float64(item.Quantity)
		}(i, itemID)
	}
	wg.Wait()

	if err := firstError(errs); err != nil {
		s.compensateItems(itemIDs)
		return nil, fmt.Errorf("failed to resolve order prices: %w", err)
	}

	// Addition is commutative; completion order of the lookups is irrelevant.
	var totalPrice float64
	for _, t := range lineTotals {
		totalPrice += t
	}

	order := &models.Order{
		ShippingAddress1: input.ShippingAddress1,
		ShippingAddress2: input.ShippingAddress2,
		City:             input.City,
		Zip:              input.Zip,
		Country:          input.Country,
		Phone:            input.Phone,
		Status:           models.StatusPending,
		TotalPrice:       totalPrice,
		UserID:           userID,
	}
	if err := s.orderRepo.Create(order, itemIDs); err != nil {
		s.compensateItems(itemIDs)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.publish("order.created", map[string]interface{}{
		"orderId": order.ID,
		"userId":  order.UserID,
		"status":  order.Status,
		"total":   order.TotalPrice,
	})

	return s.orderRepo.GetByID(order.ID)
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// GetUserOrders retrieves all orders belonging to one user.
func (s *OrderService) GetUserOrders(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUserID(userID)
}

// UpdateOrderStatus sets the status of an existing order and returns the
// updated record.
func (s *OrderService) UpdateOrderStatus(id string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	return s.orderRepo.GetByID(id)
}

// DeleteOrder removes the order and kicks off a fire-and-forget cascade
// deleting its items. The response path does not await the cascade.
func (s *OrderService) DeleteOrder(id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.Delete(id); err != nil {
		return nil, err
	}

	items := order.Items
	go func() {
		for _, item := range items {
			if err := s.orderRepo.DeleteItem(item.ID); err != nil {
				s.logger.Warn().Err(err).
					Str("order_id", id).
					Str("item_id", item.ID).
					Msg("cascade delete left an order item behind")
			}
		}
	}()

	s.publish("order.deleted", map[string]interface{}{
		"orderId": order.ID,
		"userId":  order.UserID,
	})

	return order, nil
}

// TotalSales sums totalPrice over all orders; zero orders yields 0.
func (s *OrderService) TotalSales() (float64, error) {
	return s.orderRepo.TotalSales()
}

// compensateItems is the best-effort cleanup for items persisted before the
// workflow failed. There is no transaction spanning items and order, so a
// delete that fails here leaves an orphaned record.
func (s *OrderService) compensateItems(itemIDs []string) {
	for _, id := range itemIDs {
		if id == "" {
			continue
		}
		if err := s.orderRepo.DeleteItem(id); err != nil {
			s.logger.Warn().Err(err).Str("item_id", id).
				Msg("orphaned order item left behind after failed order")
		}
	}
}

func (s *OrderService) publish(event string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishOrderEvent(event, payload); err != nil {
		s.logger.Warn().Err(err).Str("event", event).Msg("failed to publish order event")
	}
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
