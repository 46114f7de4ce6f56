package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	items  map[string]models.OrderItem
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
		items:  make(map[string]models.OrderItem),
	}
}

func (r *MockOrderRepository) itemsOf(orderID string) []models.OrderItem {
	var list []models.OrderItem
	for _, item := range r.items {
		if item.OrderID == orderID {
			list = append(list, item)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Position < list[j].Position })
	return list
}

func (r *MockOrderRepository) GetAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		order.Items = r.itemsOf(order.ID)
		orderList = append(orderList, order)
	}
	return orderList, nil
}

func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	order.Items = r.itemsOf(order.ID)
	return &order, nil
}

func (r *MockOrderRepository) GetByUserID(userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orderList []models.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			order.Items = r.itemsOf(order.ID)
			orderList = append(orderList, order)
		}
	}
	return orderList, nil
}

func (r *MockOrderRepository) Create(order *models.Order, itemIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	for _, itemID := range itemIDs {
		item, ok := r.items[itemID]
		if !ok {
			continue
		}
		item.OrderID = order.ID
		r.items[itemID] = item
	}
	stored := *order
	stored.Items = nil
	r.orders[order.ID] = stored
	return nil
}

func (r *MockOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

func (r *MockOrderRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	delete(r.orders, id)
	return nil
}

func (r *MockOrderRepository) TotalSales() (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total float64
	for _, order := range r.orders {
		total += order.TotalPrice
	}
	return total, nil
}

func (r *MockOrderRepository) CreateItem(item *models.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	r.items[item.ID] = *item
	return nil
}

func (r *MockOrderRepository) GetItemByID(id string) (*models.OrderItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("order item %s: %w", id, ErrNotFound)
	}
	return &item, nil
}

func (r *MockOrderRepository) DeleteItem(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("order item %s: %w", id, ErrNotFound)
	}
	delete(r.items, id)
	return nil
}

// ItemCount reports how many order items are currently stored. Used by tests
// asserting cascade cleanup.
func (r *MockOrderRepository) ItemCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
