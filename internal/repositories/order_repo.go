package repositories

import "storefront/internal/models"

// OrderRepository defines the interface for order and order-item data access.
// Order creation attaches previously persisted items to the new order; there
// is no transaction spanning the two steps.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	GetByUserID(userID string) ([]models.Order, error)
	Create(order *models.Order, itemIDs []string) error
	UpdateStatus(id string, status models.OrderStatus) error
	Delete(id string) error
	TotalSales() (float64, error)

	CreateItem(item *models.OrderItem) error
	GetItemByID(id string) (*models.OrderItem, error)
	DeleteItem(id string) error
}
