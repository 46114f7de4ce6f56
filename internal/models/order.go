package models

import "time"

// OrderStatus is the fixed order progression. Transitions are not enforced;
// any member may be set via the status-update operation.
type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

// Valid reports whether s is a member of the status enumeration.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// OrderItem is one (product, quantity) line of an order. Items are owned by
// their order and deleted when it is deleted. Position preserves the original
// cart order regardless of how concurrently-created items land in the store.
type OrderItem struct {
	ID        string   `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string   `json:"orderId" gorm:"index;type:varchar(36)"`
	ProductID string   `json:"product" gorm:"type:varchar(36)"`
	Quantity  int      `json:"quantity"`
	Position  int      `json:"-"`
	Product   *Product `json:"productDetails,omitempty" gorm:"foreignKey:ProductID"`
}

// Order represents a placed customer order.
type Order struct {
	ID               string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Items            []OrderItem `json:"orderItems" gorm:"foreignKey:OrderID"`
	ShippingAddress1 string      `json:"shippingAddress1"`
	ShippingAddress2 string      `json:"shippingAddress2"`
	City             string      `json:"city"`
	Zip              string      `json:"zip"`
	Country          string      `json:"country"`
	Phone            string      `json:"phone"`
	Status           OrderStatus `json:"status" gorm:"type:varchar(16)"`
	TotalPrice       float64     `json:"totalPrice"`
	UserID           string      `json:"user" gorm:"index;type:varchar(36)"`
	User             *User       `json:"userDetails,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}
