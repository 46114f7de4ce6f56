package models

import "time"

// DefaultProductImageURL is the placeholder image for products without one.
const DefaultProductImageURL = "https://www.mon-site-bug.fr/uploads/products/default-product.png"

// Product represents a catalog product. CategoryID must reference an existing
// Category record at creation time.
type Product struct {
	ID           string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title        string         `json:"title" gorm:"type:varchar(100)"`
	Description  string         `json:"description" gorm:"type:varchar(1000)"`
	Image        Image          `json:"image" gorm:"embedded;embeddedPrefix:image_"`
	Images       []ProductImage `json:"images" gorm:"foreignKey:ProductID"`
	Brand        string         `json:"brand" gorm:"type:varchar(50)"`
	Price        float64        `json:"price"`
	CategoryID   string         `json:"category" gorm:"index;type:varchar(36)"`
	CountInStock int            `json:"countInStock"` // 0..255
	Rating       int            `json:"rating"`       // 1..5
	IsFeatured   bool           `json:"isFeatured"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// ProductImage is one entry of a product's gallery. The embedded Image keeps
// the wire shape flat ({url, publicId}).
type ProductImage struct {
	ID        string `json:"-" gorm:"primaryKey;type:varchar(36)"`
	ProductID string `json:"-" gorm:"index;type:varchar(36)"`
	Image     `gorm:"embedded"`
}
