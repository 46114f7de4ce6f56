package models

// Category groups products. Products is a virtual back-reference populated on
// read; it is not stored on the category record itself.
type Category struct {
	ID       string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title    string    `json:"title" gorm:"type:varchar(50)"`
	Color    string    `json:"color" gorm:"type:varchar(7)"` // hex, e.g. #a1b2c3
	Icon     Image     `json:"icon" gorm:"embedded;embeddedPrefix:icon_"`
	Image    Image     `json:"image" gorm:"embedded;embeddedPrefix:image_"`
	Products []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}
