package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem is a single product line captured at order time. Prices are in
// integer paisa to avoid floating point money.
type OrderItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductName    string    `gorm:"column:product_name;not null"`
	Unit           string    `gorm:"column:unit;not null;default:''"`
	Quantity       int       `gorm:"column:quantity;not null"`
	UnitPricePaisa int64     `gorm:"column:unit_price_paisa;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
