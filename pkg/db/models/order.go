package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tharanics/kiranakart-backend/pkg/enums"
)

// Order carries both lifecycle tracks: Status for the commercial state and
// DeliveryStatus for the physical handoff.
type Order struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerName   string               `gorm:"column:customer_name;not null"`
	CustomerPhone  string               `gorm:"column:customer_phone;not null"`
	Address        string               `gorm:"column:address;not null"`
	Status         enums.OrderStatus    `gorm:"column:status;type:text;not null;default:'PENDING'"`
	DeliveryStatus enums.DeliveryStatus `gorm:"column:delivery_status;type:text;not null;default:'PENDING'"`
	AssignedToID   *uuid.UUID           `gorm:"column:assigned_to_id;type:uuid"`
	AssignedTo     *User                `gorm:"foreignKey:AssignedToID"`
	TotalPaisa     int64                `gorm:"column:total_paisa;not null"`
	Items          []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	DeliveredAt    *time.Time           `gorm:"column:delivered_at"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
