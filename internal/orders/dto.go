package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/tharanics/kiranakart-backend/pkg/enums"
)

// AdminOrderFilters describe the inputs supported by the admin orders list.
type AdminOrderFilters struct {
	Status         *enums.OrderStatus
	DeliveryStatus *enums.DeliveryStatus
	AssignedToID   *uuid.UUID
	Unassigned     bool
	DateFrom       *time.Time
	DateTo         *time.Time
	Query          string
}

// CourierRef is the courier summary embedded in order payloads.
type CourierRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone *string   `json:"phone,omitempty"`
}

// OrderSummary exposes the aggregated fields returned in order lists.
type OrderSummary struct {
	ID             uuid.UUID            `json:"id"`
	CustomerName   string               `json:"customer_name"`
	CustomerPhone  string               `json:"customer_phone"`
	Address        string               `json:"address"`
	Status         enums.OrderStatus    `json:"status"`
	DeliveryStatus enums.DeliveryStatus `json:"delivery_status"`
	AssignedTo     *CourierRef          `json:"assigned_to,omitempty"`
	TotalPaisa     int64                `json:"total_paisa"`
	TotalItems     int                  `json:"total_items"`
	CreatedAt      time.Time            `json:"created_at"`
	DeliveredAt    *time.Time           `json:"delivered_at,omitempty"`
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// OrderItemDetail is a single line of an order detail payload.
type OrderItemDetail struct {
	ID             uuid.UUID `json:"id"`
	ProductName    string    `json:"product_name"`
	Unit           string    `json:"unit"`
	Quantity       int       `json:"quantity"`
	UnitPricePaisa int64     `json:"unit_price_paisa"`
}

// OrderDetail is the full order payload returned by single-order reads.
type OrderDetail struct {
	OrderSummary
	Items []OrderItemDetail `json:"items"`
}
