package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tharanics/kiranakart-backend/pkg/db/models"
	"github.com/tharanics/kiranakart-backend/pkg/pagination"
)

// Repository defines persistence operations for the orders tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindOrderDetail(ctx context.Context, orderID uuid.UUID) (*OrderDetail, error)
	ClaimOrder(ctx context.Context, orderID, courierID uuid.UUID) (int64, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	ListAvailableOrders(ctx context.Context, params pagination.Params) (*OrderList, error)
	ListAssignedOrders(ctx context.Context, courierID uuid.UUID, params pagination.Params) (*OrderList, error)
	ListDeliveredOrders(ctx context.Context, courierID uuid.UUID, params pagination.Params) (*OrderList, error)
	ListOrders(ctx context.Context, params pagination.Params, filters AdminOrderFilters) (*OrderList, error)
	CountPendingDeliveries(ctx context.Context) (int, error)
}
