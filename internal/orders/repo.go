package orders

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tharanics/kiranakart-backend/pkg/db/models"
	"github.com/tharanics/kiranakart-backend/pkg/enums"
	"github.com/tharanics/kiranakart-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("AssignedTo").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindOrderDetail(ctx context.Context, orderID uuid.UUID) (*OrderDetail, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("AssignedTo").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}

	detail := OrderDetail{
		OrderSummary: toSummary(order),
		Items:        make([]OrderItemDetail, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		detail.Items = append(detail.Items, OrderItemDetail{
			ID:             item.ID,
			ProductName:    item.ProductName,
			Unit:           item.Unit,
			Quantity:       item.Quantity,
			UnitPricePaisa: item.UnitPricePaisa,
		})
	}
	return &detail, nil
}

// ClaimOrder atomically assigns the order to the courier only when no courier
// holds it yet. The returned count is zero when the order is missing or the
// claim lost the race.
func (r *repository) ClaimOrder(ctx context.Context, orderID, courierID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE orders
		SET assigned_to_id = ?,
			delivery_status = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND assigned_to_id IS NULL
	`, courierID, enums.DeliveryStatusAssigned, orderID)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repository) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}

func (r *repository) ListAvailableOrders(ctx context.Context, params pagination.Params) (*OrderList, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("assigned_to_id IS NULL").
		Where("delivery_status = ?", enums.DeliveryStatusPending)
	return r.listWithCursor(ctx, query, params, "created_at")
}

func (r *repository) ListAssignedOrders(ctx context.Context, courierID uuid.UUID, params pagination.Params) (*OrderList, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("assigned_to_id = ?", courierID).
		Where("delivery_status <> ?", enums.DeliveryStatusDelivered)
	return r.listWithCursor(ctx, query, params, "created_at")
}

func (r *repository) ListDeliveredOrders(ctx context.Context, courierID uuid.UUID, params pagination.Params) (*OrderList, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("assigned_to_id = ?", courierID).
		Where("delivery_status = ?", enums.DeliveryStatusDelivered)
	return r.listWithCursor(ctx, query, params, "delivered_at")
}

func (r *repository) ListOrders(ctx context.Context, params pagination.Params, filters AdminOrderFilters) (*OrderList, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.DeliveryStatus != nil {
		query = query.Where("delivery_status = ?", *filters.DeliveryStatus)
	}
	if filters.AssignedToID != nil {
		query = query.Where("assigned_to_id = ?", *filters.AssignedToID)
	}
	if filters.Unassigned {
		query = query.Where("assigned_to_id IS NULL")
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	if trimmed := strings.TrimSpace(filters.Query); trimmed != "" {
		like := "%" + trimmed + "%"
		query = query.Where("customer_name LIKE ? OR customer_phone LIKE ?", like, like)
	}

	return r.listWithCursor(ctx, query, params, "created_at")
}

func (r *repository) CountPendingDeliveries(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("delivery_status = ?", enums.DeliveryStatusPending).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *repository) listWithCursor(ctx context.Context, query *gorm.DB, params pagination.Params, sortColumn string) (*OrderList, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(params.Cursor))
	if err != nil {
		return nil, err
	}
	if decodedCursor != nil {
		clause := "(" + sortColumn + " < ?) OR (" + sortColumn + " = ? AND id < ?)"
		query = query.Where(clause, decodedCursor.SortTime, decodedCursor.SortTime, decodedCursor.ID)
	}

	var records []models.Order
	err = query.
		Preload("AssignedTo").
		Preload("Items").
		Order(sortColumn + " DESC").
		Order("id DESC").
		Limit(limitWithBuffer).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > normalizedLimit {
		resultRows = records[:normalizedLimit]
		last := resultRows[len(resultRows)-1]
		cursorTime := last.CreatedAt
		if sortColumn == "delivered_at" && last.DeliveredAt != nil {
			cursorTime = *last.DeliveredAt
		}
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			SortTime: cursorTime,
			ID:       last.ID,
		})
	}

	summaries := make([]OrderSummary, 0, len(resultRows))
	for _, record := range resultRows {
		summaries = append(summaries, toSummary(record))
	}
	return &OrderList{Orders: summaries, NextCursor: nextCursor}, nil
}

func toSummary(order models.Order) OrderSummary {
	summary := OrderSummary{
		ID:             order.ID,
		CustomerName:   order.CustomerName,
		CustomerPhone:  order.CustomerPhone,
		Address:        order.Address,
		Status:         order.Status,
		DeliveryStatus: order.DeliveryStatus,
		TotalPaisa:     order.TotalPaisa,
		TotalItems:     len(order.Items),
		CreatedAt:      order.CreatedAt,
		DeliveredAt:    order.DeliveredAt,
	}
	if order.AssignedTo != nil {
		summary.AssignedTo = &CourierRef{
			ID:    order.AssignedTo.ID,
			Name:  order.AssignedTo.Name,
			Phone: order.AssignedTo.Phone,
		}
	}
	return summary
}
