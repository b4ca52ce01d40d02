package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tharanics/kiranakart-backend/pkg/db/models"
	"github.com/tharanics/kiranakart-backend/pkg/enums"
	pkgerrors "github.com/tharanics/kiranakart-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CourierFinder resolves a user so assignment can check the target is an
// active courier.
type CourierFinder interface {
	FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// Service defines the order lifecycle operations beyond repository reads.
type Service interface {
	AdminAssign(ctx context.Context, input AdminAssignInput) (*OrderSummary, error)
	SelfAssign(ctx context.Context, input SelfAssignInput) (*OrderSummary, error)
	SetDeliveryStatus(ctx context.Context, input SetDeliveryStatusInput) (*OrderSummary, error)
	MarkDelivered(ctx context.Context, input MarkDeliveredInput) (*OrderSummary, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	couriers CourierFinder
	now      func() time.Time
}

// AdminAssignInput captures the data required for an admin-pushed assignment.
type AdminAssignInput struct {
	OrderID   uuid.UUID
	CourierID uuid.UUID
	ActorID   uuid.UUID
	ActorRole enums.UserRole
}

// SelfAssignInput captures a courier claiming an order off the shared pool.
type SelfAssignInput struct {
	OrderID   uuid.UUID
	ActorID   uuid.UUID
	ActorRole enums.UserRole
}

// SetDeliveryStatusInput carries a delivery status change request.
type SetDeliveryStatusInput struct {
	OrderID   uuid.UUID
	Status    enums.DeliveryStatus
	ActorID   uuid.UUID
	ActorRole enums.UserRole
}

// MarkDeliveredInput captures the terminal handoff confirmation.
type MarkDeliveredInput struct {
	OrderID   uuid.UUID
	ActorID   uuid.UUID
	ActorRole enums.UserRole
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, tx txRunner, couriers CourierFinder, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if couriers == nil {
		return nil, fmt.Errorf("courier finder required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     repo,
		tx:       tx,
		couriers: couriers,
		now:      now,
	}, nil
}

// AdminAssign hands the order to the chosen courier. An admin push always
// wins: it overwrites any previous courier and resets the delivery track to
// ASSIGNED.
func (s *service) AdminAssign(ctx context.Context, input AdminAssignInput) (*OrderSummary, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.CourierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "courier id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ActorRole != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}

	if err := s.requireActiveCourier(ctx, input.CourierID); err != nil {
		return nil, err
	}

	var summary *OrderSummary
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order lifecycle is closed")
		}

		updates := map[string]any{
			"assigned_to_id":  input.CourierID,
			"delivery_status": enums.DeliveryStatusAssigned,
		}
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign order")
		}

		summary, err = s.reload(ctx, repo, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// SelfAssign lets a courier claim an unassigned order. The claim is a
// conditional update so two couriers racing for the same order resolve to
// exactly one winner.
func (s *service) SelfAssign(ctx context.Context, input SelfAssignInput) (*OrderSummary, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ActorRole != enums.UserRoleDelivery {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "delivery role required")
	}

	if err := s.requireActiveCourier(ctx, input.ActorID); err != nil {
		return nil, err
	}

	claimed, err := s.repo.ClaimOrder(ctx, input.OrderID, input.ActorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim order")
	}
	if claimed == 0 {
		// Zero rows means the order is gone or someone else already holds it.
		if _, err := s.repo.FindOrder(ctx, input.OrderID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order already assigned")
	}

	return s.reload(ctx, s.repo, input.OrderID)
}

// SetDeliveryStatus moves the delivery track. Admins can touch any order;
// couriers only the ones assigned to them. DELIVERED closes the commercial
// track as well.
func (s *service) SetDeliveryStatus(ctx context.Context, input SetDeliveryStatusInput) (*OrderSummary, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery status")
	}

	var summary *OrderSummary
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if err := authorizeDeliveryChange(order, input.ActorID, input.ActorRole); err != nil {
			return err
		}

		updates := map[string]any{"delivery_status": input.Status}
		if input.Status == enums.DeliveryStatusDelivered {
			updates["status"] = enums.OrderStatusDelivered
			updates["delivered_at"] = s.now().UTC()
		}
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update delivery status")
		}

		summary, err = s.reload(ctx, repo, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// MarkDelivered is the courier's one-tap completion. It closes both tracks
// and stamps the handoff time.
func (s *service) MarkDelivered(ctx context.Context, input MarkDeliveredInput) (*OrderSummary, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var summary *OrderSummary
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if err := authorizeDeliveryChange(order, input.ActorID, input.ActorRole); err != nil {
			return err
		}
		if order.DeliveryStatus == enums.DeliveryStatusDelivered {
			summary, err = s.reload(ctx, repo, order.ID)
			return err
		}

		updates := map[string]any{
			"delivery_status": enums.DeliveryStatusDelivered,
			"status":          enums.OrderStatusDelivered,
			"delivered_at":    s.now().UTC(),
		}
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark delivered")
		}

		summary, err = s.reload(ctx, repo, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *service) requireActiveCourier(ctx context.Context, courierID uuid.UUID) error {
	courier, err := s.couriers.FindUser(ctx, courierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "courier not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load courier")
	}
	if courier.Role != enums.UserRoleDelivery {
		return pkgerrors.New(pkgerrors.CodeValidation, "user is not a delivery courier")
	}
	if !courier.IsActive {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "courier account is inactive")
	}
	return nil
}

func (s *service) reload(ctx context.Context, repo Repository, orderID uuid.UUID) (*OrderSummary, error) {
	order, err := repo.FindOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
	}
	summary := toSummary(*order)
	return &summary, nil
}

func authorizeDeliveryChange(order *models.Order, actorID uuid.UUID, role enums.UserRole) error {
	switch role {
	case enums.UserRoleAdmin:
		return nil
	case enums.UserRoleDelivery:
		if order.AssignedToID == nil || *order.AssignedToID != actorID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order is not assigned to you")
		}
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeForbidden, "role cannot update deliveries")
	}
}
