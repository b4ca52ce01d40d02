package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	internalorders "github.com/tharanics/kiranakart-backend/internal/orders"
	pkgerrors "github.com/tharanics/kiranakart-backend/pkg/errors"
	"github.com/tharanics/kiranakart-backend/pkg/logger"
	"github.com/tharanics/kiranakart-backend/pkg/pagination"

	"github.com/tharanics/kiranakart-backend/api/responses"
	"github.com/tharanics/kiranakart-backend/api/validators"
)

type courierOrdersRepository interface {
	ListAvailableOrders(ctx context.Context, params pagination.Params) (*internalorders.OrderList, error)
	ListAssignedOrders(ctx context.Context, courierID uuid.UUID, params pagination.Params) (*internalorders.OrderList, error)
	ListDeliveredOrders(ctx context.Context, courierID uuid.UUID, params pagination.Params) (*internalorders.OrderList, error)
}

// ListAvailableOrders returns unclaimed orders couriers can pick up.
func ListAvailableOrders(repo courierOrdersRepository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders repository unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := repo.ListAvailableOrders(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list available orders"))
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ListMyOrders returns the calling courier's active workload.
func ListMyOrders(repo courierOrdersRepository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders repository unavailable"))
			return
		}

		act, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := repo.ListAssignedOrders(r.Context(), act.ID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list assigned orders"))
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ListDeliveryHistory returns the courier's completed drops, newest first.
func ListDeliveryHistory(repo courierOrdersRepository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders repository unavailable"))
			return
		}

		act, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := repo.ListDeliveredOrders(r.Context(), act.ID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list delivery history"))
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// SelfAssignOrder lets a courier claim an order off the open pool.
func SelfAssignOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		act, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := orderIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.SelfAssign(r.Context(), internalorders.SelfAssignInput{
			OrderID:   orderID,
			ActorID:   act.ID,
			ActorRole: act.Role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
