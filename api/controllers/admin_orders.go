package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	internalcouriers "github.com/tharanics/kiranakart-backend/internal/couriers"
	internalorders "github.com/tharanics/kiranakart-backend/internal/orders"
	"github.com/tharanics/kiranakart-backend/pkg/enums"
	pkgerrors "github.com/tharanics/kiranakart-backend/pkg/errors"
	"github.com/tharanics/kiranakart-backend/pkg/logger"
	"github.com/tharanics/kiranakart-backend/pkg/pagination"

	"github.com/tharanics/kiranakart-backend/api/responses"
	"github.com/tharanics/kiranakart-backend/api/validators"
)

type adminOrdersRepository interface {
	ListOrders(ctx context.Context, params pagination.Params, filters internalorders.AdminOrderFilters) (*internalorders.OrderList, error)
	FindOrderDetail(ctx context.Context, orderID uuid.UUID) (*internalorders.OrderDetail, error)
}

type couriersRepository interface {
	ListCouriers(ctx context.Context, includeInactive bool) ([]internalcouriers.CourierSummary, error)
}

type adminAssignRequest struct {
	DeliveryUserID string `json:"delivery_user_id" validate:"required,uuid"`
}

// AdminListOrders returns the paginated admin order board with filters.
func AdminListOrders(repo adminOrdersRepository, logg *logger.Logger) http.HandlerFunc {
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

		filters, err := parseAdminOrderFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := repo.ListOrders(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders"))
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminOrderDetail returns the expanded order payload including line items.
func AdminOrderDetail(repo adminOrdersRepository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders repository unavailable"))
			return
		}

		orderID, err := orderIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := repo.FindOrderDetail(r.Context(), orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch order detail"))
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// AdminAssignOrder pushes an order onto the chosen courier's plate.
func AdminAssignOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
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

		var body adminAssignRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		courierID, err := uuid.Parse(body.DeliveryUserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid courier id"))
			return
		}

		summary, err := svc.AdminAssign(r.Context(), internalorders.AdminAssignInput{
			OrderID:   orderID,
			CourierID: courierID,
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

// AdminListCouriers returns the courier roster for the assignment picker.
func AdminListCouriers(repo couriersRepository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "couriers repository unavailable"))
			return
		}

		includeInactive, err := validators.ParseQueryBool(r, "include_inactive")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		couriers, err := repo.ListCouriers(r.Context(), includeInactive)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list couriers"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"couriers": couriers})
	}
}

func parseAdminOrderFilters(r *http.Request) (internalorders.AdminOrderFilters, error) {
	var filters internalorders.AdminOrderFilters

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filters.Status = &status
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("delivery_status")); raw != "" {
		status, err := enums.ParseDeliveryStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery status filter")
		}
		filters.DeliveryStatus = &status
	}

	assignedTo, err := validators.ParseQueryUUID(r, "assigned_to")
	if err != nil {
		return filters, err
	}
	filters.AssignedToID = assignedTo

	unassigned, err := validators.ParseQueryBool(r, "unassigned")
	if err != nil {
		return filters, err
	}
	filters.Unassigned = unassigned

	dateFrom, err := validators.ParseQueryTime(r, "date_from")
	if err != nil {
		return filters, err
	}
	filters.DateFrom = dateFrom

	dateTo, err := validators.ParseQueryTime(r, "date_to")
	if err != nil {
		return filters, err
	}
	filters.DateTo = dateTo

	filters.Query = validators.SanitizeString(r.URL.Query().Get("q"), 120)
	return filters, nil
}
