package controllers

import (
	"context"
	"net/http"

	internalorders "github.com/tharanics/kiranakart-backend/internal/orders"
	"github.com/tharanics/kiranakart-backend/pkg/enums"
	pkgerrors "github.com/tharanics/kiranakart-backend/pkg/errors"
	"github.com/tharanics/kiranakart-backend/pkg/logger"

	"github.com/tharanics/kiranakart-backend/api/responses"
	"github.com/tharanics/kiranakart-backend/api/validators"
)

type pendingCounter interface {
	CountPendingDeliveries(ctx context.Context) (int, error)
}

type updateDeliveryStatusRequest struct {
	DeliveryStatus string `json:"delivery_status" validate:"required"`
}

// UpdateDeliveryStatus moves an order along the delivery track.
func UpdateDeliveryStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
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

		var body updateDeliveryStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseDeliveryStatus(body.DeliveryStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery status"))
			return
		}

		summary, err := svc.SetDeliveryStatus(r.Context(), internalorders.SetDeliveryStatusInput{
			OrderID:   orderID,
			Status:    status,
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

// MarkOrderDelivered is the courier's one-tap handoff confirmation.
func MarkOrderDelivered(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
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

		summary, err := svc.MarkDelivered(r.Context(), internalorders.MarkDeliveredInput{
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

// PendingOrderCount reports how many orders still await delivery. Clients
// poll this to drive the new-arrivals badge.
func PendingOrderCount(repo pendingCounter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders repository unavailable"))
			return
		}

		count, err := repo.CountPendingDeliveries(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pending orders"))
			return
		}
		responses.WriteSuccess(w, map[string]int{"pending_count": count})
	}
}
