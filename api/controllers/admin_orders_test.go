package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tharanics/kiranakart-backend/api/middleware"
	internalcouriers "github.com/tharanics/kiranakart-backend/internal/couriers"
	internalorders "github.com/tharanics/kiranakart-backend/internal/orders"
	"github.com/tharanics/kiranakart-backend/pkg/enums"
	"github.com/tharanics/kiranakart-backend/pkg/pagination"
)

type stubAdminOrdersRepo struct {
	listFn   func(ctx context.Context, params pagination.Params, filters internalorders.AdminOrderFilters) (*internalorders.OrderList, error)
	detailFn func(ctx context.Context, orderID uuid.UUID) (*internalorders.OrderDetail, error)
}

func (s stubAdminOrdersRepo) ListOrders(ctx context.Context, params pagination.Params, filters internalorders.AdminOrderFilters) (*internalorders.OrderList, error) {
	if s.listFn != nil {
		return s.listFn(ctx, params, filters)
	}
	return &internalorders.OrderList{}, nil
}

func (s stubAdminOrdersRepo) FindOrderDetail(ctx context.Context, orderID uuid.UUID) (*internalorders.OrderDetail, error) {
	if s.detailFn != nil {
		return s.detailFn(ctx, orderID)
	}
	return nil, nil
}

type stubOrdersService struct {
	adminAssignFn   func(ctx context.Context, input internalorders.AdminAssignInput) (*internalorders.OrderSummary, error)
	selfAssignFn    func(ctx context.Context, input internalorders.SelfAssignInput) (*internalorders.OrderSummary, error)
	setStatusFn     func(ctx context.Context, input internalorders.SetDeliveryStatusInput) (*internalorders.OrderSummary, error)
	markDeliveredFn func(ctx context.Context, input internalorders.MarkDeliveredInput) (*internalorders.OrderSummary, error)
}

func (s stubOrdersService) AdminAssign(ctx context.Context, input internalorders.AdminAssignInput) (*internalorders.OrderSummary, error) {
	if s.adminAssignFn != nil {
		return s.adminAssignFn(ctx, input)
	}
	return &internalorders.OrderSummary{}, nil
}

func (s stubOrdersService) SelfAssign(ctx context.Context, input internalorders.SelfAssignInput) (*internalorders.OrderSummary, error) {
	if s.selfAssignFn != nil {
		return s.selfAssignFn(ctx, input)
	}
	return &internalorders.OrderSummary{}, nil
}

func (s stubOrdersService) SetDeliveryStatus(ctx context.Context, input internalorders.SetDeliveryStatusInput) (*internalorders.OrderSummary, error) {
	if s.setStatusFn != nil {
		return s.setStatusFn(ctx, input)
	}
	return &internalorders.OrderSummary{}, nil
}

func (s stubOrdersService) MarkDelivered(ctx context.Context, input internalorders.MarkDeliveredInput) (*internalorders.OrderSummary, error) {
	if s.markDeliveredFn != nil {
		return s.markDeliveredFn(ctx, input)
	}
	return &internalorders.OrderSummary{}, nil
}

func withOrderID(req *http.Request, orderID uuid.UUID) *http.Request {
	ctx := chi.NewRouteContext()
	ctx.URLParams.Add("orderId", orderID.String())
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, ctx))
}

func withActor(req *http.Request, userID uuid.UUID, role enums.UserRole) *http.Request {
	ctx := middleware.WithUserID(req.Context(), userID.String())
	ctx = middleware.WithRole(ctx, string(role))
	return req.WithContext(ctx)
}

func TestAdminListOrders(t *testing.T) {
	orderID := uuid.New()
	expected := &internalorders.OrderList{
		Orders: []internalorders.OrderSummary{{
			ID:             orderID,
			CustomerName:   "Meera Nair",
			Status:         enums.OrderStatusPending,
			DeliveryStatus: enums.DeliveryStatusPending,
		}},
	}

	repo := stubAdminOrdersRepo{
		listFn: func(ctx context.Context, params pagination.Params, filters internalorders.AdminOrderFilters) (*internalorders.OrderList, error) {
			if params.Limit != 5 {
				t.Fatalf("unexpected limit %d", params.Limit)
			}
			if !filters.Unassigned {
				t.Fatalf("expected unassigned filter")
			}
			if filters.Status == nil || *filters.Status != enums.OrderStatusPending {
				t.Fatalf("unexpected status filter %v", filters.Status)
			}
			return expected, nil
		},
	}

	handler := AdminListOrders(repo, nil)
	req := httptest.NewRequest(http.MethodGet, "/?limit=5&unassigned=true&status=PENDING", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data internalorders.OrderList `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Orders) != 1 || envelope.Data.Orders[0].ID != orderID {
		t.Fatalf("unexpected payload %v", envelope.Data)
	}
}

func TestAdminListOrders_InvalidStatusFilter(t *testing.T) {
	handler := AdminListOrders(stubAdminOrdersRepo{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/?status=BOGUS", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminAssignOrder(t *testing.T) {
	orderID := uuid.New()
	courierID := uuid.New()
	adminID := uuid.New()

	svc := stubOrdersService{
		adminAssignFn: func(ctx context.Context, input internalorders.AdminAssignInput) (*internalorders.OrderSummary, error) {
			if input.OrderID != orderID {
				t.Fatalf("unexpected order id %s", input.OrderID)
			}
			if input.CourierID != courierID {
				t.Fatalf("unexpected courier id %s", input.CourierID)
			}
			if input.ActorRole != enums.UserRoleAdmin {
				t.Fatalf("unexpected role %s", input.ActorRole)
			}
			return &internalorders.OrderSummary{ID: orderID, DeliveryStatus: enums.DeliveryStatusAssigned}, nil
		},
	}

	body := strings.NewReader(`{"delivery_user_id":"` + courierID.String() + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req = withOrderID(req, orderID)
	req = withActor(req, adminID, enums.UserRoleAdmin)

	resp := httptest.NewRecorder()
	AdminAssignOrder(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data internalorders.OrderSummary `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.DeliveryStatus != enums.DeliveryStatusAssigned {
		t.Fatalf("unexpected payload %v", envelope.Data)
	}
}

func TestAdminAssignOrder_MissingCourier(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req = withOrderID(req, uuid.New())
	req = withActor(req, uuid.New(), enums.UserRoleAdmin)

	resp := httptest.NewRecorder()
	AdminAssignOrder(stubOrdersService{}, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminAssignOrder_NoIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req = withOrderID(req, uuid.New())

	resp := httptest.NewRecorder()
	AdminAssignOrder(stubOrdersService{}, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

type stubCouriersRepo struct {
	listFn func(ctx context.Context, includeInactive bool) ([]internalcouriers.CourierSummary, error)
}

func (s stubCouriersRepo) ListCouriers(ctx context.Context, includeInactive bool) ([]internalcouriers.CourierSummary, error) {
	if s.listFn != nil {
		return s.listFn(ctx, includeInactive)
	}
	return nil, nil
}

func TestAdminListCouriers(t *testing.T) {
	courierID := uuid.New()
	repo := stubCouriersRepo{
		listFn: func(ctx context.Context, includeInactive bool) ([]internalcouriers.CourierSummary, error) {
			if !includeInactive {
				t.Fatalf("expected include_inactive to pass through")
			}
			return []internalcouriers.CourierSummary{{ID: courierID, Name: "Ravi Kumar"}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/?include_inactive=true", nil)
	resp := httptest.NewRecorder()
	AdminListCouriers(repo, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			Couriers []internalcouriers.CourierSummary `json:"couriers"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Couriers) != 1 || envelope.Data.Couriers[0].ID != courierID {
		t.Fatalf("unexpected payload %v", envelope.Data)
	}
}
