package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tharanics/kiranakart-backend/api/controllers"
	"github.com/tharanics/kiranakart-backend/api/middleware"
	"github.com/tharanics/kiranakart-backend/internal/couriers"
	"github.com/tharanics/kiranakart-backend/internal/orders"
	"github.com/tharanics/kiranakart-backend/pkg/auth/session"
	"github.com/tharanics/kiranakart-backend/pkg/config"
	"github.com/tharanics/kiranakart-backend/pkg/db"
	"github.com/tharanics/kiranakart-backend/pkg/enums"
	"github.com/tharanics/kiranakart-backend/pkg/logger"
	"github.com/tharanics/kiranakart-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database db.Pinger,
	cache redis.Pinger,
	sessions session.AccessSessionChecker,
	ordersRepo orders.Repository,
	ordersSvc orders.Service,
	couriersRepo couriers.Repository,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, database, cache, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(ordersRepo, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(ordersRepo, logg))
			r.Post("/{orderId}/assign", controllers.AdminAssignOrder(ordersSvc, logg))
		})
		r.Get("/couriers", controllers.AdminListCouriers(couriersRepo, logg))
	})

	r.Route("/api/delivery/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleDelivery), logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/available", controllers.ListAvailableOrders(ordersRepo, logg))
			r.Get("/mine", controllers.ListMyOrders(ordersRepo, logg))
			r.Get("/history", controllers.ListDeliveryHistory(ordersRepo, logg))
			r.Post("/{orderId}/self-assign", controllers.SelfAssignOrder(ordersSvc, logg))
		})
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireAnyRole(logg, string(enums.UserRoleAdmin), string(enums.UserRoleDelivery)))

		r.Get("/pending-count", controllers.PendingOrderCount(ordersRepo, logg))
		r.Put("/{orderId}/delivery-status", controllers.UpdateDeliveryStatus(ordersSvc, logg))
		r.Post("/{orderId}/mark-delivered", controllers.MarkOrderDelivered(ordersSvc, logg))
	})

	return r
}
