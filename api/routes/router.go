package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eventa-app/eventa-backend/api/controllers"
	"github.com/eventa-app/eventa-backend/api/middleware"
	"github.com/eventa-app/eventa-backend/internal/orders"
	"github.com/eventa-app/eventa-backend/internal/proposals"
	"github.com/eventa-app/eventa-backend/internal/reconciliation"
	"github.com/eventa-app/eventa-backend/pkg/config"
	"github.com/eventa-app/eventa-backend/pkg/db"
	"github.com/eventa-app/eventa-backend/pkg/logger"
	"github.com/eventa-app/eventa-backend/pkg/redis"
)

// NewRouter assembles the HTTP surface.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	proposalSvc *proposals.Service,
	orderSvc *orders.Service,
	reconcileSvc *reconciliation.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ClientIdentity(logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Post("/proposals", controllers.CreateProposal(proposalSvc, logg))
		r.Get("/proposals/{proposalID}", controllers.GetProposal(proposalSvc, logg))
		r.Patch("/proposals/{proposalID}/lines/{lineID}", controllers.UpdateProposalLine(proposalSvc, logg))
		r.Delete("/proposals/{proposalID}/lines/{lineID}", controllers.DeleteProposalLine(proposalSvc, logg))
		r.Post("/proposals/{proposalID}/confirm", controllers.ConfirmProposal(orderSvc, logg))

		r.Get("/order-groups/{groupID}", controllers.GetOrderGroup(orderSvc, logg))
		r.Get("/orders", controllers.ListOrders(orderSvc, logg))

		r.Get("/payments/{reference}/reconcile", controllers.ReconcilePayment(reconcileSvc, logg))
		r.Post("/payments/{reference}/reconcile", controllers.ReconcilePayment(reconcileSvc, logg))
	})

	return r
}
