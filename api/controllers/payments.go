package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/eventa-app/eventa-backend/api/responses"
	"github.com/eventa-app/eventa-backend/internal/reconciliation"
	"github.com/eventa-app/eventa-backend/pkg/enums"
	pkgerrors "github.com/eventa-app/eventa-backend/pkg/errors"
	"github.com/eventa-app/eventa-backend/pkg/logger"
)

// ReconcilePayment settles one gateway reference against its order group. The
// handler serves GET and POST identically: the gateway's return redirect uses
// GET while server-to-server callers use POST, and the underlying operation is
// idempotent either way.
func ReconcilePayment(svc *reconciliation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reference := strings.TrimSpace(chi.URLParam(r, "reference"))
		if reference == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "payment reference required"))
			return
		}

		result, err := svc.Reconcile(r.Context(), reference)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// A partial settlement is an operational incident: money arrived but not
		// every order could confirm. Surface it loudly rather than as a success.
		if result.Outcome == enums.PaymentOutcomePartial {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodePartialGroup, "payment received, some items pending confirmation").
					WithDetails(map[string]any{
						"reference":         result.Reference,
						"group_id":          result.GroupID.String(),
						"orders_confirmed":  result.OrdersConfirmed,
						"pending_order_ids": result.PendingOrderIDs,
						"duplicate":         result.Duplicate,
					}))
			return
		}

		responses.WriteSuccess(w, result)
	}
}
