package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eventa-app/eventa-backend/api/responses"
	"github.com/eventa-app/eventa-backend/api/validators"
	"github.com/eventa-app/eventa-backend/internal/orders"
	"github.com/eventa-app/eventa-backend/pkg/logger"
	"github.com/eventa-app/eventa-backend/pkg/pagination"
)

// ConfirmProposal books a draft proposal into a grouped set of supplier orders.
func ConfirmProposal(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := clientIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		proposalID, err := validators.ParsePathUUID(chi.URLParam(r, "proposalID"), "proposalID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ConfirmProposal(r.Context(), clientID, proposalID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// GetOrderGroup returns a group with its orders and items.
func GetOrderGroup(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := clientIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		groupID, err := validators.ParsePathUUID(chi.URLParam(r, "groupID"), "groupID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.GetGroup(r.Context(), clientID, groupID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ListOrders pages through the caller's orders, newest first.
func ListOrders(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := clientIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, page, err := svc.ListClientOrders(r.Context(), clientID, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"orders": list,
			"page":   page,
		})
	}
}
