package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eventa-app/eventa-backend/api/responses"
	"github.com/eventa-app/eventa-backend/api/validators"
	"github.com/eventa-app/eventa-backend/internal/proposals"
	"github.com/eventa-app/eventa-backend/pkg/enums"
	pkgerrors "github.com/eventa-app/eventa-backend/pkg/errors"
	"github.com/eventa-app/eventa-backend/pkg/logger"
)

type CreateProposalBody struct {
	EventCategory    string    `json:"event_category" validate:"required"`
	BudgetMinCents   int       `json:"budget_min_cents" validate:"min=0"`
	BudgetMaxCents   int       `json:"budget_max_cents" validate:"required,gt=0"`
	GuestCount       int       `json:"guest_count" validate:"min=0"`
	EventDate        time.Time `json:"event_date" validate:"required"`
	Location         string    `json:"location" validate:"required,min=2,max=160"`
	NeededCategories []string  `json:"needed_categories" validate:"dive,min=2,max=64"`
	Notes            *string   `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateProposalLineBody struct {
	Quantity   *int `json:"quantity"`
	RentalDays *int `json:"rental_days"`
}

type proposalEnvelope struct {
	Proposal       any  `json:"proposal"`
	Matched        bool `json:"matched"`
	BudgetExceeded bool `json:"budget_exceeded,omitempty"`
	BudgetMaxCents int  `json:"budget_max_cents,omitempty"`
}

// CreateProposal stores the brief and returns the selector's draft shortlist.
func CreateProposal(svc *proposals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := clientIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body CreateProposalBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := enums.ParseEventCategory(body.EventCategory)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "unknown event category").
					WithDetails(map[string]any{"event_category": body.EventCategory}))
			return
		}

		result, err := svc.CreateFromBrief(r.Context(), clientID, proposals.CreateBriefInput{
			EventCategory:    category,
			BudgetMinCents:   body.BudgetMinCents,
			BudgetMaxCents:   body.BudgetMaxCents,
			GuestCount:       body.GuestCount,
			EventDate:        body.EventDate,
			Location:         body.Location,
			NeededCategories: body.NeededCategories,
			Notes:            body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, proposalEnvelope{
			Proposal: result.Proposal,
			Matched:  result.Matched,
		})
	}
}

// GetProposal returns a proposal owned by the caller.
func GetProposal(svc *proposals.Service, logg *logger.Logger) http.HandlerFunc {
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

		proposal, err := svc.Get(r.Context(), clientID, proposalID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, proposalEnvelope{
			Proposal: proposal,
			Matched:  len(proposal.Lines) > 0,
		})
	}
}

// UpdateProposalLine edits quantity or rental days on one draft line.
func UpdateProposalLine(svc *proposals.Service, logg *logger.Logger) http.HandlerFunc {
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
		lineID, err := validators.ParsePathUUID(chi.URLParam(r, "lineID"), "lineID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body UpdateProposalLineBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if body.Quantity == nil && body.RentalDays == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "quantity or rental_days required"))
			return
		}

		result, err := svc.UpdateLine(r.Context(), clientID, proposalID, lineID, proposals.UpdateLineInput{
			Quantity:   body.Quantity,
			RentalDays: body.RentalDays,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, proposalEnvelope{
			Proposal:       result.Proposal,
			Matched:        len(result.Proposal.Lines) > 0,
			BudgetExceeded: result.BudgetExceeded,
			BudgetMaxCents: result.BudgetMaxCents,
		})
	}
}

// DeleteProposalLine removes one line from a draft proposal.
func DeleteProposalLine(svc *proposals.Service, logg *logger.Logger) http.HandlerFunc {
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
		lineID, err := validators.ParsePathUUID(chi.URLParam(r, "lineID"), "lineID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.RemoveLine(r.Context(), clientID, proposalID, lineID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, proposalEnvelope{
			Proposal:       result.Proposal,
			Matched:        len(result.Proposal.Lines) > 0,
			BudgetExceeded: result.BudgetExceeded,
			BudgetMaxCents: result.BudgetMaxCents,
		})
	}
}
