package recommendation

import (
	"github.com/google/uuid"

	"github.com/eventa-app/eventa-backend/pkg/db/models"
	pkgerrors "github.com/eventa-app/eventa-backend/pkg/errors"
)

// The editor mutates an in-memory proposal only. Persistence and ownership
// checks live in the proposals service; these operations are safe to apply
// repeatedly and never touch I/O.

// SetLineQuantity updates a line's quantity, clamped to at least 1, and
// recomputes the affected totals.
func SetLineQuantity(proposal *models.Proposal, lineID uuid.UUID, quantity int) error {
	line, err := findLine(proposal, lineID)
	if err != nil {
		return err
	}
	if quantity < 1 {
		quantity = 1
	}
	line.Quantity = quantity
	recomputeLine(line)
	Recalculate(proposal)
	return nil
}

// SetLineRentalDays updates a line's rental-day count, clamped to at least 1,
// and recomputes the affected totals.
func SetLineRentalDays(proposal *models.Proposal, lineID uuid.UUID, days int) error {
	line, err := findLine(proposal, lineID)
	if err != nil {
		return err
	}
	if days < 1 {
		days = 1
	}
	line.RentalDays = days
	recomputeLine(line)
	Recalculate(proposal)
	return nil
}

// RemoveLine drops a line from the proposal and recomputes the grand total.
func RemoveLine(proposal *models.Proposal, lineID uuid.UUID) error {
	if proposal == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "proposal required")
	}
	for i := range proposal.Lines {
		if proposal.Lines[i].ID == lineID {
			proposal.Lines = append(proposal.Lines[:i], proposal.Lines[i+1:]...)
			Recalculate(proposal)
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "proposal line not found")
}

// ExceedsBudget reports whether the proposal's grand total has grown past the
// budget ceiling. Advisory only: edits past the ceiling are allowed.
func ExceedsBudget(proposal *models.Proposal, budgetMaxCents int) bool {
	if proposal == nil || budgetMaxCents <= 0 {
		return false
	}
	return proposal.GrandTotalCents > budgetMaxCents
}

// Recalculate rebuilds every derived subtotal and the grand total.
func Recalculate(proposal *models.Proposal) {
	if proposal == nil {
		return
	}
	total := 0
	for i := range proposal.Lines {
		recomputeLine(&proposal.Lines[i])
		total += proposal.Lines[i].SubtotalCents
	}
	proposal.GrandTotalCents = total
}

func findLine(proposal *models.Proposal, lineID uuid.UUID) (*models.ProposalLine, error) {
	if proposal == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "proposal required")
	}
	for i := range proposal.Lines {
		if proposal.Lines[i].ID == lineID {
			return &proposal.Lines[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "proposal line not found")
}

func recomputeLine(line *models.ProposalLine) {
	line.SubtotalCents = line.PricePerDayCents * line.Quantity * line.RentalDays
}
