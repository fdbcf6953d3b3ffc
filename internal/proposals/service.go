package proposals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventa-app/eventa-backend/internal/recommendation"
	"github.com/eventa-app/eventa-backend/pkg/db/models"
	"github.com/eventa-app/eventa-backend/pkg/enums"
	pkgerrors "github.com/eventa-app/eventa-backend/pkg/errors"
	"github.com/eventa-app/eventa-backend/pkg/logger"
)

type selector interface {
	Select(ctx context.Context, brief *models.EventBrief) (*models.Proposal, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns the brief-to-proposal lifecycle: creating the initial shortlist
// and applying client edits while the proposal is still a draft.
type Service struct {
	repo     Repository
	selector selector
	tx       txRunner
	logg     *logger.Logger
}

// NewService wires the proposal service.
func NewService(repo Repository, sel selector, tx txRunner, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("proposal repository required")
	}
	if sel == nil {
		return nil, fmt.Errorf("selector required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{repo: repo, selector: sel, tx: tx, logg: logg}, nil
}

// CreateBriefInput carries the client's event requirements.
type CreateBriefInput struct {
	EventCategory    enums.EventCategory
	BudgetMinCents   int
	BudgetMaxCents   int
	GuestCount       int
	EventDate        time.Time
	Location         string
	NeededCategories []string
	Notes            *string
}

// CreateResult pairs the stored proposal with its brief. Matched is false when
// the selector found nothing within budget; the proposal is still created so
// the client can inspect and retry with different criteria.
type CreateResult struct {
	Brief    *models.EventBrief
	Proposal *models.Proposal
	Matched  bool
}

// EditResult is the proposal after an edit plus the budget advisory.
type EditResult struct {
	Proposal       *models.Proposal
	BudgetExceeded bool
	BudgetMaxCents int
}

// CreateFromBrief stores the brief, runs the selector against the live catalog,
// and persists the resulting draft proposal in the same transaction.
func (s *Service) CreateFromBrief(ctx context.Context, clientID uuid.UUID, input CreateBriefInput) (*CreateResult, error) {
	if clientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "client identity required")
	}
	if input.BudgetMaxCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "budget ceiling must be positive")
	}
	if input.BudgetMinCents < 0 || input.BudgetMinCents > input.BudgetMaxCents {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "budget floor must sit below the ceiling")
	}
	if !input.EventCategory.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown event category")
	}

	brief := &models.EventBrief{
		ID:               uuid.New(),
		ClientID:         clientID,
		EventCategory:    input.EventCategory,
		BudgetMinCents:   input.BudgetMinCents,
		BudgetMaxCents:   input.BudgetMaxCents,
		GuestCount:       input.GuestCount,
		EventDate:        input.EventDate,
		Location:         input.Location,
		NeededCategories: input.NeededCategories,
		Notes:            input.Notes,
	}

	proposal, err := s.selector.Select(ctx, brief)
	if err != nil {
		return nil, err
	}
	proposal.ID = uuid.New()
	proposal.Status = enums.ProposalStatusDraft
	for i := range proposal.Lines {
		proposal.Lines[i].ID = uuid.New()
		proposal.Lines[i].ProposalID = proposal.ID
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateBrief(ctx, brief); err != nil {
			return fmt.Errorf("create brief: %w", err)
		}
		if err := repo.CreateProposal(ctx, proposal); err != nil {
			return fmt.Errorf("create proposal: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist proposal")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"brief_id":    brief.ID.String(),
		"proposal_id": proposal.ID.String(),
		"lines":       len(proposal.Lines),
		"total_cents": proposal.GrandTotalCents,
	})
	s.logg.Info(logCtx, "proposal created from brief")

	return &CreateResult{
		Brief:    brief,
		Proposal: proposal,
		Matched:  len(proposal.Lines) > 0,
	}, nil
}

// Get returns a proposal owned by the caller.
func (s *Service) Get(ctx context.Context, clientID, proposalID uuid.UUID) (*models.Proposal, error) {
	return s.loadOwned(ctx, clientID, proposalID)
}

// UpdateLineInput carries one line edit. Nil fields are left untouched.
type UpdateLineInput struct {
	Quantity   *int
	RentalDays *int
}

// UpdateLine applies a quantity or rental-day edit to a draft proposal line.
// Values below 1 are clamped, never rejected. Pushing the total past the
// brief's ceiling is allowed; the result carries the advisory flag.
func (s *Service) UpdateLine(ctx context.Context, clientID, proposalID, lineID uuid.UUID, input UpdateLineInput) (*EditResult, error) {
	proposal, err := s.loadOwnedDraft(ctx, clientID, proposalID)
	if err != nil {
		return nil, err
	}

	if input.Quantity != nil {
		if err := recommendation.SetLineQuantity(proposal, lineID, *input.Quantity); err != nil {
			return nil, err
		}
	}
	if input.RentalDays != nil {
		if err := recommendation.SetLineRentalDays(proposal, lineID, *input.RentalDays); err != nil {
			return nil, err
		}
	}

	var edited *models.ProposalLine
	for i := range proposal.Lines {
		if proposal.Lines[i].ID == lineID {
			edited = &proposal.Lines[i]
			break
		}
	}
	if edited == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "proposal line not found")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.SaveLine(ctx, edited); err != nil {
			return fmt.Errorf("save line: %w", err)
		}
		if err := repo.UpdateGrandTotal(ctx, proposal.ID, proposal.GrandTotalCents); err != nil {
			return fmt.Errorf("update grand total: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist line edit")
	}

	return s.editResult(ctx, proposal)
}

// RemoveLine drops a line from a draft proposal.
func (s *Service) RemoveLine(ctx context.Context, clientID, proposalID, lineID uuid.UUID) (*EditResult, error) {
	proposal, err := s.loadOwnedDraft(ctx, clientID, proposalID)
	if err != nil {
		return nil, err
	}

	if err := recommendation.RemoveLine(proposal, lineID); err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteLine(ctx, proposal.ID, lineID); err != nil {
			return fmt.Errorf("delete line: %w", err)
		}
		if err := repo.UpdateGrandTotal(ctx, proposal.ID, proposal.GrandTotalCents); err != nil {
			return fmt.Errorf("update grand total: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "proposal line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist line removal")
	}

	return s.editResult(ctx, proposal)
}

func (s *Service) editResult(ctx context.Context, proposal *models.Proposal) (*EditResult, error) {
	brief, err := s.repo.FindBriefByID(ctx, proposal.BriefID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load brief for budget advisory")
	}

	exceeded := recommendation.ExceedsBudget(proposal, brief.BudgetMaxCents)
	if exceeded {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"proposal_id":      proposal.ID.String(),
			"total_cents":      proposal.GrandTotalCents,
			"budget_max_cents": brief.BudgetMaxCents,
		})
		s.logg.Info(logCtx, "proposal total exceeds brief budget")
	}

	return &EditResult{
		Proposal:       proposal,
		BudgetExceeded: exceeded,
		BudgetMaxCents: brief.BudgetMaxCents,
	}, nil
}

func (s *Service) loadOwned(ctx context.Context, clientID, proposalID uuid.UUID) (*models.Proposal, error) {
	if clientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "client identity required")
	}
	proposal, err := s.repo.FindProposalByID(ctx, proposalID)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "proposal not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load proposal")
	}
	// Other clients' proposals read as missing rather than forbidden.
	if proposal.ClientID != clientID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "proposal not found")
	}
	return proposal, nil
}

func (s *Service) loadOwnedDraft(ctx context.Context, clientID, proposalID uuid.UUID) (*models.Proposal, error) {
	proposal, err := s.loadOwned(ctx, clientID, proposalID)
	if err != nil {
		return nil, err
	}
	if proposal.Status != enums.ProposalStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "proposal is no longer editable").
			WithDetails(map[string]any{"status": proposal.Status.String()})
	}
	return proposal, nil
}
