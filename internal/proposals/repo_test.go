package proposals

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/eventa-app/eventa-backend/pkg/db/models"
	"github.com/eventa-app/eventa-backend/pkg/enums"
)

func setupProposalsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	briefs := `
CREATE TABLE IF NOT EXISTS event_briefs (
  id TEXT PRIMARY KEY,
  client_id TEXT NOT NULL,
  event_category TEXT NOT NULL,
  budget_min_cents INTEGER NOT NULL DEFAULT 0,
  budget_max_cents INTEGER NOT NULL,
  guest_count INTEGER NOT NULL DEFAULT 0,
  event_date DATETIME NOT NULL,
  location TEXT NOT NULL,
  needed_categories TEXT,
  notes TEXT,
  applied_proposal_id TEXT,
  created_at DATETIME
);`
	proposals := `
CREATE TABLE IF NOT EXISTS proposals (
  id TEXT PRIMARY KEY,
  brief_id TEXT NOT NULL,
  client_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'draft',
  grand_total_cents INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	lines := `
CREATE TABLE IF NOT EXISTS proposal_lines (
  id TEXT PRIMARY KEY,
  proposal_id TEXT NOT NULL,
  offering_id TEXT NOT NULL,
  supplier_id TEXT NOT NULL,
  offering_name TEXT NOT NULL,
  category TEXT NOT NULL,
  price_per_day_cents INTEGER NOT NULL,
  verified INTEGER NOT NULL DEFAULT 0,
  quantity INTEGER NOT NULL DEFAULT 1,
  rental_days INTEGER NOT NULL DEFAULT 1,
  subtotal_cents INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(briefs).Error)
	require.NoError(t, db.Exec(proposals).Error)
	require.NoError(t, db.Exec(lines).Error)
	return db
}

func seedBriefAndProposal(t *testing.T, repo Repository) (*models.EventBrief, *models.Proposal) {
	t.Helper()
	ctx := context.Background()

	brief := &models.EventBrief{
		ID:               uuid.New(),
		ClientID:         uuid.New(),
		EventCategory:    enums.EventCategoryWedding,
		BudgetMaxCents:   100_000,
		EventDate:        time.Date(2026, 9, 19, 0, 0, 0, 0, time.UTC),
		Location:         "Fes",
		NeededCategories: []string{"catering", "venue"},
	}
	require.NoError(t, repo.CreateBrief(ctx, brief))

	proposal := &models.Proposal{
		ID:       uuid.New(),
		BriefID:  brief.ID,
		ClientID: brief.ClientID,
		Status:   enums.ProposalStatusDraft,
		Lines: []models.ProposalLine{
			{
				ID:               uuid.New(),
				OfferingID:       uuid.New(),
				SupplierID:       uuid.New(),
				OfferingName:     "Traiteur Royal",
				Category:         "catering",
				PricePerDayCents: 30_000,
				Quantity:         1,
				RentalDays:       1,
				SubtotalCents:    30_000,
			},
		},
		GrandTotalCents: 30_000,
	}
	for i := range proposal.Lines {
		proposal.Lines[i].ProposalID = proposal.ID
	}
	require.NoError(t, repo.CreateProposal(ctx, proposal))
	return brief, proposal
}

func TestRepositoryProposalRoundtrip(t *testing.T) {
	repo := NewRepository(setupProposalsTestDB(t))
	ctx := context.Background()

	brief, proposal := seedBriefAndProposal(t, repo)

	found, err := repo.FindProposalByID(ctx, proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, brief.ID, found.BriefID)
	assert.Equal(t, enums.ProposalStatusDraft, found.Status)
	require.Len(t, found.Lines, 1)
	assert.Equal(t, "Traiteur Royal", found.Lines[0].OfferingName)

	_, err = repo.FindProposalByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepositoryBriefRoundtrip(t *testing.T) {
	repo := NewRepository(setupProposalsTestDB(t))
	ctx := context.Background()

	brief, proposal := seedBriefAndProposal(t, repo)

	found, err := repo.FindBriefByID(ctx, brief.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"catering", "venue"}, found.NeededCategories)
	assert.Nil(t, found.AppliedProposalID)

	require.NoError(t, repo.StampAppliedProposal(ctx, brief.ID, proposal.ID))
	found, err = repo.FindBriefByID(ctx, brief.ID)
	require.NoError(t, err)
	require.NotNil(t, found.AppliedProposalID)
	assert.Equal(t, proposal.ID, *found.AppliedProposalID)
}

func TestRepositorySaveLineUpdatesDerivedFields(t *testing.T) {
	repo := NewRepository(setupProposalsTestDB(t))
	ctx := context.Background()

	_, proposal := seedBriefAndProposal(t, repo)
	line := proposal.Lines[0]
	line.Quantity = 3
	line.RentalDays = 2
	line.SubtotalCents = 180_000

	require.NoError(t, repo.SaveLine(ctx, &line))
	require.NoError(t, repo.UpdateGrandTotal(ctx, proposal.ID, 180_000))

	found, err := repo.FindProposalByID(ctx, proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, 180_000, found.GrandTotalCents)
	require.Len(t, found.Lines, 1)
	assert.Equal(t, 3, found.Lines[0].Quantity)
	assert.Equal(t, 2, found.Lines[0].RentalDays)
	assert.Equal(t, 180_000, found.Lines[0].SubtotalCents)
}

func TestRepositoryDeleteLine(t *testing.T) {
	repo := NewRepository(setupProposalsTestDB(t))
	ctx := context.Background()

	_, proposal := seedBriefAndProposal(t, repo)
	lineID := proposal.Lines[0].ID

	require.NoError(t, repo.DeleteLine(ctx, proposal.ID, lineID))
	assert.ErrorIs(t, repo.DeleteLine(ctx, proposal.ID, lineID), ErrNotFound)

	found, err := repo.FindProposalByID(ctx, proposal.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Lines)
}

func TestRepositorySetStatus(t *testing.T) {
	repo := NewRepository(setupProposalsTestDB(t))
	ctx := context.Background()

	_, proposal := seedBriefAndProposal(t, repo)
	require.NoError(t, repo.SetStatus(ctx, proposal.ID, enums.ProposalStatusConfirmed.String()))

	found, err := repo.FindProposalByID(ctx, proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ProposalStatusConfirmed, found.Status)
}
