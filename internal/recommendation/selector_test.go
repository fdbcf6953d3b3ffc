package recommendation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventa-app/eventa-backend/internal/catalog"
	"github.com/eventa-app/eventa-backend/pkg/db/models"
)

type stubCatalog struct {
	offerings []models.Offering
	err       error
	filters   []catalog.OfferingFilter
}

func (s *stubCatalog) ListActiveOfferings(_ context.Context, filter catalog.OfferingFilter) ([]models.Offering, error) {
	s.filters = append(s.filters, filter)
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Offering
	for _, offering := range s.offerings {
		if filter.MaxPricePerDayCents > 0 && offering.PricePerDayCents > filter.MaxPricePerDayCents {
			continue
		}
		out = append(out, offering)
	}
	return out, nil
}

func newOffering(supplierID uuid.UUID, category string, priceCents int, verified bool) models.Offering {
	return models.Offering{
		ID:               uuid.New(),
		SupplierID:       supplierID,
		Name:             category + " offering",
		Category:         category,
		PricePerDayCents: priceCents,
		Verified:         verified,
		Active:           true,
	}
}

func newBrief(budgetMaxCents int, needed ...string) *models.EventBrief {
	return &models.EventBrief{
		ID:               uuid.New(),
		ClientID:         uuid.New(),
		BudgetMaxCents:   budgetMaxCents,
		EventDate:        time.Now().Add(30 * 24 * time.Hour),
		Location:         "Casablanca",
		NeededCategories: needed,
	}
}

func TestSelectPrefersVerifiedThenCheapest(t *testing.T) {
	t.Parallel()

	supplier := uuid.New()
	verified := newOffering(supplier, "catering", 50_000, true)
	cheaperUnverified := newOffering(supplier, "catering", 20_000, false)
	expensiveVerified := newOffering(supplier, "catering", 70_000, true)

	store := &stubCatalog{offerings: []models.Offering{cheaperUnverified, expensiveVerified, verified}}
	selector, err := NewSelector(store, nil)
	require.NoError(t, err)

	proposal, err := selector.Select(context.Background(), newBrief(100_000, "catering"))
	require.NoError(t, err)
	require.Len(t, proposal.Lines, 1)
	assert.Equal(t, verified.ID, proposal.Lines[0].OfferingID)
	assert.True(t, proposal.Lines[0].Verified)
	assert.Equal(t, 50_000, proposal.GrandTotalCents)
}

func TestSelectStaysWithinBudgetAcrossCategories(t *testing.T) {
	t.Parallel()

	supplier := uuid.New()
	store := &stubCatalog{offerings: []models.Offering{
		newOffering(supplier, "venue", 60_000, true),
		newOffering(supplier, "catering", 30_000, true),
		newOffering(supplier, "photography", 25_000, true),
	}}
	selector, err := NewSelector(store, nil)
	require.NoError(t, err)

	proposal, err := selector.Select(context.Background(), newBrief(95_000, "venue", "catering", "photography"))
	require.NoError(t, err)

	// Venue and catering fit; photography would push the total past the cap.
	require.Len(t, proposal.Lines, 2)
	assert.Equal(t, "venue", proposal.Lines[0].Category)
	assert.Equal(t, "catering", proposal.Lines[1].Category)
	assert.Equal(t, 90_000, proposal.GrandTotalCents)
	assert.LessOrEqual(t, proposal.GrandTotalCents, 95_000)
}

func TestSelectSkipsTooExpensiveButKeepsLaterCategories(t *testing.T) {
	t.Parallel()

	supplier := uuid.New()
	store := &stubCatalog{offerings: []models.Offering{
		newOffering(supplier, "venue", 90_000, true),
		newOffering(supplier, "catering", 30_000, true),
	}}
	selector, err := NewSelector(store, nil)
	require.NoError(t, err)

	proposal, err := selector.Select(context.Background(), newBrief(40_000, "venue", "catering"))
	require.NoError(t, err)
	require.Len(t, proposal.Lines, 1)
	assert.Equal(t, "catering", proposal.Lines[0].Category)
}

func TestSelectNoMatchesReturnsEmptyProposal(t *testing.T) {
	t.Parallel()

	store := &stubCatalog{offerings: []models.Offering{
		newOffering(uuid.New(), "security", 10_000, true),
	}}
	selector, err := NewSelector(store, nil)
	require.NoError(t, err)

	proposal, err := selector.Select(context.Background(), newBrief(50_000, "catering"))
	require.NoError(t, err)
	assert.Empty(t, proposal.Lines)
	assert.Zero(t, proposal.GrandTotalCents)
}

func TestSelectEmptyNeededCategoriesSkipsCatalogRead(t *testing.T) {
	t.Parallel()

	store := &stubCatalog{}
	selector, err := NewSelector(store, nil)
	require.NoError(t, err)

	proposal, err := selector.Select(context.Background(), newBrief(50_000))
	require.NoError(t, err)
	assert.Empty(t, proposal.Lines)
	assert.Empty(t, store.filters)
}

func TestSelectMatchesSynonymCategories(t *testing.T) {
	t.Parallel()

	supplier := uuid.New()
	store := &stubCatalog{offerings: []models.Offering{
		newOffering(supplier, "Sono & Lumieres", 15_000, false),
	}}
	selector, err := NewSelector(store, nil)
	require.NoError(t, err)

	proposal, err := selector.Select(context.Background(), newBrief(50_000, "sonorisation"))
	require.NoError(t, err)
	require.Len(t, proposal.Lines, 1)
	assert.Equal(t, "Sono & Lumieres", proposal.Lines[0].Category)
}

func TestSelectIsDeterministic(t *testing.T) {
	t.Parallel()

	supplier := uuid.New()
	store := &stubCatalog{offerings: []models.Offering{
		newOffering(supplier, "catering", 30_000, true),
		newOffering(supplier, "catering", 30_000, true),
		newOffering(supplier, "venue", 45_000, false),
	}}
	selector, err := NewSelector(store, nil)
	require.NoError(t, err)
	brief := newBrief(100_000, "catering", "venue")

	first, err := selector.Select(context.Background(), brief)
	require.NoError(t, err)
	second, err := selector.Select(context.Background(), brief)
	require.NoError(t, err)

	require.Len(t, second.Lines, len(first.Lines))
	for i := range first.Lines {
		assert.Equal(t, first.Lines[i].OfferingID, second.Lines[i].OfferingID)
	}
}

func TestSelectLinesDefaultToSingleDayAndUnit(t *testing.T) {
	t.Parallel()

	store := &stubCatalog{offerings: []models.Offering{
		newOffering(uuid.New(), "catering", 30_000, true),
	}}
	selector, err := NewSelector(store, nil)
	require.NoError(t, err)

	proposal, err := selector.Select(context.Background(), newBrief(50_000, "catering"))
	require.NoError(t, err)
	require.Len(t, proposal.Lines, 1)
	assert.Equal(t, 1, proposal.Lines[0].Quantity)
	assert.Equal(t, 1, proposal.Lines[0].RentalDays)
	assert.Equal(t, proposal.Lines[0].PricePerDayCents, proposal.Lines[0].SubtotalCents)
}

func TestSelectCatalogErrorSurfacesAsDependency(t *testing.T) {
	t.Parallel()

	store := &stubCatalog{err: errors.New("connection refused")}
	selector, err := NewSelector(store, nil)
	require.NoError(t, err)

	_, err = selector.Select(context.Background(), newBrief(50_000, "catering"))
	require.Error(t, err)
}
