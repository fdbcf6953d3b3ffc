package recommendation

import (
	"context"
	"fmt"
	"sort"

	"github.com/eventa-app/eventa-backend/internal/catalog"
	"github.com/eventa-app/eventa-backend/pkg/db/models"
	pkgerrors "github.com/eventa-app/eventa-backend/pkg/errors"
)

type offeringLister interface {
	ListActiveOfferings(ctx context.Context, filter catalog.OfferingFilter) ([]models.Offering, error)
}

// Selector builds the initial budget-constrained proposal for an event brief.
type Selector struct {
	catalog offeringLister
	matcher *CategoryMatcher
}

// NewSelector builds a selector over the catalog read surface.
func NewSelector(catalogRepo offeringLister, matcher *CategoryMatcher) (*Selector, error) {
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if matcher == nil {
		matcher = NewCategoryMatcher(nil)
	}
	return &Selector{catalog: catalogRepo, matcher: matcher}, nil
}

// Select picks at most one offering per needed category while the cumulative
// price stays within the brief's budget ceiling. An empty result is a valid
// outcome, not an error: the caller surfaces it as "no match, adjust criteria".
func (s *Selector) Select(ctx context.Context, brief *models.EventBrief) (*models.Proposal, error) {
	if brief == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event brief required")
	}
	if brief.BudgetMaxCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "budget ceiling must be positive")
	}

	proposal := &models.Proposal{
		BriefID:  brief.ID,
		ClientID: brief.ClientID,
	}
	if len(brief.NeededCategories) == 0 {
		return proposal, nil
	}

	offerings, err := s.catalog.ListActiveOfferings(ctx, catalog.OfferingFilter{
		MaxPricePerDayCents: brief.BudgetMaxCents,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list catalog offerings")
	}

	candidatesByCategory := s.groupByNeededCategory(offerings, brief.NeededCategories)

	runningTotal := 0
	// Needed categories are walked in brief order so identical inputs always
	// produce identical proposals.
	for _, needed := range brief.NeededCategories {
		candidates := candidatesByCategory[needed]
		for _, offering := range candidates {
			if runningTotal+offering.PricePerDayCents > brief.BudgetMaxCents {
				continue
			}
			proposal.Lines = append(proposal.Lines, newLine(offering))
			runningTotal += offering.PricePerDayCents
			break
		}
	}

	proposal.GrandTotalCents = runningTotal
	return proposal, nil
}

// groupByNeededCategory buckets offerings under each requested category and
// sorts every bucket verified-first, then cheapest, then by id as a fixed
// tie-break. An offering may appear under several requested categories.
func (s *Selector) groupByNeededCategory(offerings []models.Offering, needed []string) map[string][]models.Offering {
	buckets := make(map[string][]models.Offering, len(needed))
	for _, category := range needed {
		for _, offering := range offerings {
			if s.matcher.Match(offering.Category, category) {
				buckets[category] = append(buckets[category], offering)
			}
		}
	}
	for category := range buckets {
		candidates := buckets[category]
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].Verified != candidates[j].Verified {
				return candidates[i].Verified
			}
			if candidates[i].PricePerDayCents != candidates[j].PricePerDayCents {
				return candidates[i].PricePerDayCents < candidates[j].PricePerDayCents
			}
			return candidates[i].ID.String() < candidates[j].ID.String()
		})
	}
	return buckets
}

func newLine(offering models.Offering) models.ProposalLine {
	return models.ProposalLine{
		OfferingID:       offering.ID,
		SupplierID:       offering.SupplierID,
		OfferingName:     offering.Name,
		Category:         offering.Category,
		PricePerDayCents: offering.PricePerDayCents,
		Verified:         offering.Verified,
		Quantity:         1,
		RentalDays:       1,
		SubtotalCents:    offering.PricePerDayCents,
	}
}
