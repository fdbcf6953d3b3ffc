package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventa-app/eventa-backend/internal/catalog"
	"github.com/eventa-app/eventa-backend/internal/proposals"
	"github.com/eventa-app/eventa-backend/pkg/db/models"
	"github.com/eventa-app/eventa-backend/pkg/enums"
	pkgerrors "github.com/eventa-app/eventa-backend/pkg/errors"
	"github.com/eventa-app/eventa-backend/pkg/logger"
	"github.com/eventa-app/eventa-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type catalogReader interface {
	FindOfferingsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Offering, error)
	GetSupplierProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.SupplierProfile, error)
}

// Service turns confirmed proposals into grouped supplier orders and serves
// order reads.
type Service struct {
	repo         Repository
	proposalRepo proposals.Repository
	catalog      catalogReader
	tx           txRunner
	logg         *logger.Logger
	now          func() time.Time
}

// NewService wires the order service.
func NewService(repo Repository, proposalRepo proposals.Repository, catalogRepo catalogReader, tx txRunner, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if proposalRepo == nil {
		return nil, fmt.Errorf("proposal repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{
		repo:         repo,
		proposalRepo: proposalRepo,
		catalog:      catalogRepo,
		tx:           tx,
		logg:         logg,
		now:          time.Now,
	}, nil
}

// ConfirmProposal books a draft proposal: it partitions the lines by supplier,
// creates one pending order per supplier under a fresh group id, and marks the
// proposal confirmed. Everything commits or nothing does.
func (s *Service) ConfirmProposal(ctx context.Context, clientID, proposalID uuid.UUID) (*GroupResult, error) {
	if clientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "client identity required")
	}

	proposal, err := s.proposalRepo.FindProposalByID(ctx, proposalID)
	if errors.Is(err, proposals.ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "proposal not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load proposal")
	}
	if proposal.ClientID != clientID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "proposal not found")
	}
	if proposal.Status != enums.ProposalStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "proposal already processed").
			WithDetails(map[string]any{"status": proposal.Status.String()})
	}
	if len(proposal.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "proposal has no lines to confirm")
	}

	brief, err := s.proposalRepo.FindBriefByID(ctx, proposal.BriefID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load brief")
	}

	s.reportStockDrift(ctx, proposal.Lines)

	group := &models.OrderGroup{
		ID:         uuid.New(),
		ClientID:   clientID,
		BriefID:    proposal.BriefID,
		ProposalID: proposal.ID,
		TotalCents: proposal.GrandTotalCents,
	}
	built := buildSupplierOrders(group.ID, clientID, brief, proposal.Lines)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orderRepo := s.repo.WithTx(tx)
		proposalRepo := s.proposalRepo.WithTx(tx)

		if err := orderRepo.CreateGroup(ctx, group); err != nil {
			return fmt.Errorf("create order group: %w", err)
		}
		for i := range built {
			if err := orderRepo.CreateOrder(ctx, &built[i]); err != nil {
				return fmt.Errorf("create order for supplier %s: %w", built[i].SupplierID, err)
			}
		}
		if err := proposalRepo.SetStatus(ctx, proposal.ID, enums.ProposalStatusConfirmed.String()); err != nil {
			return fmt.Errorf("confirm proposal: %w", err)
		}
		if err := proposalRepo.StampAppliedProposal(ctx, proposal.BriefID, proposal.ID); err != nil {
			return fmt.Errorf("stamp applied proposal: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "book proposal")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"group_id":    group.ID.String(),
		"proposal_id": proposal.ID.String(),
		"orders":      len(built),
		"total_cents": group.TotalCents,
	})
	s.logg.Info(logCtx, "proposal confirmed into order group")

	return &GroupResult{
		GroupID:    group.ID,
		TotalCents: group.TotalCents,
		Currency:   Currency,
		Orders:     built,
		Suppliers:  s.supplierContacts(ctx, built),
	}, nil
}

// GetGroup returns a group owned by the caller, orders and items included.
func (s *Service) GetGroup(ctx context.Context, clientID, groupID uuid.UUID) (*GroupResult, error) {
	if clientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "client identity required")
	}
	group, err := s.repo.FindGroupByID(ctx, groupID)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order group not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order group")
	}
	if group.ClientID != clientID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order group not found")
	}
	return &GroupResult{
		GroupID:    group.ID,
		TotalCents: group.TotalCents,
		Currency:   Currency,
		Orders:     group.Orders,
		Suppliers:  s.supplierContacts(ctx, group.Orders),
	}, nil
}

// supplierContacts resolves the supplier names behind a set of orders. Name
// lookup is presentation only, so a catalog failure degrades to ids without
// blocking the read.
func (s *Service) supplierContacts(ctx context.Context, list []models.Order) []SupplierContact {
	ids := make([]uuid.UUID, 0, len(list))
	seen := make(map[uuid.UUID]bool, len(list))
	for _, order := range list {
		if !seen[order.SupplierID] {
			seen[order.SupplierID] = true
			ids = append(ids, order.SupplierID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	profiles, err := s.catalog.GetSupplierProfiles(ctx, ids)
	if err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("resolve supplier profiles: %v", err))
		return nil
	}

	contacts := make([]SupplierContact, 0, len(ids))
	for _, id := range ids {
		contacts = append(contacts, SupplierContact{ID: id, Name: profiles[id].Name})
	}
	return contacts
}

// reportStockDrift logs offerings that went inactive or out of stock since the
// draft was assembled. Booking still proceeds; shortages are settled with the
// supplier directly.
func (s *Service) reportStockDrift(ctx context.Context, lines []models.ProposalLine) {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.OfferingID)
	}

	offerings, err := s.catalog.FindOfferingsByIDs(ctx, ids)
	if err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("check offering stock: %v", err))
		return
	}

	current := make(map[uuid.UUID]models.Offering, len(offerings))
	for _, offering := range offerings {
		current[offering.ID] = offering
	}
	for _, line := range lines {
		offering, ok := current[line.OfferingID]
		if ok && offering.Active && offering.AvailableQty > 0 {
			continue
		}
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"offering_id":   line.OfferingID.String(),
			"offering_name": line.OfferingName,
		})
		s.logg.Warn(logCtx, "offering no longer available at confirmation time")
	}
}

// ListClientOrders pages through the caller's orders, newest first.
func (s *Service) ListClientOrders(ctx context.Context, clientID uuid.UUID, params pagination.Params) ([]models.Order, *pagination.Page, error) {
	if clientID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "client identity required")
	}
	list, page, err := s.repo.ListClientOrders(ctx, clientID, params)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return list, page, nil
}

// buildSupplierOrders partitions proposal lines into one order per supplier.
// Suppliers are walked in sorted id order so repeated confirmations of equal
// proposals produce orders in the same sequence.
func buildSupplierOrders(groupID uuid.UUID, clientID uuid.UUID, brief *models.EventBrief, lines []models.ProposalLine) []models.Order {
	bySupplier := make(map[uuid.UUID][]models.ProposalLine)
	for _, line := range lines {
		bySupplier[line.SupplierID] = append(bySupplier[line.SupplierID], line)
	}

	supplierIDs := make([]uuid.UUID, 0, len(bySupplier))
	for id := range bySupplier {
		supplierIDs = append(supplierIDs, id)
	}
	sort.Slice(supplierIDs, func(i, j int) bool {
		return supplierIDs[i].String() < supplierIDs[j].String()
	})

	gid := groupID
	built := make([]models.Order, 0, len(supplierIDs))
	for _, supplierID := range supplierIDs {
		order := models.Order{
			ID:         uuid.New(),
			GroupID:    &gid,
			ClientID:   clientID,
			SupplierID: supplierID,
			Status:     enums.OrderStatusPending,
			EventDate:  brief.EventDate,
			Location:   brief.Location,
		}
		for _, line := range bySupplier[supplierID] {
			order.Items = append(order.Items, models.OrderItem{
				ID:               uuid.New(),
				OrderID:          order.ID,
				OfferingID:       line.OfferingID,
				Name:             line.OfferingName,
				Quantity:         line.Quantity,
				RentalDays:       line.RentalDays,
				PricePerDayCents: line.PricePerDayCents,
				SubtotalCents:    line.SubtotalCents,
			})
			order.TotalCents += line.SubtotalCents
		}
		built = append(built, order)
	}
	return built
}
