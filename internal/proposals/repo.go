package proposals

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventa-app/eventa-backend/pkg/db/models"
)

// ErrNotFound signals the brief, proposal, or line does not exist.
var ErrNotFound = errors.New("record not found")

// Repository persists event briefs and their proposals.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateBrief(ctx context.Context, brief *models.EventBrief) error
	FindBriefByID(ctx context.Context, id uuid.UUID) (*models.EventBrief, error)
	StampAppliedProposal(ctx context.Context, briefID, proposalID uuid.UUID) error

	CreateProposal(ctx context.Context, proposal *models.Proposal) error
	FindProposalByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error)
	SaveLine(ctx context.Context, line *models.ProposalLine) error
	DeleteLine(ctx context.Context, proposalID, lineID uuid.UUID) error
	UpdateGrandTotal(ctx context.Context, proposalID uuid.UUID, totalCents int) error
	SetStatus(ctx context.Context, proposalID uuid.UUID, status string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a proposal repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateBrief(ctx context.Context, brief *models.EventBrief) error {
	return r.db.WithContext(ctx).Create(brief).Error
}

func (r *repository) FindBriefByID(ctx context.Context, id uuid.UUID) (*models.EventBrief, error) {
	var brief models.EventBrief
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&brief).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &brief, nil
}

func (r *repository) StampAppliedProposal(ctx context.Context, briefID, proposalID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.EventBrief{}).
		Where("id = ?", briefID).
		Update("applied_proposal_id", proposalID).Error
}

func (r *repository) CreateProposal(ctx context.Context, proposal *models.Proposal) error {
	return r.db.WithContext(ctx).Create(proposal).Error
}

func (r *repository) FindProposalByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	var proposal models.Proposal
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("proposal_lines.created_at ASC")
		}).
		Where("id = ?", id).
		First(&proposal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (r *repository) SaveLine(ctx context.Context, line *models.ProposalLine) error {
	return r.db.WithContext(ctx).
		Model(&models.ProposalLine{}).
		Where("id = ?", line.ID).
		Updates(map[string]any{
			"quantity":       line.Quantity,
			"rental_days":    line.RentalDays,
			"subtotal_cents": line.SubtotalCents,
		}).Error
}

func (r *repository) DeleteLine(ctx context.Context, proposalID, lineID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND proposal_id = ?", lineID, proposalID).
		Delete(&models.ProposalLine{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) UpdateGrandTotal(ctx context.Context, proposalID uuid.UUID, totalCents int) error {
	return r.db.WithContext(ctx).
		Model(&models.Proposal{}).
		Where("id = ?", proposalID).
		Update("grand_total_cents", totalCents).Error
}

func (r *repository) SetStatus(ctx context.Context, proposalID uuid.UUID, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Proposal{}).
		Where("id = ?", proposalID).
		Update("status", status).Error
}
