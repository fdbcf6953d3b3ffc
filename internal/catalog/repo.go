package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventa-app/eventa-backend/pkg/db/models"
)

// OfferingFilter narrows the bulk offering read. The price ceiling is a coarse
// prefilter; the selector still applies the cumulative budget check.
type OfferingFilter struct {
	MaxPricePerDayCents int
}

// SupplierProfile is the minimal supplier identity exposed to order surfaces.
type SupplierProfile struct {
	ID           uuid.UUID
	Name         string
	ContactEmail string
}

// Repository is the read-only catalog surface consumed by the selector and the
// order orchestrator. The catalog itself is owned by the supplier-facing side
// of the platform.
type Repository interface {
	ListActiveOfferings(ctx context.Context, filter OfferingFilter) ([]models.Offering, error)
	FindOfferingsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Offering, error)
	GetSupplierProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]SupplierProfile, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListActiveOfferings(ctx context.Context, filter OfferingFilter) ([]models.Offering, error) {
	query := r.db.WithContext(ctx).
		Where("active = ?", true).
		Where("available_qty > 0")
	if filter.MaxPricePerDayCents > 0 {
		query = query.Where("price_per_day_cents <= ?", filter.MaxPricePerDayCents)
	}

	var offerings []models.Offering
	// Stable read order keeps the selector deterministic for identical data.
	err := query.
		Order("price_per_day_cents ASC").
		Order("id ASC").
		Find(&offerings).Error
	if err != nil {
		return nil, err
	}
	return offerings, nil
}

func (r *repository) FindOfferingsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Offering, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var offerings []models.Offering
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&offerings).Error
	if err != nil {
		return nil, err
	}
	return offerings, nil
}

func (r *repository) GetSupplierProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]SupplierProfile, error) {
	profiles := make(map[uuid.UUID]SupplierProfile, len(ids))
	if len(ids) == 0 {
		return profiles, nil
	}

	var suppliers []models.Supplier
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&suppliers).Error
	if err != nil {
		return nil, err
	}

	for _, supplier := range suppliers {
		profiles[supplier.ID] = SupplierProfile{
			ID:           supplier.ID,
			Name:         supplier.Name,
			ContactEmail: supplier.ContactEmail,
		}
	}
	return profiles, nil
}
