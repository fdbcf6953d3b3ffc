package models

import (
	"time"

	"github.com/google/uuid"
)

// ProposalLine snapshots one selected offering inside a proposal. Quantity and
// rental days are the only mutable fields; the subtotal is always derived as
// price-per-day x quantity x rental days.
type ProposalLine struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProposalID       uuid.UUID `gorm:"column:proposal_id;type:uuid;not null"`
	OfferingID       uuid.UUID `gorm:"column:offering_id;type:uuid;not null"`
	SupplierID       uuid.UUID `gorm:"column:supplier_id;type:uuid;not null"`
	OfferingName     string    `gorm:"column:offering_name;not null"`
	Category         string    `gorm:"column:category;not null"`
	PricePerDayCents int       `gorm:"column:price_per_day_cents;not null"`
	Verified         bool      `gorm:"column:verified;not null;default:false"`
	Quantity         int       `gorm:"column:quantity;not null;default:1"`
	RentalDays       int       `gorm:"column:rental_days;not null;default:1"`
	SubtotalCents    int       `gorm:"column:subtotal_cents;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
