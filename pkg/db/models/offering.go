package models

import (
	"time"

	"github.com/google/uuid"
)

// Offering is a supplier's rentable item or service. Owned by the supplier side
// of the platform; the orchestrator only ever reads it.
type Offering struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID       uuid.UUID `gorm:"column:supplier_id;type:uuid;not null"`
	Name             string    `gorm:"column:name;not null"`
	Category         string    `gorm:"column:category;not null"`
	PricePerDayCents int       `gorm:"column:price_per_day_cents;not null"`
	Verified         bool      `gorm:"column:verified;not null;default:false"`
	AvailableQty     int       `gorm:"column:available_qty;not null;default:0"`
	Active           bool      `gorm:"column:active;not null;default:true"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
