package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderGroup links one proposal confirmation to the batch of supplier orders it
// produced. The group id is the unit the payment gateway settles.
type OrderGroup struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ClientID   uuid.UUID `gorm:"column:client_id;type:uuid;not null"`
	BriefID    uuid.UUID `gorm:"column:brief_id;type:uuid;not null"`
	ProposalID uuid.UUID `gorm:"column:proposal_id;type:uuid;not null"`
	TotalCents int       `gorm:"column:total_cents;not null"`
	Orders     []Order   `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
