package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/eventa-app/eventa-backend/pkg/enums"
)

// Proposal is the editable shortlist produced by the recommendation selector for
// one event brief. Only draft proposals accept edits; confirming it books orders.
type Proposal struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BriefID         uuid.UUID            `gorm:"column:brief_id;type:uuid;not null"`
	ClientID        uuid.UUID            `gorm:"column:client_id;type:uuid;not null"`
	Status          enums.ProposalStatus `gorm:"column:status;type:text;not null;default:'draft'"`
	GrandTotalCents int                  `gorm:"column:grand_total_cents;not null;default:0"`
	Lines           []ProposalLine       `gorm:"foreignKey:ProposalID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
