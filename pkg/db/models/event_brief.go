package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/eventa-app/eventa-backend/pkg/enums"
)

// EventBrief captures the client's event requirements. Immutable once created;
// AppliedProposalID links the proposal that was eventually confirmed for audit.
type EventBrief struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ClientID          uuid.UUID           `gorm:"column:client_id;type:uuid;not null"`
	EventCategory     enums.EventCategory `gorm:"column:event_category;type:text;not null"`
	BudgetMinCents    int                 `gorm:"column:budget_min_cents;not null;default:0"`
	BudgetMaxCents    int                 `gorm:"column:budget_max_cents;not null"`
	GuestCount        int                 `gorm:"column:guest_count;not null;default:0"`
	EventDate         time.Time           `gorm:"column:event_date;not null"`
	Location          string              `gorm:"column:location;not null"`
	NeededCategories  []string            `gorm:"column:needed_categories;type:jsonb;serializer:json"`
	Notes             *string             `gorm:"column:notes"`
	AppliedProposalID *uuid.UUID          `gorm:"column:applied_proposal_id;type:uuid"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
}
