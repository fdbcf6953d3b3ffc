package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/eventa-app/eventa-backend/pkg/enums"
)

// PaymentRecord stores the processed outcome for one gateway payment reference.
// The unique index on Reference is what makes reconciliation replay-safe: a
// reference settles at most once and later calls read the recorded outcome.
type PaymentRecord struct {
	ID               uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	Reference        string               `gorm:"column:reference;not null;uniqueIndex:idx_payment_records_reference"`
	GroupID          uuid.UUID            `gorm:"column:group_id;type:uuid;not null"`
	AmountCents      int                  `gorm:"column:amount_cents;not null"`
	Outcome          enums.PaymentOutcome `gorm:"column:outcome;type:text;not null"`
	OrdersConfirmed  int                  `gorm:"column:orders_confirmed;not null;default:0"`
	PendingOrderIDs  []uuid.UUID          `gorm:"column:pending_order_ids;type:jsonb;serializer:json"`
	GatewayPayload   []byte               `gorm:"column:gateway_payload"`
	ProcessedAt      time.Time            `gorm:"column:processed_at;not null"`
	CreatedAt        time.Time            `gorm:"column:created_at;autoCreateTime"`
}
