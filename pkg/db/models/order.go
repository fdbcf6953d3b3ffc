package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/eventa-app/eventa-backend/pkg/enums"
)

// Order is the per-supplier order produced from a confirmed proposal. GroupID is
// nullable: orders created outside the grouped checkout path carry none.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	GroupID     *uuid.UUID        `gorm:"column:group_id;type:uuid"`
	ClientID    uuid.UUID         `gorm:"column:client_id;type:uuid;not null"`
	SupplierID  uuid.UUID         `gorm:"column:supplier_id;type:uuid;not null"`
	Status      enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	TotalCents  int               `gorm:"column:total_cents;not null"`
	EventDate   time.Time         `gorm:"column:event_date;not null"`
	Location    string            `gorm:"column:location;not null"`
	Items       []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ConfirmedAt *time.Time        `gorm:"column:confirmed_at"`
	CancelledAt *time.Time        `gorm:"column:cancelled_at"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
