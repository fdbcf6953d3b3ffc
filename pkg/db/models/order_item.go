package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem mirrors one proposal line inside a supplier order.
type OrderItem struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrderID          uuid.UUID `gorm:"column:order_id;type:uuid;not null"`
	OfferingID       uuid.UUID `gorm:"column:offering_id;type:uuid;not null"`
	Name             string    `gorm:"column:name;not null"`
	Quantity         int       `gorm:"column:quantity;not null"`
	RentalDays       int       `gorm:"column:rental_days;not null"`
	PricePerDayCents int       `gorm:"column:price_per_day_cents;not null"`
	SubtotalCents    int       `gorm:"column:subtotal_cents;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}
