package models

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is the identity record behind a set of offerings.
type Supplier struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	ContactEmail string    `gorm:"column:contact_email;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
