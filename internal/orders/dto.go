package orders

import (
	"github.com/google/uuid"

	"github.com/eventa-app/eventa-backend/pkg/db/models"
)

// Currency is the settlement currency quoted to clients and the payment
// gateway. The platform bills in a single currency.
const Currency = "MAD"

// SupplierContact labels an order's supplier on client-facing surfaces.
type SupplierContact struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// GroupResult is the grouped-order read model: one group id for the payment leg
// and one order per supplier involved in the proposal. TotalCents plus Currency
// form the payment-init amount for the group.
type GroupResult struct {
	GroupID    uuid.UUID         `json:"group_id"`
	TotalCents int               `json:"total_cents"`
	Currency   string            `json:"currency"`
	Orders     []models.Order    `json:"orders"`
	Suppliers  []SupplierContact `json:"suppliers,omitempty"`
}
