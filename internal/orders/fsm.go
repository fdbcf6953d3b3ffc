package orders

import (
	"time"

	"github.com/eventa-app/eventa-backend/pkg/db/models"
	"github.com/eventa-app/eventa-backend/pkg/enums"
	pkgerrors "github.com/eventa-app/eventa-backend/pkg/errors"
)

// allowedTransitions is the full order lifecycle. Cancellation is reachable
// from every non-terminal status; everything else moves strictly forward.
var allowedTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:    {enums.OrderStatusConfirmed, enums.OrderStatusCancelled},
	enums.OrderStatusConfirmed:  {enums.OrderStatusInProgress, enums.OrderStatusCancelled},
	enums.OrderStatusInProgress: {enums.OrderStatusCompleted, enums.OrderStatusCancelled},
	enums.OrderStatusCompleted:  {},
	enums.OrderStatusCancelled:  {},
}

// CanTransition reports whether from may move to next.
func CanTransition(from, next enums.OrderStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Transition is the single entry point for order status changes. It mutates the
// order in memory and stamps the lifecycle timestamps; callers persist.
func Transition(order *models.Order, next enums.OrderStatus, at time.Time) error {
	if order == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order required")
	}
	if !next.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}
	if !CanTransition(order.Status, next) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order status transition disallowed").
			WithDetails(map[string]any{
				"order_id": order.ID.String(),
				"from":     order.Status.String(),
				"to":       next.String(),
			})
	}

	order.Status = next
	switch next {
	case enums.OrderStatusConfirmed:
		order.ConfirmedAt = &at
	case enums.OrderStatusCancelled:
		order.CancelledAt = &at
	}
	return nil
}
