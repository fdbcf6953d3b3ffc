package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/eventa-app/eventa-backend/internal/orders"
	"github.com/eventa-app/eventa-backend/pkg/db"
	"github.com/eventa-app/eventa-backend/pkg/db/models"
	"github.com/eventa-app/eventa-backend/pkg/enums"
	pkgerrors "github.com/eventa-app/eventa-backend/pkg/errors"
	"github.com/eventa-app/eventa-backend/pkg/logger"
	"github.com/eventa-app/eventa-backend/pkg/paygate"
)

// lockTTL bounds how long one reconciliation attempt may hold the per-reference
// mutex before it expires on its own.
const lockTTL = 2 * time.Minute

// referenceConstraint is the unique index guarding one record per reference.
const referenceConstraint = "idx_payment_records_reference"

// A lock loser polls for the winner's stored outcome before giving up.
const (
	lockRetryWait = 150 * time.Millisecond
	lockRetries   = 4
)

type gateway interface {
	Verify(ctx context.Context, reference string) (*paygate.Verification, error)
}

type locker interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	ReconcileLockKey(reference string) string
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service settles gateway payment references against order groups. Each
// reference settles at most once; replays read the stored outcome.
type Service struct {
	repo      Repository
	orderRepo orders.Repository
	gateway   gateway
	locker    locker
	tx        txRunner
	logg      *logger.Logger
	now       func() time.Time
}

// NewService wires the reconciliation service.
func NewService(repo Repository, orderRepo orders.Repository, gw gateway, lk locker, tx txRunner, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payment repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if gw == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if lk == nil {
		return nil, fmt.Errorf("locker required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{
		repo:      repo,
		orderRepo: orderRepo,
		gateway:   gw,
		locker:    lk,
		tx:        tx,
		logg:      logg,
		now:       time.Now,
	}, nil
}

// Result is the reconciliation outcome for one reference. Duplicate marks a
// replay that read the previously stored record instead of settling again.
type Result struct {
	Reference       string               `json:"reference"`
	GroupID         uuid.UUID            `json:"group_id"`
	AmountCents     int                  `json:"amount_cents"`
	Outcome         enums.PaymentOutcome `json:"outcome"`
	OrdersConfirmed int                  `json:"orders_confirmed"`
	PendingOrderIDs []uuid.UUID          `json:"pending_order_ids,omitempty"`
	Duplicate       bool                 `json:"duplicate"`
	ProcessedAt     time.Time            `json:"processed_at"`
}

// Reconcile settles one gateway reference. A successful verification confirms
// every pending order in the group; orders that cannot move stay put and the
// outcome downgrades to partial. A failed verification records the failure and
// leaves every order pending so the client can retry payment.
func (s *Service) Reconcile(ctx context.Context, reference string) (*Result, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment reference required")
	}

	if existing, err := s.repo.FindByReference(ctx, reference); err == nil {
		return resultFromRecord(existing, true), nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup payment record")
	}

	lockKey := s.locker.ReconcileLockKey(reference)
	acquired, err := s.locker.SetNX(ctx, lockKey, "1", lockTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire reconcile lock")
	}
	if !acquired {
		return s.awaitConcurrentOutcome(ctx, reference)
	}
	defer func() {
		if err := s.locker.Del(ctx, lockKey); err != nil {
			s.logg.Warn(ctx, fmt.Sprintf("release reconcile lock %s: %v", lockKey, err))
		}
	}()

	// Re-check under the lock: a concurrent attempt may have finished between
	// the first lookup and lock acquisition.
	if existing, err := s.repo.FindByReference(ctx, reference); err == nil {
		return resultFromRecord(existing, true), nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup payment record")
	}

	verification, err := s.gateway.Verify(ctx, reference)
	if errors.Is(err, paygate.ErrReferenceNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment reference unknown to gateway")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify payment with gateway")
	}

	if !verification.Success {
		return s.recordFailure(ctx, reference, verification)
	}
	return s.settle(ctx, reference, verification)
}

// recordFailure stores the failed outcome without touching any order.
func (s *Service) recordFailure(ctx context.Context, reference string, verification *paygate.Verification) (*Result, error) {
	record := &models.PaymentRecord{
		ID:             uuid.New(),
		Reference:      reference,
		GroupID:        verification.GroupID,
		AmountCents:    verification.AmountCents,
		Outcome:        enums.PaymentOutcomeFailed,
		GatewayPayload: verification.RawPayload,
		ProcessedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		if db.IsUniqueViolation(err, referenceConstraint) {
			return s.reloadAsDuplicate(ctx, reference)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store failed payment record")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"reference": reference,
		"group_id":  verification.GroupID.String(),
	})
	s.logg.Warn(logCtx, "payment verification failed, orders left pending")

	return resultFromRecord(record, false), nil
}

// settle confirms the group's orders and stores the outcome in one transaction.
func (s *Service) settle(ctx context.Context, reference string, verification *paygate.Verification) (*Result, error) {
	group, err := s.orderRepo.FindGroupByID(ctx, verification.GroupID)
	if errors.Is(err, orders.ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order group not found for payment").
			WithDetails(map[string]any{"group_id": verification.GroupID.String()})
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order group")
	}

	if verification.AmountCents != group.TotalCents {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"reference":         reference,
			"group_id":          group.ID.String(),
			"paid_cents":        verification.AmountCents,
			"group_total_cents": group.TotalCents,
		})
		s.logg.Warn(logCtx, "paid amount differs from group total")
	}

	record := &models.PaymentRecord{
		ID:             uuid.New(),
		Reference:      reference,
		GroupID:        group.ID,
		AmountCents:    verification.AmountCents,
		GatewayPayload: verification.RawPayload,
		ProcessedAt:    s.now().UTC(),
	}

	var transitionErrs error
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		paymentRepo := s.repo.WithTx(tx)
		at := s.now().UTC()

		for i := range group.Orders {
			order := &group.Orders[i]
			if order.Status == enums.OrderStatusConfirmed {
				record.OrdersConfirmed++
				continue
			}
			if err := orders.Transition(order, enums.OrderStatusConfirmed, at); err != nil {
				transitionErrs = multierr.Append(transitionErrs, err)
				record.PendingOrderIDs = append(record.PendingOrderIDs, order.ID)
				continue
			}
			if err := orderRepo.SaveStatus(ctx, order); err != nil {
				return fmt.Errorf("confirm order %s: %w", order.ID, err)
			}
			record.OrdersConfirmed++
		}

		record.Outcome = enums.PaymentOutcomeConfirmed
		if len(record.PendingOrderIDs) > 0 {
			record.Outcome = enums.PaymentOutcomePartial
		}
		return paymentRepo.Create(ctx, record)
	})
	if err != nil {
		if db.IsUniqueViolation(err, referenceConstraint) {
			return s.reloadAsDuplicate(ctx, reference)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "settle payment")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"reference":        reference,
		"group_id":         group.ID.String(),
		"outcome":          record.Outcome.String(),
		"orders_confirmed": record.OrdersConfirmed,
		"orders_pending":   len(record.PendingOrderIDs),
	})
	if record.Outcome == enums.PaymentOutcomePartial {
		s.logg.Error(logCtx, "payment settled partially", transitionErrs)
	} else {
		s.logg.Info(logCtx, "payment settled")
	}

	return resultFromRecord(record, false), nil
}

// awaitConcurrentOutcome runs when another attempt holds the reference lock. It
// polls for the record that attempt is about to store; if the holder is still
// busy past the retry window the caller gets a conflict and retries later.
func (s *Service) awaitConcurrentOutcome(ctx context.Context, reference string) (*Result, error) {
	for attempt := 0; attempt < lockRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, ctx.Err(), "wait for concurrent reconciliation")
		case <-time.After(lockRetryWait):
		}

		record, err := s.repo.FindByReference(ctx, reference)
		if err == nil {
			return resultFromRecord(record, true), nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup payment record")
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeConflict, "reconciliation already in progress for this reference")
}

func (s *Service) reloadAsDuplicate(ctx context.Context, reference string) (*Result, error) {
	record, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload payment record")
	}
	return resultFromRecord(record, true), nil
}

func resultFromRecord(record *models.PaymentRecord, duplicate bool) *Result {
	return &Result{
		Reference:       record.Reference,
		GroupID:         record.GroupID,
		AmountCents:     record.AmountCents,
		Outcome:         record.Outcome,
		OrdersConfirmed: record.OrdersConfirmed,
		PendingOrderIDs: record.PendingOrderIDs,
		Duplicate:       duplicate,
		ProcessedAt:     record.ProcessedAt,
	}
}
