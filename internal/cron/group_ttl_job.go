package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/eventa-app/eventa-backend/internal/orders"
	"github.com/eventa-app/eventa-backend/pkg/enums"
	"github.com/eventa-app/eventa-backend/pkg/logger"
)

const (
	defaultPendingTTLDays = 10
	expireBatchSize       = 200
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// GroupTTLJobParams configure the stale-order expiry job.
type GroupTTLJobParams struct {
	Logger         *logger.Logger
	DB             txRunner
	Orders         orders.Repository
	PendingTTLDays int
}

// NewGroupTTLJob builds the job that cancels orders left pending past the TTL.
// An order stuck in pending means the client confirmed a proposal but never
// completed payment; cancelling frees the supplier's calendar.
func NewGroupTTLJob(params GroupTTLJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order repository required")
	}
	ttlDays := params.PendingTTLDays
	if ttlDays <= 0 {
		ttlDays = defaultPendingTTLDays
	}
	return &groupTTLJob{
		logg:    params.Logger,
		db:      params.DB,
		orders:  params.Orders,
		ttlDays: ttlDays,
		now:     time.Now,
	}, nil
}

type groupTTLJob struct {
	logg    *logger.Logger
	db      txRunner
	orders  orders.Repository
	ttlDays int
	now     func() time.Time
}

func (j *groupTTLJob) Name() string { return "group-ttl" }

func (j *groupTTLJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.ttlDays) * 24 * time.Hour)
	stale, err := j.orders.FindStalePendingOrders(ctx, cutoff, expireBatchSize)
	if err != nil {
		return fmt.Errorf("query stale pending orders: %w", err)
	}

	var errs error
	cancelled := 0
	for _, order := range stale {
		if err := j.cancelOrder(ctx, order.ID); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("cancel order %s: %w", order.ID, err))
			continue
		}
		cancelled++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"examined":  len(stale),
		"cancelled": cancelled,
	})
	j.logg.Info(logCtx, "stale pending order sweep complete")
	return errs
}

// cancelOrder reloads the order inside its own transaction so a payment that
// lands mid-sweep wins the race.
func (j *groupTTLJob) cancelOrder(ctx context.Context, orderID uuid.UUID) error {
	return j.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := j.orders.WithTx(tx)
		current, err := repo.FindOrderByID(ctx, orderID)
		if err != nil {
			return err
		}
		if current.Status != enums.OrderStatusPending {
			return nil
		}
		if err := orders.Transition(current, enums.OrderStatusCancelled, j.now().UTC()); err != nil {
			return err
		}
		return repo.SaveStatus(ctx, current)
	})
}
