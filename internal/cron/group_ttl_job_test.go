package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eventa-app/eventa-backend/internal/orders"
	"github.com/eventa-app/eventa-backend/pkg/db/models"
	"github.com/eventa-app/eventa-backend/pkg/enums"
	"github.com/eventa-app/eventa-backend/pkg/logger"
	"github.com/eventa-app/eventa-backend/pkg/pagination"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubOrderRepo struct {
	byID     map[uuid.UUID]*models.Order
	stale    []models.Order
	saveErrs map[uuid.UUID]error
	saved    []uuid.UUID
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		byID:     map[uuid.UUID]*models.Order{},
		saveErrs: map[uuid.UUID]error{},
	}
}

func (s *stubOrderRepo) add(order *models.Order, stale bool) {
	s.byID[order.ID] = order
	if stale {
		s.stale = append(s.stale, *order)
	}
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubOrderRepo) CreateGroup(_ context.Context, group *models.OrderGroup) error { return nil }

func (s *stubOrderRepo) CreateOrder(_ context.Context, order *models.Order) error { return nil }

func (s *stubOrderRepo) FindGroupByID(_ context.Context, id uuid.UUID) (*models.OrderGroup, error) {
	return nil, orders.ErrNotFound
}

func (s *stubOrderRepo) FindOrdersByGroup(_ context.Context, groupID uuid.UUID) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrderRepo) FindOrderByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := s.byID[id]
	if !ok {
		return nil, orders.ErrNotFound
	}
	return order, nil
}

func (s *stubOrderRepo) SaveStatus(_ context.Context, order *models.Order) error {
	if err := s.saveErrs[order.ID]; err != nil {
		return err
	}
	s.saved = append(s.saved, order.ID)
	return nil
}

func (s *stubOrderRepo) ListClientOrders(_ context.Context, clientID uuid.UUID, params pagination.Params) ([]models.Order, *pagination.Page, error) {
	return nil, nil, nil
}

func (s *stubOrderRepo) FindStalePendingOrders(_ context.Context, before time.Time, limit int) ([]models.Order, error) {
	return s.stale, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test"})
}

func pendingOrder(ageDays int) *models.Order {
	return &models.Order{
		ID:        uuid.New(),
		ClientID:  uuid.New(),
		Status:    enums.OrderStatusPending,
		CreatedAt: time.Now().UTC().Add(-time.Duration(ageDays) * 24 * time.Hour),
	}
}

func TestGroupTTLJobCancelsStalePendingOrders(t *testing.T) {
	t.Parallel()

	repo := newStubOrderRepo()
	first := pendingOrder(15)
	second := pendingOrder(12)
	repo.add(first, true)
	repo.add(second, true)

	job, err := NewGroupTTLJob(GroupTTLJobParams{
		Logger: testLogger(),
		DB:     stubTxRunner{},
		Orders: repo,
	})
	require.NoError(t, err)

	require.NoError(t, job.Run(context.Background()))
	assert.ElementsMatch(t, []uuid.UUID{first.ID, second.ID}, repo.saved)
	assert.Equal(t, enums.OrderStatusCancelled, first.Status)
	assert.NotNil(t, first.CancelledAt)
	assert.Equal(t, enums.OrderStatusCancelled, second.Status)
}

func TestGroupTTLJobSkipsOrdersPaidMidSweep(t *testing.T) {
	t.Parallel()

	repo := newStubOrderRepo()
	stale := pendingOrder(15)
	repo.add(stale, true)
	// The reload sees a confirmed order: a payment landed after the sweep query.
	stale.Status = enums.OrderStatusConfirmed

	job, err := NewGroupTTLJob(GroupTTLJobParams{
		Logger: testLogger(),
		DB:     stubTxRunner{},
		Orders: repo,
	})
	require.NoError(t, err)

	require.NoError(t, job.Run(context.Background()))
	assert.Empty(t, repo.saved)
	assert.Equal(t, enums.OrderStatusConfirmed, stale.Status)
}

func TestGroupTTLJobAggregatesFailuresAndKeepsGoing(t *testing.T) {
	t.Parallel()

	repo := newStubOrderRepo()
	failing := pendingOrder(15)
	healthy := pendingOrder(15)
	repo.add(failing, true)
	repo.add(healthy, true)
	repo.saveErrs[failing.ID] = errors.New("write refused")

	job, err := NewGroupTTLJob(GroupTTLJobParams{
		Logger: testLogger(),
		DB:     stubTxRunner{},
		Orders: repo,
	})
	require.NoError(t, err)

	err = job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), failing.ID.String())
	assert.Equal(t, []uuid.UUID{healthy.ID}, repo.saved)
}
