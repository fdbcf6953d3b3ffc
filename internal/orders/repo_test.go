package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/eventa-app/eventa-backend/pkg/db/models"
	"github.com/eventa-app/eventa-backend/pkg/enums"
	"github.com/eventa-app/eventa-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	orderGroups := `
CREATE TABLE IF NOT EXISTS order_groups (
  id TEXT PRIMARY KEY,
  client_id TEXT NOT NULL,
  brief_id TEXT NOT NULL,
  proposal_id TEXT NOT NULL,
  total_cents INTEGER NOT NULL,
  created_at DATETIME
);`
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  group_id TEXT,
  client_id TEXT NOT NULL,
  supplier_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  total_cents INTEGER NOT NULL,
  event_date DATETIME NOT NULL,
  location TEXT NOT NULL,
  confirmed_at DATETIME,
  cancelled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  offering_id TEXT NOT NULL,
  name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  rental_days INTEGER NOT NULL,
  price_per_day_cents INTEGER NOT NULL,
  subtotal_cents INTEGER NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(orderGroups).Error)
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	return db
}

func seedOrder(t *testing.T, repo Repository, clientID uuid.UUID, groupID *uuid.UUID, status enums.OrderStatus, createdAt time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:         uuid.New(),
		GroupID:    groupID,
		ClientID:   clientID,
		SupplierID: uuid.New(),
		Status:     status,
		TotalCents: 10_000,
		EventDate:  time.Date(2026, 11, 14, 0, 0, 0, 0, time.UTC),
		Location:   "Marrakech",
		CreatedAt:  createdAt,
		Items: []models.OrderItem{
			{
				ID:               uuid.New(),
				OfferingID:       uuid.New(),
				Name:             "Sound System",
				Quantity:         1,
				RentalDays:       1,
				PricePerDayCents: 10_000,
				SubtotalCents:    10_000,
			},
		},
	}
	order.Items[0].OrderID = order.ID
	require.NoError(t, repo.CreateOrder(context.Background(), order))
	return order
}

func TestRepositoryGroupRoundtrip(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	clientID := uuid.New()
	group := &models.OrderGroup{
		ID:         uuid.New(),
		ClientID:   clientID,
		BriefID:    uuid.New(),
		ProposalID: uuid.New(),
		TotalCents: 35_000,
	}
	require.NoError(t, repo.CreateGroup(ctx, group))

	gid := group.ID
	seedOrder(t, repo, clientID, &gid, enums.OrderStatusPending, time.Now().UTC())
	seedOrder(t, repo, clientID, &gid, enums.OrderStatusPending, time.Now().UTC())

	found, err := repo.FindGroupByID(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, group.TotalCents, found.TotalCents)
	require.Len(t, found.Orders, 2)
	require.Len(t, found.Orders[0].Items, 1)
	assert.Equal(t, "Sound System", found.Orders[0].Items[0].Name)

	_, err = repo.FindGroupByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepositorySaveStatusPersistsTimestamps(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedOrder(t, repo, uuid.New(), nil, enums.OrderStatusPending, time.Now().UTC())

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, Transition(order, enums.OrderStatusConfirmed, at))
	require.NoError(t, repo.SaveStatus(ctx, order))

	reloaded, err := repo.FindOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, reloaded.Status)
	require.NotNil(t, reloaded.ConfirmedAt)
}

func TestRepositoryListClientOrdersPaginates(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	clientID := uuid.New()
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		seedOrder(t, repo, clientID, nil, enums.OrderStatusPending, base.Add(time.Duration(i)*time.Minute))
	}
	// Another client's order must never show up.
	seedOrder(t, repo, uuid.New(), nil, enums.OrderStatusPending, base)

	first, page, err := repo.ListClientOrders(ctx, clientID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.NotNil(t, page)
	assert.True(t, page.HasMore)
	require.NotEmpty(t, page.NextCursor)

	second, page2, err := repo.ListClientOrders(ctx, clientID, pagination.Params{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.False(t, page2.HasMore)

	seen := map[uuid.UUID]bool{}
	for _, order := range append(first, second...) {
		assert.Equal(t, clientID, order.ClientID)
		assert.False(t, seen[order.ID], "order repeated across pages")
		seen[order.ID] = true
	}
}

func TestRepositoryFindStalePendingOrders(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	clientID := uuid.New()
	old := time.Now().UTC().Add(-20 * 24 * time.Hour)
	stale := seedOrder(t, repo, clientID, nil, enums.OrderStatusPending, old)
	seedOrder(t, repo, clientID, nil, enums.OrderStatusConfirmed, old)
	seedOrder(t, repo, clientID, nil, enums.OrderStatusPending, time.Now().UTC())

	cutoff := time.Now().UTC().Add(-10 * 24 * time.Hour)
	found, err := repo.FindStalePendingOrders(ctx, cutoff, 50)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, stale.ID, found[0].ID)
}
