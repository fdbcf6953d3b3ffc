package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventa-app/eventa-backend/pkg/db/models"
	"github.com/eventa-app/eventa-backend/pkg/enums"
	"github.com/eventa-app/eventa-backend/pkg/pagination"
)

// ErrNotFound signals the group or order does not exist.
var ErrNotFound = errors.New("record not found")

// Repository persists order groups and their supplier orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateGroup(ctx context.Context, group *models.OrderGroup) error
	CreateOrder(ctx context.Context, order *models.Order) error
	FindGroupByID(ctx context.Context, id uuid.UUID) (*models.OrderGroup, error)
	FindOrdersByGroup(ctx context.Context, groupID uuid.UUID) ([]models.Order, error)
	FindOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	SaveStatus(ctx context.Context, order *models.Order) error
	ListClientOrders(ctx context.Context, clientID uuid.UUID, params pagination.Params) ([]models.Order, *pagination.Page, error)
	FindStalePendingOrders(ctx context.Context, before time.Time, limit int) ([]models.Order, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an order repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateGroup(ctx context.Context, group *models.OrderGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindGroupByID(ctx context.Context, id uuid.UUID) (*models.OrderGroup, error) {
	var group models.OrderGroup
	err := r.db.WithContext(ctx).
		Preload("Orders", func(db *gorm.DB) *gorm.DB {
			return db.Order("orders.supplier_id ASC")
		}).
		Preload("Orders.Items").
		Where("id = ?", id).
		First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *repository) FindOrdersByGroup(ctx context.Context, groupID uuid.UUID) ([]models.Order, error) {
	var list []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("group_id = ?", groupID).
		Order("supplier_id ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) FindOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// SaveStatus persists the status and lifecycle timestamps set by the FSM.
func (r *repository) SaveStatus(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"status":       order.Status,
			"confirmed_at": order.ConfirmedAt,
			"cancelled_at": order.CancelledAt,
		}).Error
}

// ListClientOrders walks a client's orders newest-first behind a cursor.
func (r *repository) ListClientOrders(ctx context.Context, clientID uuid.UUID, params pagination.Params) ([]models.Order, *pagination.Page, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, nil, err
	}
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var list []models.Order
	if err := query.Find(&list).Error; err != nil {
		return nil, nil, err
	}

	page := &pagination.Page{Limit: limit}
	if len(list) > limit {
		list = list[:limit]
		last := list[len(list)-1]
		page.HasMore = true
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return list, page, nil
}

// FindStalePendingOrders returns pending orders created before the cutoff.
func (r *repository) FindStalePendingOrders(ctx context.Context, before time.Time, limit int) ([]models.Order, error) {
	query := r.db.WithContext(ctx).
		Where("status = ?", enums.OrderStatusPending).
		Where("created_at < ?", before).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var list []models.Order
	if err := query.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
