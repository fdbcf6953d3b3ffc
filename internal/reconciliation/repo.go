package reconciliation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/eventa-app/eventa-backend/pkg/db/models"
)

// ErrNotFound signals no payment record exists for the reference.
var ErrNotFound = errors.New("payment record not found")

// Repository persists reconciliation outcomes keyed by gateway reference.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.PaymentRecord) error
	FindByReference(ctx context.Context, reference string) (*models.PaymentRecord, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a payment-record repository bound to the provided DB.
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

func (r *repository) Create(ctx context.Context, record *models.PaymentRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) FindByReference(ctx context.Context, reference string) (*models.PaymentRecord, error) {
	var record models.PaymentRecord
	err := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}
