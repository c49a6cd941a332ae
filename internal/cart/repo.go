package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/madebuy/madebuy-backend/internal/repo"
	"github.com/madebuy/madebuy-backend/pkg/db/models"
	"github.com/madebuy/madebuy-backend/pkg/enums"
)

// CartRepository defines persistence operations for carts and their lines.
type CartRepository interface {
	FindActiveByBuyer(ctx context.Context, tenantID uuid.UUID, buyerRef string) (*models.CartRecord, error)
	Create(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error)
	AddItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	FindItemByID(ctx context.Context, itemID uuid.UUID) (*models.CartItem, error)
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	SetStatus(ctx context.Context, cartID uuid.UUID, status enums.CartStatus) error
}

// Repository persists cart records and items.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

// FindActiveByBuyer loads a buyer's active cart with its items. Returns
// (nil, nil) when the buyer has no active cart.
func (r *Repository) FindActiveByBuyer(ctx context.Context, tenantID uuid.UUID, buyerRef string) (*models.CartRecord, error) {
	var record models.CartRecord
	err := r.DB(ctx).
		Preload("Items").
		Where("tenant_id = ? AND buyer_ref = ? AND status = ?", tenantID, buyerRef, enums.CartStatusActive).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts a new cart record.
func (r *Repository) Create(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	if err := r.DB(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// AddItem inserts one cart line.
func (r *Repository) AddItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	if err := r.DB(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindItemByID loads one cart line. Returns (nil, nil) when absent.
func (r *Repository) FindItemByID(ctx context.Context, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB(ctx).First(&item, "id = ?", itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes one cart line.
func (r *Repository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	result := r.DB(ctx).Delete(&models.CartItem{}, "id = ?", itemID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetStatus moves a cart to a new lifecycle status.
func (r *Repository) SetStatus(ctx context.Context, cartID uuid.UUID, status enums.CartStatus) error {
	return r.DB(ctx).
		Model(&models.CartRecord{}).
		Where("id = ?", cartID).
		Update("status", status).Error
}
