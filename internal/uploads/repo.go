package uploads

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/madebuy/madebuy-backend/internal/repo"
	"github.com/madebuy/madebuy-backend/pkg/db/models"
	"github.com/madebuy/madebuy-backend/pkg/enums"
)

// MediaRepository defines persistence operations for upload media rows.
type MediaRepository interface {
	Create(ctx context.Context, media *models.Media) (*models.Media, error)
	MarkStored(ctx context.Context, id uuid.UUID, url string) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repository persists media rows.
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

// Create inserts a pending media row.
func (r *Repository) Create(ctx context.Context, media *models.Media) (*models.Media, error) {
	if err := r.DB(ctx).Create(media).Error; err != nil {
		return nil, err
	}
	return media, nil
}

// MarkStored flips a row to stored and records its public URL.
func (r *Repository) MarkStored(ctx context.Context, id uuid.UUID, url string) error {
	return r.DB(ctx).
		Model(&models.Media{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status": enums.MediaStatusStored,
			"url":    url,
		}).Error
}

// MarkFailed flips a row to failed after a storage error.
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).
		Model(&models.Media{}).
		Where("id = ?", id).
		Update("status", enums.MediaStatusFailed).Error
}

// FindByID loads a media row. Returns (nil, nil) when absent.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	var media models.Media
	err := r.DB(ctx).First(&media, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &media, nil
}

// Delete removes a media row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Delete(&models.Media{}, "id = ?", id).Error
}
