package personalization

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/madebuy/madebuy-backend/internal/repo"
	"github.com/madebuy/madebuy-backend/pkg/db/models"
)

// ConfigRepository defines persistence operations for personalization configs.
type ConfigRepository interface {
	FindByPieceID(ctx context.Context, pieceID uuid.UUID) (*models.PersonalizationConfig, error)
	Upsert(ctx context.Context, config *models.PersonalizationConfig) (*models.PersonalizationConfig, error)
	SetEnabled(ctx context.Context, pieceID uuid.UUID, enabled bool) error
}

// Repository persists personalization configs.
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

// FindByPieceID loads the config for a piece. Returns (nil, nil) when absent.
func (r *Repository) FindByPieceID(ctx context.Context, pieceID uuid.UUID) (*models.PersonalizationConfig, error) {
	var config models.PersonalizationConfig
	err := r.DB(ctx).
		Where("piece_id = ?", pieceID).
		First(&config).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// Upsert writes the config for a piece, replacing the field list wholesale.
func (r *Repository) Upsert(ctx context.Context, config *models.PersonalizationConfig) (*models.PersonalizationConfig, error) {
	err := r.DB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "piece_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"enabled", "instructions", "processing_days", "fields", "updated_at",
			}),
		}).
		Create(config).Error
	if err != nil {
		return nil, err
	}
	return r.FindByPieceID(ctx, config.PieceID)
}

// SetEnabled toggles the enabled flag without touching the field list.
func (r *Repository) SetEnabled(ctx context.Context, pieceID uuid.UUID, enabled bool) error {
	result := r.DB(ctx).
		Model(&models.PersonalizationConfig{}).
		Where("piece_id = ?", pieceID).
		Update("enabled", enabled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
