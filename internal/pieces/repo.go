package pieces

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/madebuy/madebuy-backend/internal/repo"
	"github.com/madebuy/madebuy-backend/pkg/db/models"
	"github.com/madebuy/madebuy-backend/pkg/pagination"
)

// PieceRepository defines persistence operations for pieces.
type PieceRepository interface {
	Create(ctx context.Context, piece *models.Piece) (*models.Piece, error)
	Update(ctx context.Context, piece *models.Piece) (*models.Piece, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Piece, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, params pagination.Params) ([]models.Piece, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repository persists pieces.
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

// Create inserts a new piece row.
func (r *Repository) Create(ctx context.Context, piece *models.Piece) (*models.Piece, error) {
	if err := r.DB(ctx).Create(piece).Error; err != nil {
		return nil, err
	}
	return piece, nil
}

// Update saves mutable piece columns.
func (r *Repository) Update(ctx context.Context, piece *models.Piece) (*models.Piece, error) {
	if err := r.DB(ctx).Save(piece).Error; err != nil {
		return nil, err
	}
	return piece, nil
}

// FindByID loads a piece with its personalization config. Returns (nil, nil)
// when absent.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Piece, error) {
	var piece models.Piece
	err := r.DB(ctx).
		Preload("Personalization").
		First(&piece, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &piece, nil
}

// ListByTenant pages a tenant's pieces by (created_at, id) descending. Fetches
// one extra row so the caller can detect the next page.
func (r *Repository) ListByTenant(ctx context.Context, tenantID uuid.UUID, params pagination.Params) ([]models.Piece, error) {
	query := r.DB(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at, id) < (?, ?)",
			cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Piece
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes a piece; configs, media, and cart lines cascade in the DB.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.DB(ctx).Delete(&models.Piece{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
