package pieces

import (
	"time"

	"github.com/google/uuid"

	"github.com/madebuy/madebuy-backend/pkg/db/models"
)

// PieceDTO represents the piece payload returned to clients.
type PieceDTO struct {
	ID                     uuid.UUID `json:"id"`
	TenantID               uuid.UUID `json:"tenant_id"`
	SKU                    string    `json:"sku"`
	Title                  string    `json:"title"`
	Description            *string   `json:"description,omitempty"`
	PriceCents             int64     `json:"price_cents"`
	IsActive               bool      `json:"is_active"`
	Tags                   []string  `json:"tags,omitempty"`
	PersonalizationEnabled bool      `json:"personalization_enabled"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// CreatePieceInput holds the validated payload to create a piece.
type CreatePieceInput struct {
	SKU         string
	Title       string
	Description *string
	PriceCents  int64
	IsActive    bool
	Tags        []string
}

// UpdatePieceInput holds optional mutation values for a piece.
type UpdatePieceInput struct {
	SKU         *string
	Title       *string
	Description *string
	PriceCents  *int64
	IsActive    *bool
	Tags        *[]string
}

// PieceListResult is one page of pieces plus the cursor for the next one.
type PieceListResult struct {
	Pieces     []PieceDTO `json:"pieces"`
	NextCursor *string    `json:"next_cursor,omitempty"`
}

func toPieceDTO(piece *models.Piece) *PieceDTO {
	if piece == nil {
		return nil
	}
	return &PieceDTO{
		ID:                     piece.ID,
		TenantID:               piece.TenantID,
		SKU:                    piece.SKU,
		Title:                  piece.Title,
		Description:            piece.Description,
		PriceCents:             piece.PriceCents,
		IsActive:               piece.IsActive,
		Tags:                   piece.Tags,
		PersonalizationEnabled: piece.Personalization != nil && piece.Personalization.Enabled,
		CreatedAt:              piece.CreatedAt,
		UpdatedAt:              piece.UpdatedAt,
	}
}
