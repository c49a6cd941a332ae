package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/madebuy/madebuy-backend/pkg/types"
)

// CartItem persists one piece-level line tied to a CartRecord. The
// personalization snapshot and its computed total are immutable once written.
type CartItem struct {
	ID                         uuid.UUID                   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID                     uuid.UUID                   `gorm:"column:cart_id;type:uuid;not null"`
	PieceID                    uuid.UUID                   `gorm:"column:piece_id;type:uuid;not null"`
	Quantity                   int                         `gorm:"column:quantity;not null"`
	BasePriceCents             int64                       `gorm:"column:base_price_cents;not null"`
	Personalization            types.PersonalizationValues `gorm:"column:personalization;type:jsonb;serializer:json"`
	PersonalizationTotalCents  int64                       `gorm:"column:personalization_total_cents;not null;default:0"`
	UnitPriceCents             int64                       `gorm:"column:unit_price_cents;not null"`
	LineSubtotalCents          int64                       `gorm:"column:line_subtotal_cents;not null"`
	ExtraProcessingDays        int                         `gorm:"column:extra_processing_days;not null;default:0"`
	CreatedAt                  time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                  time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}
