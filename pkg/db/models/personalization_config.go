package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/madebuy/madebuy-backend/pkg/types"
)

// PersonalizationConfig holds the seller-defined customization schema for one
// piece. The storefront reads it at purchase time; a cart line freezes the
// resolved values so later edits never touch existing lines.
type PersonalizationConfig struct {
	ID             uuid.UUID                   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PieceID        uuid.UUID                   `gorm:"column:piece_id;type:uuid;not null;unique"`
	Enabled        bool                        `gorm:"column:enabled;not null;default:false"`
	Instructions   *string                     `gorm:"column:instructions"`
	ProcessingDays *int                        `gorm:"column:processing_days"`
	Fields         types.PersonalizationFields `gorm:"column:fields;type:jsonb;serializer:json"`
	CreatedAt      time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}
