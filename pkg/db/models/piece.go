package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Piece represents a sellable item listed by a maker.
type Piece struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID        uuid.UUID              `gorm:"column:tenant_id;type:uuid;not null"`
	SKU             string                 `gorm:"column:sku;not null"`
	Title           string                 `gorm:"column:title;not null"`
	Description     *string                `gorm:"column:description"`
	PriceCents      int64                  `gorm:"column:price_cents;not null"`
	IsActive        bool                   `gorm:"column:is_active;not null;default:true"`
	Tags            pq.StringArray         `gorm:"column:tags;type:text[]"`
	Personalization *PersonalizationConfig `gorm:"foreignKey:PieceID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
