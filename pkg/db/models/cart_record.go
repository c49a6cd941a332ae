package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/madebuy/madebuy-backend/pkg/enums"
)

// CartRecord is one buyer's open cart within a tenant's storefront. The buyer
// reference is an opaque storefront session identifier; accounts are handled
// elsewhere.
type CartRecord struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID    uuid.UUID        `gorm:"column:tenant_id;type:uuid;not null"`
	BuyerRef    string           `gorm:"column:buyer_ref;not null"`
	Status      enums.CartStatus `gorm:"column:status;type:cart_status;not null;default:'active'"`
	Currency    string           `gorm:"column:currency;not null;default:'USD'"`
	Items       []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	ConvertedAt *time.Time       `gorm:"column:converted_at"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
