package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant represents one maker's isolated store within the platform.
type Tenant struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug        string    `gorm:"column:slug;not null;unique"`
	DisplayName string    `gorm:"column:display_name;not null"`
	Currency    string    `gorm:"column:currency;not null;default:'USD'"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
