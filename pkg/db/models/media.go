package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/madebuy/madebuy-backend/pkg/enums"
)

// Media captures metadata for one uploaded personalization file.
type Media struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID  uuid.UUID         `gorm:"column:tenant_id;type:uuid;not null"`
	PieceID   uuid.UUID         `gorm:"column:piece_id;type:uuid;not null"`
	FieldID   string            `gorm:"column:field_id;not null"`
	Status    enums.MediaStatus `gorm:"column:status;type:media_status;not null;default:'pending'"`
	GCSKey    string            `gorm:"column:gcs_key;not null;unique"`
	URL       *string           `gorm:"column:url"`
	FileName  string            `gorm:"column:file_name;not null"`
	MimeType  string            `gorm:"column:mime_type;not null"`
	SizeBytes int64             `gorm:"column:size_bytes;not null"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
