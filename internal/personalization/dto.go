package personalization

import (
	"time"

	"github.com/google/uuid"

	"github.com/madebuy/madebuy-backend/pkg/db/models"
	"github.com/madebuy/madebuy-backend/pkg/types"
)

// ConfigDTO is the personalization config payload returned to clients. Fields
// come back in display order.
type ConfigDTO struct {
	ID             uuid.UUID                   `json:"id"`
	PieceID        uuid.UUID                   `json:"piece_id"`
	Enabled        bool                        `json:"enabled"`
	Instructions   *string                     `json:"instructions,omitempty"`
	ProcessingDays *int                        `json:"processing_days,omitempty"`
	Fields         types.PersonalizationFields `json:"fields"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

// UpsertConfigInput holds the validated payload to write a config.
type UpsertConfigInput struct {
	Enabled        bool
	Instructions   *string
	ProcessingDays *int
	Fields         types.PersonalizationFields
}

// SessionDTO is one form session's externally visible state.
type SessionDTO struct {
	ID        uuid.UUID                   `json:"id"`
	PieceID   uuid.UUID                   `json:"piece_id"`
	TenantID  uuid.UUID                   `json:"tenant_id"`
	Fields    types.PersonalizationFields `json:"fields"`
	States    map[string]FieldState       `json:"states"`
	Snapshot  ChangeEvent                 `json:"snapshot"`
	ExpiresAt time.Time                   `json:"expires_at"`
}

// Submission is a resolved form ready for cart attachment.
type Submission struct {
	Values               types.PersonalizationValues
	TotalAdjustmentCents int64
	ExtraProcessingDays  int
}

func toConfigDTO(config *models.PersonalizationConfig) *ConfigDTO {
	if config == nil {
		return nil
	}
	return &ConfigDTO{
		ID:             config.ID,
		PieceID:        config.PieceID,
		Enabled:        config.Enabled,
		Instructions:   config.Instructions,
		ProcessingDays: config.ProcessingDays,
		Fields:         config.Fields.SortedByDisplayOrder(),
		CreatedAt:      config.CreatedAt,
		UpdatedAt:      config.UpdatedAt,
	}
}

func toSessionDTO(session *FormSession) *SessionDTO {
	if session == nil {
		return nil
	}
	return &SessionDTO{
		ID:        session.ID,
		PieceID:   session.PieceID,
		TenantID:  session.TenantID,
		Fields:    session.Fields,
		States:    session.Form.States(),
		Snapshot:  session.Form.Snapshot(),
		ExpiresAt: session.ExpiresAt,
	}
}
