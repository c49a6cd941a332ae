package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/madebuy/madebuy-backend/internal/personalization"
	"github.com/madebuy/madebuy-backend/pkg/db/models"
	"github.com/madebuy/madebuy-backend/pkg/types"
)

// CartDTO represents a buyer's cart payload.
type CartDTO struct {
	ID            uuid.UUID     `json:"id"`
	TenantID      uuid.UUID     `json:"tenant_id"`
	BuyerRef      string        `json:"buyer_ref"`
	Status        string        `json:"status"`
	Currency      string        `json:"currency"`
	Items         []CartItemDTO `json:"items"`
	SubtotalCents int64         `json:"subtotal_cents"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// CartItemDTO represents one cart line with its personalization snapshot.
type CartItemDTO struct {
	ID                        uuid.UUID                   `json:"id"`
	PieceID                   uuid.UUID                   `json:"piece_id"`
	Quantity                  int                         `json:"quantity"`
	BasePriceCents            int64                       `json:"base_price_cents"`
	Personalization           types.PersonalizationValues `json:"personalization,omitempty"`
	PersonalizationTotalCents int64                       `json:"personalization_total_cents"`
	UnitPriceCents            int64                       `json:"unit_price_cents"`
	LineSubtotalCents         int64                       `json:"line_subtotal_cents"`
	ExtraProcessingDays       int                         `json:"extra_processing_days"`
	CreatedAt                 time.Time                   `json:"created_at"`
}

// AddItemInput holds the validated payload to attach a piece to a cart.
// Personalized pieces carry either a form session id or the raw value map.
type AddItemInput struct {
	BuyerRef  string
	PieceID   uuid.UUID
	Quantity  int
	SessionID *uuid.UUID
	Values    map[string]any
	Files     map[string]*personalization.FileInput
}

func toCartDTO(record *models.CartRecord) *CartDTO {
	if record == nil {
		return nil
	}
	dto := &CartDTO{
		ID:        record.ID,
		TenantID:  record.TenantID,
		BuyerRef:  record.BuyerRef,
		Status:    record.Status.String(),
		Currency:  record.Currency,
		Items:     make([]CartItemDTO, 0, len(record.Items)),
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
	for i := range record.Items {
		item := toCartItemDTO(&record.Items[i])
		dto.Items = append(dto.Items, *item)
		dto.SubtotalCents += item.LineSubtotalCents
	}
	return dto
}

func toCartItemDTO(item *models.CartItem) *CartItemDTO {
	if item == nil {
		return nil
	}
	return &CartItemDTO{
		ID:                        item.ID,
		PieceID:                   item.PieceID,
		Quantity:                  item.Quantity,
		BasePriceCents:            item.BasePriceCents,
		Personalization:           item.Personalization,
		PersonalizationTotalCents: item.PersonalizationTotalCents,
		UnitPriceCents:            item.UnitPriceCents,
		LineSubtotalCents:         item.LineSubtotalCents,
		ExtraProcessingDays:       item.ExtraProcessingDays,
		CreatedAt:                 item.CreatedAt,
	}
}
