package types

import (
	"sort"

	"github.com/madebuy/madebuy-backend/pkg/enums"
)

// PersonalizationField describes one customizable option on a piece. The set
// of constraint fields that apply depends on Type; the rest stay nil.
type PersonalizationField struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Type         enums.FieldType `json:"type"`
	Required     bool            `json:"required"`
	DisplayOrder int             `json:"display_order"`

	// text / textarea
	MaxLength *int `json:"max_length,omitempty"`

	// number
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Step *float64 `json:"step,omitempty"`

	// select
	Options []string `json:"options,omitempty"`

	// date, ISO-8601 date strings (YYYY-MM-DD)
	MinDate *string `json:"min_date,omitempty"`
	MaxDate *string `json:"max_date,omitempty"`

	// file
	AcceptedFileTypes []string `json:"accepted_file_types,omitempty"`
	MaxFileSizeMB     *int     `json:"max_file_size_mb,omitempty"`

	// pricing
	PriceAdjustment     *float64                  `json:"price_adjustment,omitempty"`
	PriceAdjustmentType enums.PriceAdjustmentType `json:"price_adjustment_type,omitempty"`
}

// PersonalizationFields is the ordered field list stored on a config row.
type PersonalizationFields []PersonalizationField

// SortedByDisplayOrder returns a copy ordered by DisplayOrder, ties broken by
// the original position in the list.
func (fs PersonalizationFields) SortedByDisplayOrder() PersonalizationFields {
	out := make(PersonalizationFields, len(fs))
	copy(out, fs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DisplayOrder < out[j].DisplayOrder
	})
	return out
}

// ByID returns the field with the given id, or nil when absent.
func (fs PersonalizationFields) ByID(id string) *PersonalizationField {
	for i := range fs {
		if fs[i].ID == id {
			return &fs[i]
		}
	}
	return nil
}
