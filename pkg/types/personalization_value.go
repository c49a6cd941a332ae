package types

// PersonalizationValue is one resolved buyer input for one field, captured at
// cart-add time. Once attached to a cart item the snapshot is never mutated.
type PersonalizationValue struct {
	FieldID              string  `json:"field_id"`
	FieldName            string  `json:"field_name"`
	Value                any     `json:"value"`
	FileURL              *string `json:"file_url,omitempty"`
	FileName             *string `json:"file_name,omitempty"`
	PriceAdjustmentCents int64   `json:"price_adjustment_cents"`
}

// PersonalizationValues is the ordered set of resolved inputs for a cart line.
type PersonalizationValues []PersonalizationValue

// TotalAdjustmentCents sums the per-field adjustments already computed on each
// value. Per-field rounding happened upstream; this is a plain sum.
func (vs PersonalizationValues) TotalAdjustmentCents() int64 {
	var total int64
	for _, v := range vs {
		total += v.PriceAdjustmentCents
	}
	return total
}
