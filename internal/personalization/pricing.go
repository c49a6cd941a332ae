package personalization

import (
	"github.com/shopspring/decimal"

	"github.com/madebuy/madebuy-backend/pkg/enums"
	"github.com/madebuy/madebuy-backend/pkg/types"
)

var oneHundred = decimal.NewFromInt(100)

// FieldContribution computes one field's price contribution in minor units.
// Fixed adjustments apply directly; percentage adjustments apply against the
// piece's base price. Each contribution is rounded half-up on its own.
func FieldContribution(field types.PersonalizationField, basePriceCents int64) int64 {
	if field.PriceAdjustment == nil {
		return 0
	}
	adj := decimal.NewFromFloat(*field.PriceAdjustment)

	switch field.PriceAdjustmentType {
	case enums.PriceAdjustmentPercentage:
		return decimal.NewFromInt(basePriceCents).
			Mul(adj).
			Div(oneHundred).
			Round(0).
			IntPart()
	case enums.PriceAdjustmentFixed:
		return adj.Round(0).IntPart()
	default:
		return 0
	}
}

// TotalAdjustment sums the contributions of every field holding a non-empty
// value. Contributions are rounded per field and summed afterwards; the
// ordering matters for cent-exact totals and must not be collapsed into a
// single final rounding step.
func TotalAdjustment(fields types.PersonalizationFields, values map[string]any, files map[string]*FileInput, basePriceCents int64) int64 {
	var total int64
	for _, field := range fields {
		if isEmptyValue(field.Type, values[field.ID], files[field.ID]) {
			continue
		}
		total += FieldContribution(field, basePriceCents)
	}
	return total
}
