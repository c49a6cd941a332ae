package enums

import "fmt"

// PriceAdjustmentType describes how a field's price adjustment is applied.
type PriceAdjustmentType string

const (
	// PriceAdjustmentFixed adds the configured amount in minor currency units.
	PriceAdjustmentFixed PriceAdjustmentType = "fixed"
	// PriceAdjustmentPercentage adds a percentage of the piece's base price.
	PriceAdjustmentPercentage PriceAdjustmentType = "percentage"
)

var validPriceAdjustmentTypes = []PriceAdjustmentType{
	PriceAdjustmentFixed,
	PriceAdjustmentPercentage,
}

// String implements fmt.Stringer.
func (p PriceAdjustmentType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PriceAdjustmentType.
func (p PriceAdjustmentType) IsValid() bool {
	for _, candidate := range validPriceAdjustmentTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePriceAdjustmentType converts raw input into a PriceAdjustmentType.
func ParsePriceAdjustmentType(value string) (PriceAdjustmentType, error) {
	for _, candidate := range validPriceAdjustmentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid price adjustment type %q", value)
}
