package enums

import "fmt"

// DiscountType distinguishes how a line or extra discount value is applied.
// Percent discounts scale the line amount; fixed discounts subtract an
// absolute amount per unit.
type DiscountType string

const (
	DiscountTypePercent DiscountType = "percent"
	DiscountTypeFixed   DiscountType = "fixed"
)

var validDiscountTypes = []DiscountType{
	DiscountTypePercent,
	DiscountTypeFixed,
}

// String implements fmt.Stringer.
func (d DiscountType) String() string {
	return string(d)
}

// IsValid reports whether the discount type is recognized.
func (d DiscountType) IsValid() bool {
	for _, candidate := range validDiscountTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDiscountType converts a raw string into a DiscountType. An empty
// value defaults to percent, matching how stored quotations treat an
// unset type.
func ParseDiscountType(value string) (DiscountType, error) {
	if value == "" {
		return DiscountTypePercent, nil
	}
	for _, candidate := range validDiscountTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount type %q", value)
}
