package enums

import "fmt"

// CartLineKind tags how a cart line was produced.
type CartLineKind string

const (
	CartLineKindItem       CartLineKind = "item"
	CartLineKindAdditional CartLineKind = "additional"
	CartLineKindDrink      CartLineKind = "drink"
	CartLineKindQuickAdd   CartLineKind = "quick_add"
)

var validCartLineKinds = []CartLineKind{
	CartLineKindItem,
	CartLineKindAdditional,
	CartLineKindDrink,
	CartLineKindQuickAdd,
}

// String implements fmt.Stringer.
func (v CartLineKind) String() string {
	return string(v)
}

// IsValid reports whether the value is a known CartLineKind.
func (v CartLineKind) IsValid() bool {
	for _, candidate := range validCartLineKinds {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseCartLineKind converts raw input into a CartLineKind.
func ParseCartLineKind(value string) (CartLineKind, error) {
	for _, candidate := range validCartLineKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart line kind %q", value)
}
