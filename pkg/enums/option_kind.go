package enums

import "fmt"

// OptionKind is the attribute class a size-priced option belongs to.
type OptionKind string

const (
	OptionKindFlavor OptionKind = "flavor"
	OptionKindEdge   OptionKind = "edge"
	OptionKindDough  OptionKind = "dough"
)

var validOptionKinds = []OptionKind{
	OptionKindFlavor,
	OptionKindEdge,
	OptionKindDough,
}

// String implements fmt.Stringer.
func (v OptionKind) String() string {
	return string(v)
}

// IsValid reports whether the value is a known OptionKind.
func (v OptionKind) IsValid() bool {
	for _, candidate := range validOptionKinds {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseOptionKind converts raw input into a OptionKind.
func ParseOptionKind(value string) (OptionKind, error) {
	for _, candidate := range validOptionKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid option kind %q", value)
}
