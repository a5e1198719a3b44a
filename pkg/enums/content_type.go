package enums

import "fmt"

// ContentType selects how an upsell prompt is presented.
type ContentType string

const (
	ContentTypeDrink       ContentType = "drink"
	ContentTypePizzaEdges  ContentType = "pizza_edges"
	ContentTypePizzaDoughs ContentType = "pizza_doughs"
	ContentTypeAdditionals ContentType = "additionals"
	ContentTypeCombo       ContentType = "combo"
	ContentTypeGeneric     ContentType = "generic"
)

var validContentTypes = []ContentType{
	ContentTypeDrink,
	ContentTypePizzaEdges,
	ContentTypePizzaDoughs,
	ContentTypeAdditionals,
	ContentTypeCombo,
	ContentTypeGeneric,
}

// String implements fmt.Stringer.
func (v ContentType) String() string {
	return string(v)
}

// IsValid reports whether the value is a known ContentType.
func (v ContentType) IsValid() bool {
	for _, candidate := range validContentTypes {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseContentType converts raw input into a ContentType.
func ParseContentType(value string) (ContentType, error) {
	for _, candidate := range validContentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid content type %q", value)
}

// NormalizeContentType maps unknown or blank values to the generic prompt.
func NormalizeContentType(value string) ContentType {
	if ct, err := ParseContentType(value); err == nil {
		return ct
	}
	return ContentTypeGeneric
}
