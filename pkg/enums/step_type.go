package enums

import "fmt"

// StepType names a configurable customization step of a category flow.
type StepType string

const (
	StepTypeFlavor      StepType = "flavor"
	StepTypeEdge        StepType = "edge"
	StepTypeDough       StepType = "dough"
	StepTypeDrink       StepType = "drink"
	StepTypeAdditionals StepType = "additionals"
	StepTypeCombo       StepType = "combo"
)

var validStepTypes = []StepType{
	StepTypeFlavor,
	StepTypeEdge,
	StepTypeDough,
	StepTypeDrink,
	StepTypeAdditionals,
	StepTypeCombo,
}

// String implements fmt.Stringer.
func (v StepType) String() string {
	return string(v)
}

// IsValid reports whether the value is a known StepType.
func (v StepType) IsValid() bool {
	for _, candidate := range validStepTypes {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseStepType converts raw input into a StepType.
func ParseStepType(value string) (StepType, error) {
	for _, candidate := range validStepTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid step type %q", value)
}

// StepTypeCount is the number of distinct step types; flow traversal never
// needs more hops than this.
func StepTypeCount() int {
	return len(validStepTypes)
}
