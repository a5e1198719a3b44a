package enums

import "fmt"

// FlowState is the position of a customization session in the flow.
type FlowState string

const (
	FlowStateIdle                 FlowState = "idle"
	FlowStateSizeChosen           FlowState = "size_chosen"
	FlowStateFlavorSelection      FlowState = "flavor_selection"
	FlowStateEdgeSelection        FlowState = "edge_selection"
	FlowStateDoughSelection       FlowState = "dough_selection"
	FlowStateDrinkSelection       FlowState = "drink_selection"
	FlowStateAdditionalsSelection FlowState = "additionals_selection"
	FlowStateCart                 FlowState = "cart"
)

var validFlowStates = []FlowState{
	FlowStateIdle,
	FlowStateSizeChosen,
	FlowStateFlavorSelection,
	FlowStateEdgeSelection,
	FlowStateDoughSelection,
	FlowStateDrinkSelection,
	FlowStateAdditionalsSelection,
	FlowStateCart,
}

// String implements fmt.Stringer.
func (v FlowState) String() string {
	return string(v)
}

// IsValid reports whether the value is a known FlowState.
func (v FlowState) IsValid() bool {
	for _, candidate := range validFlowStates {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseFlowState converts raw input into a FlowState.
func ParseFlowState(value string) (FlowState, error) {
	for _, candidate := range validFlowStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid flow state %q", value)
}
