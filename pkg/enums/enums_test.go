package enums

import "testing"

func TestParseStepType(t *testing.T) {
	got, err := ParseStepType("edge")
	if err != nil || got != StepTypeEdge {
		t.Fatalf("expected edge, got %q err=%v", got, err)
	}
	if _, err := ParseStepType("cart"); err == nil {
		t.Fatal("cart is a terminal marker, not a step type")
	}
	if StepTypeCount() != 6 {
		t.Fatalf("expected 6 step types, got %d", StepTypeCount())
	}
}

func TestNormalizeContentType(t *testing.T) {
	if got := NormalizeContentType("pizza_doughs"); got != ContentTypePizzaDoughs {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := NormalizeContentType("banner"); got != ContentTypeGeneric {
		t.Fatalf("unknown content types should be generic, got %q", got)
	}
}

func TestFlowStateValidity(t *testing.T) {
	if !FlowStateDoughSelection.IsValid() {
		t.Fatal("dough selection should be valid")
	}
	if FlowState("baking").IsValid() {
		t.Fatal("unexpected valid state")
	}
	if _, err := ParseCartLineKind("quick_add"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseOptionKind("drink"); err == nil {
		t.Fatal("drink is not a size-priced option kind")
	}
}
