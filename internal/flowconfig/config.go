// Package flowconfig resolves the per-category step graph of the
// customization flow.
package flowconfig

import (
	"github.com/google/uuid"

	"github.com/cardapiohub/cardapio-backend/pkg/enums"
)

// TargetCart is the terminal marker of a step chain.
const TargetCart Target = "cart"

// Target is where a step leads: a step type, "cart", or empty for null.
type Target string

// ParseTarget maps a stored next_step_id to a Target. Unknown values are
// treated as null.
func ParseTarget(raw *string) Target {
	if raw == nil {
		return ""
	}
	if *raw == string(TargetCart) {
		return TargetCart
	}
	if st, err := enums.ParseStepType(*raw); err == nil {
		return Target(st)
	}
	return ""
}

// StepTarget is the Target pointing at st.
func StepTarget(st enums.StepType) Target {
	return Target(st)
}

// IsTerminal reports whether the target ends the chain ("cart" or null).
func (t Target) IsTerminal() bool {
	return t == "" || t == TargetCart
}

// Step returns the step type of a non-terminal target.
func (t Target) Step() (enums.StepType, bool) {
	if t.IsTerminal() {
		return "", false
	}
	st := enums.StepType(t)
	return st, st.IsValid()
}

func (t Target) String() string {
	if t == "" {
		return "null"
	}
	return string(t)
}

// Step is one configured step of a category.
type Step struct {
	Enabled bool   `json:"enabled"`
	Next    Target `json:"next_step_id"`
}

// Config maps category id to the configured steps of that category.
type Config map[uuid.UUID]map[enums.StepType]Step

// DefaultChain is followed for steps that have no configured row.
var DefaultChain = map[enums.StepType]Target{
	enums.StepTypeFlavor:      StepTarget(enums.StepTypeEdge),
	enums.StepTypeEdge:        StepTarget(enums.StepTypeDough),
	enums.StepTypeDough:       StepTarget(enums.StepTypeDrink),
	enums.StepTypeDrink:       TargetCart,
	enums.StepTypeAdditionals: TargetCart,
	enums.StepTypeCombo:       TargetCart,
}

func (c Config) lookup(categoryID uuid.UUID, st enums.StepType) (Step, bool) {
	steps, ok := c[categoryID]
	if !ok {
		return Step{}, false
	}
	step, ok := steps[st]
	return step, ok
}

// IsStepEnabled defaults to true when the category has no row for st.
func (c Config) IsStepEnabled(categoryID uuid.UUID, st enums.StepType) bool {
	step, ok := c.lookup(categoryID, st)
	if !ok {
		return true
	}
	return step.Enabled
}

// NextStep returns the successor of from. A configured row wins, even when
// its next is null; otherwise DefaultChain applies.
func (c Config) NextStep(categoryID uuid.UUID, from enums.StepType) Target {
	if step, ok := c.lookup(categoryID, from); ok {
		return step.Next
	}
	if next, ok := DefaultChain[from]; ok {
		return next
	}
	return TargetCart
}

// Skip reasons reported by NavigateToNextEnabledStep.
const (
	ReasonDisabled     = "disabled"
	ReasonInapplicable = "inapplicable"
	ReasonCycle        = "cycle"
)

// Skip records a step passed over during navigation.
type Skip struct {
	Step   enums.StepType `json:"step"`
	Reason string         `json:"reason"`
}

// Navigation is the result of NavigateToNextEnabledStep.
type Navigation struct {
	Target  Target
	Skipped []Skip
	// Truncated is set when a cycle or the hop bound stopped traversal.
	Truncated bool
}

// NavigateToNextEnabledStep follows NextStep from `from` until it reaches a
// step that is enabled and applicable, or a terminal target. Revisiting a
// step or exceeding one hop per step type ends traversal at the cart.
func (c Config) NavigateToNextEnabledStep(categoryID uuid.UUID, from enums.StepType, applicable func(enums.StepType) bool) Navigation {
	var nav Navigation
	visited := map[enums.StepType]bool{from: true}
	current := from

	for hops := 0; hops < enums.StepTypeCount(); hops++ {
		next := c.NextStep(categoryID, current)
		if next.IsTerminal() {
			nav.Target = next
			return nav
		}
		st, ok := next.Step()
		if !ok {
			nav.Target = ""
			return nav
		}
		if visited[st] {
			nav.Skipped = append(nav.Skipped, Skip{Step: st, Reason: ReasonCycle})
			nav.Target = TargetCart
			nav.Truncated = true
			return nav
		}
		visited[st] = true

		switch {
		case !c.IsStepEnabled(categoryID, st):
			nav.Skipped = append(nav.Skipped, Skip{Step: st, Reason: ReasonDisabled})
		case applicable != nil && !applicable(st):
			nav.Skipped = append(nav.Skipped, Skip{Step: st, Reason: ReasonInapplicable})
		default:
			nav.Target = next
			return nav
		}
		current = st
	}

	nav.Target = TargetCart
	nav.Truncated = true
	return nav
}
