package flowconfig

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardapiohub/cardapio-backend/pkg/enums"
)

func all(enums.StepType) bool { return true }

func TestIsStepEnabledFailsOpen(t *testing.T) {
	t.Parallel()

	category := uuid.New()
	cfg := Config{category: {enums.StepTypeEdge: {Enabled: false, Next: TargetCart}}}

	assert.False(t, cfg.IsStepEnabled(category, enums.StepTypeEdge))
	assert.True(t, cfg.IsStepEnabled(category, enums.StepTypeDough))
	assert.True(t, cfg.IsStepEnabled(uuid.New(), enums.StepTypeEdge))
	assert.True(t, Config(nil).IsStepEnabled(category, enums.StepTypeDrink))
}

func TestNextStepPrefersConfiguredRow(t *testing.T) {
	t.Parallel()

	category := uuid.New()
	cfg := Config{category: {
		enums.StepTypeFlavor: {Enabled: true, Next: StepTarget(enums.StepTypeDrink)},
		enums.StepTypeDrink:  {Enabled: true, Next: ""},
	}}

	assert.Equal(t, StepTarget(enums.StepTypeDrink), cfg.NextStep(category, enums.StepTypeFlavor))
	assert.Equal(t, Target(""), cfg.NextStep(category, enums.StepTypeDrink))
	assert.Equal(t, StepTarget(enums.StepTypeDough), cfg.NextStep(category, enums.StepTypeEdge))
}

func TestNavigateUnconfiguredCategoryUsesDefaultChain(t *testing.T) {
	t.Parallel()

	nav := Config{}.NavigateToNextEnabledStep(uuid.New(), enums.StepTypeFlavor, all)
	assert.Equal(t, StepTarget(enums.StepTypeEdge), nav.Target)
	assert.Empty(t, nav.Skipped)
}

func TestNavigateSkipsStepsWithoutOptions(t *testing.T) {
	t.Parallel()

	category := uuid.New()
	cfg := Config{category: {
		enums.StepTypeFlavor: {Enabled: true, Next: StepTarget(enums.StepTypeEdge)},
		enums.StepTypeEdge:   {Enabled: true, Next: StepTarget(enums.StepTypeDough)},
		enums.StepTypeDough:  {Enabled: true, Next: TargetCart},
	}}
	noEdges := func(st enums.StepType) bool { return st != enums.StepTypeEdge }

	nav := cfg.NavigateToNextEnabledStep(category, enums.StepTypeFlavor, noEdges)
	assert.Equal(t, StepTarget(enums.StepTypeDough), nav.Target)
	require.Len(t, nav.Skipped, 1)
	assert.Equal(t, Skip{Step: enums.StepTypeEdge, Reason: ReasonInapplicable}, nav.Skipped[0])
}

func TestNavigateSkipsDisabledSteps(t *testing.T) {
	t.Parallel()

	category := uuid.New()
	cfg := Config{category: {
		enums.StepTypeFlavor: {Enabled: true, Next: StepTarget(enums.StepTypeEdge)},
		enums.StepTypeEdge:   {Enabled: false, Next: StepTarget(enums.StepTypeDrink)},
		enums.StepTypeDrink:  {Enabled: false, Next: TargetCart},
	}}

	nav := cfg.NavigateToNextEnabledStep(category, enums.StepTypeFlavor, all)
	assert.Equal(t, TargetCart, nav.Target)
	assert.False(t, nav.Truncated)
	assert.Equal(t, []Skip{
		{Step: enums.StepTypeEdge, Reason: ReasonDisabled},
		{Step: enums.StepTypeDrink, Reason: ReasonDisabled},
	}, nav.Skipped)
}

func TestNavigateStopsOnNullNext(t *testing.T) {
	t.Parallel()

	category := uuid.New()
	cfg := Config{category: {enums.StepTypeFlavor: {Enabled: true}}}

	nav := cfg.NavigateToNextEnabledStep(category, enums.StepTypeFlavor, all)
	assert.True(t, nav.Target.IsTerminal())
	assert.Equal(t, "null", nav.Target.String())
}

func TestNavigateTerminatesOnCycles(t *testing.T) {
	t.Parallel()

	category := uuid.New()
	cfg := Config{category: {
		enums.StepTypeFlavor: {Enabled: true, Next: StepTarget(enums.StepTypeEdge)},
		enums.StepTypeEdge:   {Enabled: true, Next: StepTarget(enums.StepTypeFlavor)},
	}}
	noEdges := func(st enums.StepType) bool { return st != enums.StepTypeEdge }

	nav := cfg.NavigateToNextEnabledStep(category, enums.StepTypeFlavor, noEdges)
	assert.Equal(t, TargetCart, nav.Target)
	assert.True(t, nav.Truncated)
	assert.LessOrEqual(t, len(nav.Skipped), enums.StepTypeCount())
}

func TestNavigateTerminatesOnLongCycleOfDisabledSteps(t *testing.T) {
	t.Parallel()

	category := uuid.New()
	cfg := Config{category: {
		enums.StepTypeEdge:        {Enabled: false, Next: StepTarget(enums.StepTypeDough)},
		enums.StepTypeDough:       {Enabled: false, Next: StepTarget(enums.StepTypeDrink)},
		enums.StepTypeDrink:       {Enabled: false, Next: StepTarget(enums.StepTypeAdditionals)},
		enums.StepTypeAdditionals: {Enabled: false, Next: StepTarget(enums.StepTypeEdge)},
	}}

	nav := cfg.NavigateToNextEnabledStep(category, enums.StepTypeFlavor, all)
	assert.Equal(t, TargetCart, nav.Target)
	assert.True(t, nav.Truncated)
}

func TestParseTarget(t *testing.T) {
	t.Parallel()

	ptr := func(s string) *string { return &s }
	assert.Equal(t, Target(""), ParseTarget(nil))
	assert.Equal(t, TargetCart, ParseTarget(ptr("cart")))
	assert.Equal(t, StepTarget(enums.StepTypeDough), ParseTarget(ptr("dough")))
	assert.Equal(t, Target(""), ParseTarget(ptr("checkout")))

	st, ok := StepTarget(enums.StepTypeEdge).Step()
	assert.True(t, ok)
	assert.Equal(t, enums.StepTypeEdge, st)
	_, ok = TargetCart.Step()
	assert.False(t, ok)
}
