package flow

import (
	"context"

	"github.com/cardapiohub/cardapio-backend/internal/catalog"
	"github.com/cardapiohub/cardapio-backend/pkg/enums"
)

// step is one optional customization step. Load fetches the step's data once
// per session and reports whether the customer has anything to choose.
type step interface {
	Type() enums.StepType
	State() enums.FlowState
	Load(ctx context.Context, s *session, reader catalog.Reader) (bool, error)
}

// defaultSteps are the steps the primary flow can land on. Combo prompts are
// only reachable through the upsell sequencer.
func defaultSteps() []step {
	return []step{
		optionStep{step: enums.StepTypeEdge, kind: enums.OptionKindEdge, state: enums.FlowStateEdgeSelection},
		optionStep{step: enums.StepTypeDough, kind: enums.OptionKindDough, state: enums.FlowStateDoughSelection},
		drinkStep{},
		additionalsStep{},
	}
}

type optionStep struct {
	step  enums.StepType
	kind  enums.OptionKind
	state enums.FlowState
}

func (o optionStep) Type() enums.StepType   { return o.step }
func (o optionStep) State() enums.FlowState { return o.state }

func (o optionStep) Load(ctx context.Context, s *session, reader catalog.Reader) (bool, error) {
	if opts, ok := s.options[o.kind]; ok {
		return len(opts) > 0, nil
	}
	opts, err := reader.FetchOptionsForSize(ctx, s.categoryID, s.size.ID, o.kind)
	if err != nil {
		s.options[o.kind] = []catalog.PriceableOption{}
		return false, err
	}
	s.options[o.kind] = opts
	return len(opts) > 0, nil
}

type drinkStep struct{}

func (drinkStep) Type() enums.StepType   { return enums.StepTypeDrink }
func (drinkStep) State() enums.FlowState { return enums.FlowStateDrinkSelection }

func (drinkStep) Load(ctx context.Context, s *session, reader catalog.Reader) (bool, error) {
	if s.drinks != nil {
		return len(s.drinks) > 0, nil
	}
	drinks, err := reader.FetchDrinkOptions(ctx, s.storeID, s.categoryID)
	if err != nil {
		s.drinks = []catalog.Product{}
		return false, err
	}
	if drinks == nil {
		drinks = []catalog.Product{}
	}
	s.drinks = drinks
	return len(drinks) > 0, nil
}

type additionalsStep struct{}

func (additionalsStep) Type() enums.StepType   { return enums.StepTypeAdditionals }
func (additionalsStep) State() enums.FlowState { return enums.FlowStateAdditionalsSelection }

func (additionalsStep) Load(ctx context.Context, s *session, reader catalog.Reader) (bool, error) {
	if err := s.loadAdditionals(ctx, reader); err != nil {
		return false, err
	}
	return len(s.additionals) > 0, nil
}
