// Package flow drives one customer through the configured customization steps
// of a product and emits the finished cart lines.
package flow

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cardapiohub/cardapio-backend/internal/cart"
	"github.com/cardapiohub/cardapio-backend/internal/catalog"
	"github.com/cardapiohub/cardapio-backend/internal/flowconfig"
	"github.com/cardapiohub/cardapio-backend/internal/notify"
	"github.com/cardapiohub/cardapio-backend/pkg/enums"
	pkgerrors "github.com/cardapiohub/cardapio-backend/pkg/errors"
	"github.com/cardapiohub/cardapio-backend/pkg/logger"
	"github.com/cardapiohub/cardapio-backend/pkg/metrics"
)

// StoreGuard refuses new customizations while a store is closed.
type StoreGuard interface {
	EnsureOpen(ctx context.Context, storeID uuid.UUID) error
}

// Deps are the collaborators shared by every controller.
type Deps struct {
	Catalog          catalog.Reader
	Prices           catalog.PriceResolver
	FlowConfig       flowconfig.Source
	Stores           StoreGuard
	Cart             cart.Sink
	Notifier         notify.Notifier
	Metrics          *metrics.FlowMetrics
	Logger           *logger.Logger
	MaxAdditionalQty int
}

func (d Deps) validate() error {
	if d.Catalog == nil {
		return fmt.Errorf("catalog reader required")
	}
	if d.FlowConfig == nil {
		return fmt.Errorf("flow config source required")
	}
	if d.Stores == nil {
		return fmt.Errorf("store guard required")
	}
	if d.Cart == nil {
		return fmt.Errorf("cart sink required")
	}
	if d.Notifier == nil {
		return fmt.Errorf("notifier required")
	}
	return nil
}

// Outcome reports where a transition left the controller.
type Outcome struct {
	State     enums.FlowState   `json:"state"`
	Skipped   []flowconfig.Skip `json:"skipped,omitempty"`
	Finalized *Finalized        `json:"finalized,omitempty"`
}

// Controller is the state machine of one customer's customization. It is not
// safe for concurrent use; callers serialize access per session.
type Controller struct {
	deps      Deps
	steps     map[enums.StepType]step
	sessionID uuid.UUID
	storeID   uuid.UUID
	state     enums.FlowState
	current   *session
}

func NewController(deps Deps, sessionID, storeID uuid.UUID) (*Controller, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewFlowMetrics(nil)
	}
	if deps.Prices == nil {
		deps.Prices = catalog.NewResolver(deps.Catalog)
	}
	registry := make(map[enums.StepType]step)
	for _, st := range defaultSteps() {
		registry[st.Type()] = st
	}
	c := &Controller{
		deps:      deps,
		steps:     registry,
		sessionID: sessionID,
		storeID:   storeID,
	}
	c.reset()
	return c, nil
}

func (c *Controller) State() enums.FlowState {
	return c.state
}

func (c *Controller) SessionID() uuid.UUID {
	return c.sessionID
}

func (c *Controller) reset() {
	c.state = enums.FlowStateIdle
	c.current = newSession(c.storeID, c.deps.MaxAdditionalQty)
}

func (c *Controller) logCtx(ctx context.Context) context.Context {
	logg := c.deps.Logger
	ctx = logg.WithSessionID(ctx, c.sessionID)
	ctx = logg.WithStoreID(ctx, c.storeID)
	if c.current != nil && c.current.categoryID != uuid.Nil {
		ctx = logg.WithCategoryID(ctx, c.current.categoryID)
	}
	return logg.WithField(ctx, "state", c.state.String())
}

func (c *Controller) requireState(allowed ...enums.FlowState) error {
	for _, st := range allowed {
		if c.state == st {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, "operation not allowed in current state").
		WithDetails(map[string]any{"state": c.state, "allowed": allowed})
}

func (c *Controller) requireActive() error {
	if c.state == enums.FlowStateIdle || c.state == enums.FlowStateCart {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "no customization in progress").
			WithDetails(map[string]any{"state": c.state})
	}
	return nil
}

// ChooseSize starts a customization for sizeID of categoryID. Any selection in
// progress is discarded. A closed store refuses the transition and nothing
// changes.
func (c *Controller) ChooseSize(ctx context.Context, categoryID, sizeID uuid.UUID) (*Outcome, error) {
	if err := c.deps.Stores.EnsureOpen(ctx, c.storeID); err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeStoreClosed) {
			c.deps.Notifier.Error(ctx, "A loja está fechada no momento")
		}
		return nil, err
	}

	category, err := c.deps.Catalog.FetchCategory(ctx, c.storeID, categoryID)
	if err != nil {
		return nil, err
	}
	size, err := c.deps.Catalog.FetchSize(ctx, categoryID, sizeID)
	if err != nil {
		return nil, err
	}

	if c.state != enums.FlowStateIdle {
		c.deps.Metrics.IncSession("restarted")
	}
	c.reset()
	s := c.current
	s.categoryID = categoryID
	s.category = category
	s.size = size
	s.selection.Reset(size)
	c.state = enums.FlowStateSizeChosen
	c.deps.Metrics.IncSession("started")
	c.deps.Logger.Info(c.logCtx(ctx), "flow.size_chosen")

	cfg, err := c.deps.FlowConfig.FetchFlowConfig(ctx, c.storeID)
	if err != nil {
		c.deps.Logger.Error(c.logCtx(ctx), "flow.config.fetch_failed", err)
		cfg = flowconfig.Config{}
	}
	s.config = cfg

	set, err := catalog.Prefetch(ctx, c.deps.Catalog, categoryID, sizeID)
	if err != nil {
		c.deps.Logger.Error(c.logCtx(ctx), "flow.prefetch_failed", err)
	}
	for kind, opts := range set {
		s.options[kind] = opts
	}

	c.state = enums.FlowStateFlavorSelection
	return &Outcome{State: c.state}, nil
}

// ToggleFlavor adds or removes a flavor offered for the chosen size.
func (c *Controller) ToggleFlavor(ctx context.Context, optionID uuid.UUID) error {
	if err := c.requireState(enums.FlowStateFlavorSelection); err != nil {
		return err
	}
	opt, ok := catalog.FindOption(c.current.options[enums.OptionKindFlavor], optionID)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeDataUnavailable, "flavor not offered for this size").
			WithDetails(map[string]any{"option_id": optionID.String()})
	}
	if !c.current.selection.HasFlavor(optionID) {
		priced, err := c.priced(ctx, enums.OptionKindFlavor, opt)
		if err != nil {
			return err
		}
		opt = priced
	}
	if err := c.current.selection.ToggleFlavor(opt); err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeLimitExceeded) {
			c.deps.Notifier.Error(ctx, fmt.Sprintf("Você pode escolher até %d sabores", c.current.selection.MaxFlavors()))
		}
		return err
	}
	return nil
}

// SetNotes replaces the free-text notes of the item.
func (c *Controller) SetNotes(notes string) error {
	if err := c.requireActive(); err != nil {
		return err
	}
	c.current.selection.SetNotes(notes)
	return nil
}

// ChooseEdge selects an edge offered for the size; nil means no edge.
func (c *Controller) ChooseEdge(ctx context.Context, optionID *uuid.UUID) error {
	if err := c.requireState(enums.FlowStateEdgeSelection); err != nil {
		return err
	}
	return c.chooseOption(ctx, enums.OptionKindEdge, optionID, c.current.selection.SetEdge)
}

// ChooseDough selects a dough offered for the size; nil means the default dough.
func (c *Controller) ChooseDough(ctx context.Context, optionID *uuid.UUID) error {
	if err := c.requireState(enums.FlowStateDoughSelection); err != nil {
		return err
	}
	return c.chooseOption(ctx, enums.OptionKindDough, optionID, c.current.selection.SetDough)
}

func (c *Controller) chooseOption(ctx context.Context, kind enums.OptionKind, optionID *uuid.UUID, set func(*catalog.PriceableOption)) error {
	if optionID == nil {
		set(nil)
		return nil
	}
	opt, ok := catalog.FindOption(c.current.options[kind], *optionID)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeDataUnavailable, "option not offered for this size").
			WithDetails(map[string]any{"kind": kind, "option_id": optionID.String()})
	}
	priced, err := c.priced(ctx, kind, opt)
	if err != nil {
		return err
	}
	set(&priced)
	return nil
}

// priced replaces the listed price of opt with the one resolved for the
// chosen size.
func (c *Controller) priced(ctx context.Context, kind enums.OptionKind, opt catalog.PriceableOption) (catalog.PriceableOption, error) {
	s := c.current
	price, err := c.deps.Prices.ResolvePrice(ctx, s.categoryID, s.size.ID, kind, opt.ID)
	if err != nil {
		c.deps.Logger.Warn(c.deps.Logger.WithField(c.logCtx(ctx), "option_id", opt.ID.String()), "flow.price_unresolved")
		return opt, err
	}
	return price.Apply(opt), nil
}

// ToggleAdditional adds an add-on with quantity one, or removes it.
func (c *Controller) ToggleAdditional(ctx context.Context, additionalID uuid.UUID) error {
	item, err := c.findAdditional(ctx, additionalID)
	if err != nil {
		return err
	}
	c.current.selection.ToggleAdditional(item)
	return nil
}

// ChangeAdditionalQuantity moves an add-on's quantity by delta.
func (c *Controller) ChangeAdditionalQuantity(ctx context.Context, additionalID uuid.UUID, delta int) error {
	item, err := c.findAdditional(ctx, additionalID)
	if err != nil {
		return err
	}
	c.current.selection.ChangeAdditionalQuantity(item, delta)
	return nil
}

func (c *Controller) findAdditional(ctx context.Context, id uuid.UUID) (catalog.Additional, error) {
	if err := c.requireActive(); err != nil {
		return catalog.Additional{}, err
	}
	if err := c.current.loadAdditionals(ctx, c.deps.Catalog); err != nil {
		c.deps.Logger.Error(c.logCtx(ctx), "flow.additionals.fetch_failed", err)
	}
	item, ok := catalog.FindAdditional(c.current.additionals, id)
	if !ok {
		return catalog.Additional{}, pkgerrors.New(pkgerrors.CodeDataUnavailable, "additional not offered").
			WithDetails(map[string]any{"additional_id": id.String()})
	}
	return item, nil
}

// Advance leaves the current step for the next enabled and applicable one,
// finalizing when the chain is exhausted. Leaving the flavor step requires at
// least one flavor and freezes the calculated price.
func (c *Controller) Advance(ctx context.Context) (*Outcome, error) {
	switch c.state {
	case enums.FlowStateFlavorSelection:
		if len(c.current.selection.Flavors()) == 0 {
			c.deps.Notifier.Error(ctx, "Selecione pelo menos um sabor")
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one flavor is required")
		}
		price := c.current.selection.Total()
		c.current.calculatedPrice = &price
		return c.moveFrom(ctx, enums.StepTypeFlavor)
	case enums.FlowStateEdgeSelection:
		return c.moveFrom(ctx, enums.StepTypeEdge)
	case enums.FlowStateDoughSelection:
		return c.moveFrom(ctx, enums.StepTypeDough)
	case enums.FlowStateAdditionalsSelection:
		return c.moveFrom(ctx, enums.StepTypeAdditionals)
	case enums.FlowStateDrinkSelection:
		return c.finalize(ctx)
	default:
		return nil, c.requireState(
			enums.FlowStateFlavorSelection,
			enums.FlowStateEdgeSelection,
			enums.FlowStateDoughSelection,
			enums.FlowStateAdditionalsSelection,
			enums.FlowStateDrinkSelection,
		)
	}
}

// ChooseDrink records the drink (nil skips it) and always finalizes.
func (c *Controller) ChooseDrink(ctx context.Context, productID *uuid.UUID) (*Outcome, error) {
	if err := c.requireState(enums.FlowStateDrinkSelection); err != nil {
		return nil, err
	}
	c.current.drink = nil
	if productID != nil {
		drink, ok := catalog.FindProduct(c.current.drinks, *productID)
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeDataUnavailable, "drink not offered").
				WithDetails(map[string]any{"product_id": productID.String()})
		}
		c.current.drink = &drink
	}
	return c.finalize(ctx)
}

// Cancel abandons the customization and returns to idle without touching
// the cart.
func (c *Controller) Cancel(ctx context.Context) {
	if c.abandon(ctx, "flow.cancelled") {
		c.deps.Metrics.IncSession("cancelled")
	}
}

// Expire drops the customization of an idle session. The session registry
// counts the expiry, so no outcome is recorded here.
func (c *Controller) Expire(ctx context.Context) {
	c.abandon(ctx, "flow.expired")
}

func (c *Controller) abandon(ctx context.Context, event string) bool {
	if c.state == enums.FlowStateIdle {
		return false
	}
	c.deps.Logger.Info(c.logCtx(ctx), event)
	c.reset()
	return true
}

func (c *Controller) moveFrom(ctx context.Context, from enums.StepType) (*Outcome, error) {
	s := c.current
	nav := s.config.NavigateToNextEnabledStep(s.categoryID, from, func(st enums.StepType) bool {
		return c.applicable(ctx, st)
	})
	for _, skip := range nav.Skipped {
		c.deps.Metrics.IncStepSkipped(skip.Step.String(), skip.Reason)
		c.deps.Logger.Info(c.deps.Logger.WithFields(c.logCtx(ctx), map[string]any{
			"step":   skip.Step.String(),
			"reason": skip.Reason,
		}), "flow.step_skipped")
	}
	if nav.Truncated {
		c.deps.Logger.Warn(c.logCtx(ctx), "flow.navigation.truncated")
	}

	next, ok := nav.Target.Step()
	if !ok {
		out, err := c.finalize(ctx)
		if out != nil {
			out.Skipped = nav.Skipped
		}
		return out, err
	}
	c.state = c.steps[next].State()
	c.deps.Logger.Info(c.logCtx(ctx), "flow.step_entered")
	return &Outcome{State: c.state, Skipped: nav.Skipped}, nil
}

// applicable loads a step's data and reports whether it has options. Fetch
// failures count as no options.
func (c *Controller) applicable(ctx context.Context, st enums.StepType) bool {
	impl, ok := c.steps[st]
	if !ok {
		return false
	}
	has, err := impl.Load(ctx, c.current, c.deps.Catalog)
	if err != nil {
		c.deps.Logger.Error(c.deps.Logger.WithField(c.logCtx(ctx), "step", st.String()), "flow.step.fetch_failed", err)
		return false
	}
	return has
}

// Snapshot describes the controller for the current step.
func (c *Controller) Snapshot() View {
	s := c.current
	view := View{
		SessionID:       c.sessionID,
		StoreID:         c.storeID,
		State:           c.state,
		Selection:       s.selection.Snapshot(),
		CalculatedPrice: s.calculatedPrice,
		Drink:           s.drink,
	}
	if s.categoryID != uuid.Nil {
		id := s.categoryID
		view.CategoryID = &id
	}
	switch c.state {
	case enums.FlowStateFlavorSelection:
		view.Options = s.options[enums.OptionKindFlavor]
	case enums.FlowStateEdgeSelection:
		view.Options = s.options[enums.OptionKindEdge]
	case enums.FlowStateDoughSelection:
		view.Options = s.options[enums.OptionKindDough]
	case enums.FlowStateDrinkSelection:
		view.Products = s.drinks
	case enums.FlowStateAdditionalsSelection:
		view.AdditionalGroups = catalog.GroupAdditionals(s.additionals)
	}
	return view
}
