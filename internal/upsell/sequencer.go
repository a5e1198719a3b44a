// Package upsell walks a customer through the promotional prompts configured
// for the category of an item they just finished.
package upsell

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cardapiohub/cardapio-backend/internal/cart"
	"github.com/cardapiohub/cardapio-backend/internal/catalog"
	"github.com/cardapiohub/cardapio-backend/internal/notify"
	"github.com/cardapiohub/cardapio-backend/internal/selection"
	"github.com/cardapiohub/cardapio-backend/pkg/enums"
	pkgerrors "github.com/cardapiohub/cardapio-backend/pkg/errors"
	"github.com/cardapiohub/cardapio-backend/pkg/logger"
	"github.com/cardapiohub/cardapio-backend/pkg/metrics"
)

// Deps are the collaborators of a sequencer.
type Deps struct {
	Prompts          PromptSource
	QuickAdd         QuickAddSource
	Catalog          catalog.Reader
	Prices           catalog.PriceResolver
	Cart             cart.Sink
	Notifier         notify.Notifier
	Metrics          *metrics.FlowMetrics
	Logger           *logger.Logger
	MaxAdditionalQty int
}

func (d Deps) validate() error {
	if d.Prompts == nil {
		return fmt.Errorf("prompt source required")
	}
	if d.QuickAdd == nil {
		return fmt.Errorf("quick add source required")
	}
	if d.Catalog == nil {
		return fmt.Errorf("catalog reader required")
	}
	if d.Cart == nil {
		return fmt.Errorf("cart sink required")
	}
	if d.Notifier == nil {
		return fmt.Errorf("notifier required")
	}
	return nil
}

// Trigger identifies the finalized item that starts a sequence.
type Trigger struct {
	CategoryID uuid.UUID
	SizeID     uuid.UUID
}

// Action kinds accepted by Act.
type ActionKind string

const (
	ActionPrimary   ActionKind = "primary"
	ActionSecondary ActionKind = "secondary"
	ActionBack      ActionKind = "back"
	ActionQuickAdd  ActionKind = "quick_add"
	ActionConfirm   ActionKind = "confirm"
)

// Quantity is a requested add-on quantity.
type Quantity struct {
	ID       uuid.UUID `json:"id"`
	Quantity int       `json:"quantity"`
}

// Action is one customer action on the current prompt. ProductID is read by
// quick adds, OptionID by edge and dough pickers, and EdgeID, DoughID and
// Additionals by the add-on and combo pickers.
type Action struct {
	Kind        ActionKind
	ProductID   *uuid.UUID
	OptionID    *uuid.UUID
	EdgeID      *uuid.UUID
	DoughID     *uuid.UUID
	Additionals []Quantity
}

// Combo is the combined selection confirmed on a combo prompt.
type Combo struct {
	Edge        *catalog.PriceableOption   `json:"edge,omitempty"`
	Dough       *catalog.PriceableOption   `json:"dough,omitempty"`
	Additionals []selection.AdditionalLine `json:"additionals"`
	Total       decimal.Decimal            `json:"total"`
}

// Outcome reports the effect of an action. Redirect closes the sequencer and
// asks the caller to navigate to a category; Browse asks the caller to show a
// category's products while the sequence moves on.
type Outcome struct {
	Advanced bool        `json:"advanced"`
	Closed   bool        `json:"closed"`
	Redirect *uuid.UUID  `json:"redirect_category_id,omitempty"`
	Browse   *uuid.UUID  `json:"browse_category_id,omitempty"`
	Lines    []cart.Line `json:"lines,omitempty"`
	Combo    *Combo      `json:"combo,omitempty"`
	View     View        `json:"view"`
}

// View describes what the customer currently sees.
type View struct {
	Closed           bool                      `json:"closed"`
	Index            int                       `json:"index"`
	Count            int                       `json:"count"`
	Prompt           *Prompt                   `json:"prompt,omitempty"`
	Expanded         bool                      `json:"expanded"`
	Products         []catalog.Product         `json:"products,omitempty"`
	Options          []catalog.PriceableOption `json:"options,omitempty"`
	Edges            []catalog.PriceableOption `json:"edges,omitempty"`
	Doughs           []catalog.PriceableOption `json:"doughs,omitempty"`
	AdditionalGroups []catalog.AdditionalGroup `json:"additional_groups,omitempty"`
}

// content holds the data loaded for the current prompt.
type content struct {
	products    []catalog.Product
	options     []catalog.PriceableOption
	edges       []catalog.PriceableOption
	doughs      []catalog.PriceableOption
	additionals []catalog.Additional
}

// Sequencer is the upsell state of one session. It is not safe for concurrent
// use.
type Sequencer struct {
	deps      Deps
	handlers  map[enums.ContentType]handler
	storeID   uuid.UUID
	sessionID uuid.UUID

	trigger  Trigger
	prompts  []Prompt
	index    int
	expanded bool
	closed   bool
	content  *content
}

func NewSequencer(deps Deps, sessionID, storeID uuid.UUID) (*Sequencer, error) {
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
	if deps.MaxAdditionalQty <= 0 {
		deps.MaxAdditionalQty = selection.DefaultMaxAdditionalQty
	}
	return &Sequencer{
		deps:      deps,
		handlers:  defaultHandlers(),
		storeID:   storeID,
		sessionID: sessionID,
		closed:    true,
	}, nil
}

// Start fetches the prompts of the trigger category and shows the first one.
// With no prompts, or when they cannot be loaded, the sequencer stays closed.
func (s *Sequencer) Start(ctx context.Context, trigger Trigger) View {
	s.trigger = trigger
	s.prompts = nil
	s.index = 0
	s.expanded = false
	s.content = nil
	s.closed = true

	prompts, err := s.deps.Prompts.FetchUpsellPrompts(ctx, s.storeID, trigger.CategoryID)
	if err != nil {
		s.deps.Logger.Error(s.logCtx(ctx), "upsell.prompts.fetch_failed", err)
		return s.View()
	}
	if len(prompts) == 0 {
		return s.View()
	}
	s.prompts = prompts
	s.closed = false
	s.deps.Logger.Info(s.deps.Logger.WithField(s.logCtx(ctx), "prompts", len(prompts)), "upsell.started")
	return s.View()
}

func (s *Sequencer) Closed() bool {
	return s.closed
}

// Index is the position of the current prompt; it never decreases within one
// sequence.
func (s *Sequencer) Index() int {
	return s.index
}

func (s *Sequencer) current() *Prompt {
	if s.closed || s.index >= len(s.prompts) {
		return nil
	}
	return &s.prompts[s.index]
}

// View describes the current prompt and any loaded content.
func (s *Sequencer) View() View {
	view := View{Closed: s.closed, Index: s.index, Count: len(s.prompts), Expanded: s.expanded}
	prompt := s.current()
	if prompt == nil {
		return view
	}
	cp := *prompt
	view.Prompt = &cp
	if s.content != nil {
		view.Products = s.content.products
		view.Options = s.content.options
		view.Edges = s.content.edges
		view.Doughs = s.content.doughs
		if len(s.content.additionals) > 0 {
			view.AdditionalGroups = catalog.GroupAdditionals(s.content.additionals)
		}
	}
	return view
}

// Act applies an action to the current prompt. Redirects on the prompt take
// precedence over the default primary and secondary behavior.
func (s *Sequencer) Act(ctx context.Context, action Action) (*Outcome, error) {
	prompt := s.current()
	if prompt == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no upsell prompt is active")
	}
	h := s.handlerFor(prompt.ContentType)
	s.deps.Metrics.IncUpsellAction(prompt.ContentType.String(), string(action.Kind))

	switch action.Kind {
	case ActionPrimary:
		if prompt.PrimaryRedirectCategoryID != nil {
			return s.redirect(ctx, *prompt.PrimaryRedirectCategoryID), nil
		}
		return h.primary(ctx, s, prompt)
	case ActionSecondary:
		if prompt.SecondaryRedirectCategoryID != nil {
			return s.redirect(ctx, *prompt.SecondaryRedirectCategoryID), nil
		}
		return s.advance(ctx, &Outcome{}), nil
	case ActionBack:
		return s.advance(ctx, &Outcome{}), nil
	case ActionQuickAdd:
		return h.quickAdd(ctx, s, prompt, action)
	case ActionConfirm:
		return h.confirm(ctx, s, prompt, action)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown upsell action").
			WithDetails(map[string]any{"action": action.Kind})
	}
}

func (s *Sequencer) handlerFor(ct enums.ContentType) handler {
	if h, ok := s.handlers[ct]; ok {
		return h
	}
	return s.handlers[enums.ContentTypeGeneric]
}

func (s *Sequencer) redirect(ctx context.Context, categoryID uuid.UUID) *Outcome {
	id := categoryID
	s.close(ctx, "redirect")
	return &Outcome{Closed: true, Redirect: &id, View: s.View()}
}

// advance moves past the current prompt, closing after the last one.
func (s *Sequencer) advance(ctx context.Context, out *Outcome) *Outcome {
	s.index++
	s.expanded = false
	s.content = nil
	out.Advanced = true
	if s.index >= len(s.prompts) {
		s.close(ctx, "exhausted")
	}
	out.Closed = s.closed
	out.View = s.View()
	return out
}

func (s *Sequencer) close(ctx context.Context, reason string) {
	s.closed = true
	s.expanded = false
	s.content = nil
	s.deps.Logger.Info(s.deps.Logger.WithField(s.logCtx(ctx), "reason", reason), "upsell.closed")
}

// Cancel closes the sequence without touching the cart.
func (s *Sequencer) Cancel(ctx context.Context) {
	if s.closed {
		return
	}
	s.close(ctx, "cancelled")
}

// Expire closes the sequence of an idle session.
func (s *Sequencer) Expire(ctx context.Context) {
	if s.closed {
		return
	}
	s.close(ctx, "expired")
}

func (s *Sequencer) addLines(ctx context.Context, lines []cart.Line) error {
	if len(lines) == 0 {
		return nil
	}
	if err := s.deps.Cart.AddLines(ctx, s.storeID, s.sessionID, lines); err != nil {
		s.deps.Logger.Error(s.logCtx(ctx), "upsell.cart_failed", err)
		s.deps.Notifier.Error(ctx, "Não foi possível adicionar ao carrinho")
		return err
	}
	s.deps.Notifier.Success(ctx, "Adicionado ao carrinho")
	return nil
}

func (s *Sequencer) logCtx(ctx context.Context) context.Context {
	logg := s.deps.Logger
	ctx = logg.WithSessionID(ctx, s.sessionID)
	ctx = logg.WithStoreID(ctx, s.storeID)
	if s.trigger.CategoryID != uuid.Nil {
		ctx = logg.WithCategoryID(ctx, s.trigger.CategoryID)
	}
	return logg.WithField(ctx, "upsell_index", s.index)
}
