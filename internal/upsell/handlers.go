package upsell

import (
	"context"

	"github.com/google/uuid"

	"github.com/cardapiohub/cardapio-backend/internal/cart"
	"github.com/cardapiohub/cardapio-backend/internal/catalog"
	"github.com/cardapiohub/cardapio-backend/internal/selection"
	"github.com/cardapiohub/cardapio-backend/pkg/enums"
	pkgerrors "github.com/cardapiohub/cardapio-backend/pkg/errors"
)

// handler implements the content-type specific actions of a prompt.
type handler interface {
	primary(ctx context.Context, s *Sequencer, p *Prompt) (*Outcome, error)
	quickAdd(ctx context.Context, s *Sequencer, p *Prompt, a Action) (*Outcome, error)
	confirm(ctx context.Context, s *Sequencer, p *Prompt, a Action) (*Outcome, error)
}

func defaultHandlers() map[enums.ContentType]handler {
	products := productHandler{}
	return map[enums.ContentType]handler{
		enums.ContentTypeDrink:       products,
		enums.ContentTypeGeneric:     products,
		enums.ContentTypePizzaEdges:  attributeHandler{kind: enums.OptionKindEdge, label: "Borda"},
		enums.ContentTypePizzaDoughs: attributeHandler{kind: enums.OptionKindDough, label: "Massa"},
		enums.ContentTypeAdditionals: additionalsHandler{},
		enums.ContentTypeCombo:       comboHandler{},
	}
}

type unsupported struct{}

func (unsupported) quickAdd(ctx context.Context, s *Sequencer, p *Prompt, a Action) (*Outcome, error) {
	return nil, notSupported(p, a.Kind)
}

func (unsupported) confirm(ctx context.Context, s *Sequencer, p *Prompt, a Action) (*Outcome, error) {
	return nil, notSupported(p, a.Kind)
}

func notSupported(p *Prompt, kind ActionKind) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "action not supported by this prompt").
		WithDetails(map[string]any{"content_type": p.ContentType, "action": kind})
}

// productHandler serves drink and generic prompts: primary reveals the
// quick-add products, or hands off to browsing the target category when there
// are none.
type productHandler struct {
	unsupported
}

func (productHandler) primary(ctx context.Context, s *Sequencer, p *Prompt) (*Outcome, error) {
	if s.expanded {
		return s.advance(ctx, &Outcome{Browse: p.TargetCategoryID}), nil
	}
	if len(s.loadProducts(ctx, p)) == 0 {
		return s.advance(ctx, &Outcome{Browse: p.TargetCategoryID}), nil
	}
	s.expanded = true
	return &Outcome{View: s.View()}, nil
}

func (productHandler) quickAdd(ctx context.Context, s *Sequencer, p *Prompt, a Action) (*Outcome, error) {
	if a.ProductID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	product, ok := catalog.FindProduct(s.loadProducts(ctx, p), *a.ProductID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeDataUnavailable, "product not offered by this prompt").
			WithDetails(map[string]any{"product_id": a.ProductID.String()})
	}
	id := product.ID
	lines := []cart.Line{{
		Kind:      enums.CartLineKindQuickAdd,
		ProductID: &id,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  1,
	}}
	if err := s.addLines(ctx, lines); err != nil {
		return nil, err
	}
	return s.advance(ctx, &Outcome{Lines: lines}), nil
}

// attributeHandler is the single-attribute picker of edge and dough prompts,
// priced for the size of the finished item.
type attributeHandler struct {
	unsupported
	kind  enums.OptionKind
	label string
}

func (h attributeHandler) primary(ctx context.Context, s *Sequencer, p *Prompt) (*Outcome, error) {
	if len(s.loadOptions(ctx, h.kind)) == 0 || s.expanded {
		return s.advance(ctx, &Outcome{}), nil
	}
	s.expanded = true
	return &Outcome{View: s.View()}, nil
}

func (h attributeHandler) confirm(ctx context.Context, s *Sequencer, p *Prompt, a Action) (*Outcome, error) {
	if a.OptionID == nil {
		return s.advance(ctx, &Outcome{}), nil
	}
	opt, ok := catalog.FindOption(s.loadOptions(ctx, h.kind), *a.OptionID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeDataUnavailable, "option not offered for this size").
			WithDetails(map[string]any{"kind": h.kind, "option_id": a.OptionID.String()})
	}
	opt, err := s.priced(ctx, h.kind, opt)
	if err != nil {
		return nil, err
	}
	lines := []cart.Line{optionLine(h.label, opt)}
	if err := s.addLines(ctx, lines); err != nil {
		return nil, err
	}
	return s.advance(ctx, &Outcome{Lines: lines}), nil
}

// additionalsHandler is the grouped multi-select quantity picker.
type additionalsHandler struct {
	unsupported
}

func (additionalsHandler) primary(ctx context.Context, s *Sequencer, p *Prompt) (*Outcome, error) {
	if len(s.loadAdditionals(ctx, p)) == 0 || s.expanded {
		return s.advance(ctx, &Outcome{}), nil
	}
	s.expanded = true
	return &Outcome{View: s.View()}, nil
}

func (additionalsHandler) confirm(ctx context.Context, s *Sequencer, p *Prompt, a Action) (*Outcome, error) {
	sel := selection.New(s.deps.MaxAdditionalQty)
	if err := s.applyQuantities(ctx, p, sel, a.Additionals); err != nil {
		return nil, err
	}
	lines := additionalLines(sel.Additionals())
	if err := s.addLines(ctx, lines); err != nil {
		return nil, err
	}
	return s.advance(ctx, &Outcome{Lines: lines}), nil
}

// comboHandler shows edge, dough and add-ons on one screen and reports their
// combined total. Every facet still becomes its own cart line.
type comboHandler struct {
	unsupported
}

func (comboHandler) primary(ctx context.Context, s *Sequencer, p *Prompt) (*Outcome, error) {
	edges := s.loadComboOptions(ctx, enums.OptionKindEdge)
	doughs := s.loadComboOptions(ctx, enums.OptionKindDough)
	additionals := s.loadAdditionals(ctx, p)
	if s.expanded || len(edges)+len(doughs)+len(additionals) == 0 {
		return s.advance(ctx, &Outcome{}), nil
	}
	s.expanded = true
	return &Outcome{View: s.View()}, nil
}

func (comboHandler) confirm(ctx context.Context, s *Sequencer, p *Prompt, a Action) (*Outcome, error) {
	sel := selection.New(s.deps.MaxAdditionalQty)
	if a.EdgeID != nil {
		opt, ok := catalog.FindOption(s.loadComboOptions(ctx, enums.OptionKindEdge), *a.EdgeID)
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeDataUnavailable, "edge not offered for this size").
				WithDetails(map[string]any{"option_id": a.EdgeID.String()})
		}
		opt, err := s.priced(ctx, enums.OptionKindEdge, opt)
		if err != nil {
			return nil, err
		}
		sel.SetEdge(&opt)
	}
	if a.DoughID != nil {
		opt, ok := catalog.FindOption(s.loadComboOptions(ctx, enums.OptionKindDough), *a.DoughID)
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeDataUnavailable, "dough not offered for this size").
				WithDetails(map[string]any{"option_id": a.DoughID.String()})
		}
		opt, err := s.priced(ctx, enums.OptionKindDough, opt)
		if err != nil {
			return nil, err
		}
		sel.SetDough(&opt)
	}
	if err := s.applyQuantities(ctx, p, sel, a.Additionals); err != nil {
		return nil, err
	}

	var lines []cart.Line
	if edge := sel.Edge(); edge != nil {
		lines = append(lines, optionLine("Borda", *edge))
	}
	if dough := sel.Dough(); dough != nil {
		lines = append(lines, optionLine("Massa", *dough))
	}
	lines = append(lines, additionalLines(sel.Additionals())...)

	combo := &Combo{
		Edge:        sel.Edge(),
		Dough:       sel.Dough(),
		Additionals: sel.Additionals(),
		Total:       sel.Total(),
	}
	if err := s.addLines(ctx, lines); err != nil {
		return nil, err
	}
	return s.advance(ctx, &Outcome{Lines: lines, Combo: combo}), nil
}

func optionLine(label string, opt catalog.PriceableOption) cart.Line {
	id := opt.ID
	return cart.Line{
		Kind:      enums.CartLineKindAdditional,
		ProductID: &id,
		Name:      label + ": " + opt.Name,
		UnitPrice: opt.Price,
		Quantity:  1,
	}
}

func additionalLines(items []selection.AdditionalLine) []cart.Line {
	lines := make([]cart.Line, 0, len(items))
	for _, item := range items {
		id := item.ID
		lines = append(lines, cart.Line{
			Kind:      enums.CartLineKindAdditional,
			ProductID: &id,
			Name:      item.Name,
			UnitPrice: item.Price,
			Quantity:  item.Quantity,
		})
	}
	return lines
}

// applyQuantities validates requested add-on quantities against the offered
// items and the per-item cap before applying them to sel. Repeated ids are
// summed and the sum is held to the cap.
func (s *Sequencer) applyQuantities(ctx context.Context, p *Prompt, sel *selection.Selection, quantities []Quantity) error {
	if len(quantities) == 0 {
		return nil
	}
	type request struct {
		item     catalog.Additional
		quantity int
	}
	offered := s.loadAdditionals(ctx, p)
	requests := make([]request, 0, len(quantities))
	index := make(map[uuid.UUID]int, len(quantities))
	for _, q := range quantities {
		if q.Quantity < 0 {
			return invalidQuantity(q.ID, q.Quantity, s.deps.MaxAdditionalQty)
		}
		i, seen := index[q.ID]
		if !seen {
			item, ok := catalog.FindAdditional(offered, q.ID)
			if !ok {
				return pkgerrors.New(pkgerrors.CodeDataUnavailable, "additional not offered").
					WithDetails(map[string]any{"additional_id": q.ID.String()})
			}
			i = len(requests)
			index[q.ID] = i
			requests = append(requests, request{item: item})
		}
		requests[i].quantity += q.Quantity
		if requests[i].quantity > s.deps.MaxAdditionalQty {
			return invalidQuantity(q.ID, requests[i].quantity, s.deps.MaxAdditionalQty)
		}
	}
	for _, r := range requests {
		sel.ChangeAdditionalQuantity(r.item, r.quantity)
	}
	return nil
}

func invalidQuantity(id uuid.UUID, requested, limit int) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid additional quantity").
		WithDetails(map[string]any{"additional_id": id.String(), "requested": requested, "max": limit})
}

func (s *Sequencer) ensureContent() *content {
	if s.content == nil {
		s.content = &content{}
	}
	return s.content
}

func (s *Sequencer) loadProducts(ctx context.Context, p *Prompt) []catalog.Product {
	c := s.ensureContent()
	if c.products != nil {
		return c.products
	}
	products, err := s.deps.QuickAdd.FetchQuickAddProducts(ctx, s.storeID, *p)
	if err != nil {
		s.deps.Logger.Error(s.logCtx(ctx), "upsell.quick_add.fetch_failed", err)
	}
	if products == nil {
		products = []catalog.Product{}
	}
	c.products = products
	return products
}

func (s *Sequencer) fetchOptions(ctx context.Context, kind enums.OptionKind) []catalog.PriceableOption {
	if s.trigger.SizeID == uuid.Nil {
		return []catalog.PriceableOption{}
	}
	opts, err := s.deps.Catalog.FetchOptionsForSize(ctx, s.trigger.CategoryID, s.trigger.SizeID, kind)
	if err != nil {
		s.deps.Logger.Error(s.deps.Logger.WithField(s.logCtx(ctx), "kind", kind.String()), "upsell.options.fetch_failed", err)
	}
	if opts == nil {
		opts = []catalog.PriceableOption{}
	}
	return opts
}

// priced replaces the listed price of opt with the one resolved for the
// finished item's size.
func (s *Sequencer) priced(ctx context.Context, kind enums.OptionKind, opt catalog.PriceableOption) (catalog.PriceableOption, error) {
	price, err := s.deps.Prices.ResolvePrice(ctx, s.trigger.CategoryID, s.trigger.SizeID, kind, opt.ID)
	if err != nil {
		return opt, err
	}
	return price.Apply(opt), nil
}

func (s *Sequencer) loadOptions(ctx context.Context, kind enums.OptionKind) []catalog.PriceableOption {
	c := s.ensureContent()
	if c.options == nil {
		c.options = s.fetchOptions(ctx, kind)
	}
	return c.options
}

func (s *Sequencer) loadComboOptions(ctx context.Context, kind enums.OptionKind) []catalog.PriceableOption {
	c := s.ensureContent()
	switch kind {
	case enums.OptionKindEdge:
		if c.edges == nil {
			c.edges = s.fetchOptions(ctx, kind)
		}
		return c.edges
	default:
		if c.doughs == nil {
			c.doughs = s.fetchOptions(ctx, kind)
		}
		return c.doughs
	}
}

// loadAdditionals lists the add-ons of the prompt's target category, falling
// back to the trigger category.
func (s *Sequencer) loadAdditionals(ctx context.Context, p *Prompt) []catalog.Additional {
	c := s.ensureContent()
	if c.additionals != nil {
		return c.additionals
	}
	categoryID := s.trigger.CategoryID
	if p.TargetCategoryID != nil {
		categoryID = *p.TargetCategoryID
	}
	items, err := s.deps.Catalog.FetchAdditionals(ctx, categoryID)
	if err != nil {
		s.deps.Logger.Error(s.logCtx(ctx), "upsell.additionals.fetch_failed", err)
	}
	if items == nil {
		items = []catalog.Additional{}
	}
	c.additionals = items
	return items
}
