package flow

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cardapiohub/cardapio-backend/internal/cart"
	"github.com/cardapiohub/cardapio-backend/internal/catalog"
	"github.com/cardapiohub/cardapio-backend/pkg/enums"
)

// Finalized is what a completed customization emitted. TriggerCategoryID and
// SizeID let the upsell sequencer continue in the same context.
type Finalized struct {
	Item              LineItem        `json:"item"`
	Lines             []cart.Line     `json:"lines"`
	Total             decimal.Decimal `json:"total"`
	TriggerCategoryID uuid.UUID       `json:"trigger_category_id"`
	SizeID            uuid.UUID       `json:"size_id"`
}

// finalize builds the line item and its ancillary lines, hands them to the
// cart, and returns to idle. When the cart refuses the lines the controller
// keeps its state so the customer can retry.
func (c *Controller) finalize(ctx context.Context) (*Outcome, error) {
	s := c.current
	sel := s.selection

	item := LineItem{
		Name:        itemName(s.category, s.size),
		UnitPrice:   sel.UnitPrice(),
		Quantity:    1,
		Description: sel.Description(),
	}
	lines := []cart.Line{{
		Kind:        enums.CartLineKindItem,
		Name:        item.Name,
		UnitPrice:   item.UnitPrice,
		Quantity:    item.Quantity,
		Description: item.Description,
	}}
	for _, add := range sel.Additionals() {
		id := add.ID
		lines = append(lines, cart.Line{
			Kind:      enums.CartLineKindAdditional,
			ProductID: &id,
			Name:      add.Name,
			UnitPrice: add.Price,
			Quantity:  add.Quantity,
		})
	}
	if s.drink != nil {
		id := s.drink.ID
		lines = append(lines, cart.Line{
			Kind:      enums.CartLineKindDrink,
			ProductID: &id,
			Name:      s.drink.Name,
			UnitPrice: s.drink.Price,
			Quantity:  1,
		})
	}

	if err := c.deps.Cart.AddLines(ctx, c.storeID, c.sessionID, lines); err != nil {
		c.deps.Logger.Error(c.logCtx(ctx), "flow.finalize.cart_failed", err)
		c.deps.Notifier.Error(ctx, "Não foi possível adicionar ao carrinho")
		return nil, err
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}
	done := &Finalized{
		Item:              item,
		Lines:             lines,
		Total:             total,
		TriggerCategoryID: s.categoryID,
		SizeID:            s.size.ID,
	}

	c.state = enums.FlowStateCart
	logCtx := c.deps.Logger.WithFields(c.logCtx(ctx), map[string]any{
		"unit_price": item.UnitPrice.StringFixed(2),
		"lines":      len(lines),
	})
	c.deps.Logger.Info(logCtx, "flow.finalized")
	c.deps.Metrics.IncSession("finalized")
	c.deps.Metrics.ObserveUnitPrice(categoryLabel(s.category), item.UnitPrice)
	c.deps.Notifier.Success(ctx, "Item adicionado ao carrinho")

	c.reset()
	return &Outcome{State: enums.FlowStateCart, Finalized: done}, nil
}

func itemName(category *catalog.Category, size *catalog.Size) string {
	var parts []string
	if category != nil && strings.TrimSpace(category.Name) != "" {
		parts = append(parts, strings.TrimSpace(category.Name))
	}
	if size != nil && strings.TrimSpace(size.Name) != "" {
		parts = append(parts, strings.TrimSpace(size.Name))
	}
	if len(parts) == 0 {
		return "Item"
	}
	return strings.Join(parts, " ")
}

func categoryLabel(category *catalog.Category) string {
	if category == nil {
		return ""
	}
	return category.Name
}
