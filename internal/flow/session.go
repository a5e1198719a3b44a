package flow

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cardapiohub/cardapio-backend/internal/catalog"
	"github.com/cardapiohub/cardapio-backend/internal/flowconfig"
	"github.com/cardapiohub/cardapio-backend/internal/selection"
	"github.com/cardapiohub/cardapio-backend/pkg/enums"
)

// session is the state owned by one customization in progress. It is
// discarded as a whole on cancel and after finalization.
type session struct {
	storeID    uuid.UUID
	categoryID uuid.UUID
	category   *catalog.Category
	size       *catalog.Size
	config     flowconfig.Config

	options     catalog.OptionSet
	drinks      []catalog.Product
	additionals []catalog.Additional
	drink       *catalog.Product

	calculatedPrice *decimal.Decimal
	selection       *selection.Selection
}

func newSession(storeID uuid.UUID, maxAdditionalQty int) *session {
	return &session{
		storeID:   storeID,
		options:   catalog.OptionSet{},
		selection: selection.New(maxAdditionalQty),
	}
}

func (s *session) loadAdditionals(ctx context.Context, reader catalog.Reader) error {
	if s.additionals != nil {
		return nil
	}
	items, err := reader.FetchAdditionals(ctx, s.categoryID)
	if err != nil {
		s.additionals = []catalog.Additional{}
		return err
	}
	if items == nil {
		items = []catalog.Additional{}
	}
	s.additionals = items
	return nil
}

// View is a read-only snapshot of a controller.
type View struct {
	SessionID        uuid.UUID                 `json:"session_id"`
	StoreID          uuid.UUID                 `json:"store_id"`
	CategoryID       *uuid.UUID                `json:"category_id,omitempty"`
	State            enums.FlowState           `json:"state"`
	Selection        selection.State           `json:"selection"`
	CalculatedPrice  *decimal.Decimal          `json:"calculated_price,omitempty"`
	Drink            *catalog.Product          `json:"drink,omitempty"`
	Options          []catalog.PriceableOption `json:"options,omitempty"`
	Products         []catalog.Product         `json:"products,omitempty"`
	AdditionalGroups []catalog.AdditionalGroup `json:"additional_groups,omitempty"`
}

// LineItem is the finalized primary item; it is immutable once emitted.
type LineItem struct {
	Name        string          `json:"name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Description string          `json:"description"`
}
