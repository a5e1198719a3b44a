// Package selection accumulates the choices of one customization session and
// prices them.
package selection

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cardapiohub/cardapio-backend/internal/catalog"
	pkgerrors "github.com/cardapiohub/cardapio-backend/pkg/errors"
)

// DefaultMaxAdditionalQty caps the quantity of a single add-on.
const DefaultMaxAdditionalQty = 10

// Flavor is a chosen flavor. Surcharge is already zero for non-premium flavors.
type Flavor struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Surcharge  decimal.Decimal `json:"surcharge"`
	FlavorType string          `json:"flavor_type,omitempty"`
	IsPremium  bool            `json:"is_premium"`
}

// AdditionalLine is a chosen add-on; Quantity is always >= 1 while present.
type AdditionalLine struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Subtotal is Price * Quantity.
func (a AdditionalLine) Subtotal() decimal.Decimal {
	return a.Price.Mul(decimal.NewFromInt(int64(a.Quantity)))
}

// Selection is the mutable accumulator owned by exactly one session.
type Selection struct {
	size        *catalog.Size
	flavors     []Flavor
	edge        *catalog.PriceableOption
	dough       *catalog.PriceableOption
	additionals []AdditionalLine
	notes       string
	maxQty      int
}

// New returns an empty selection. maxAdditionalQty <= 0 falls back to
// DefaultMaxAdditionalQty.
func New(maxAdditionalQty int) *Selection {
	if maxAdditionalQty <= 0 {
		maxAdditionalQty = DefaultMaxAdditionalQty
	}
	return &Selection{maxQty: maxAdditionalQty}
}

// Reset empties the selection and binds it to size (nil for no size).
func (s *Selection) Reset(size *catalog.Size) {
	s.size = nil
	if size != nil {
		cp := *size
		s.size = &cp
	}
	s.flavors = nil
	s.edge = nil
	s.dough = nil
	s.additionals = nil
	s.notes = ""
}

// Size is the bound size, nil before a size is chosen.
func (s *Selection) Size() *catalog.Size {
	return s.size
}

// MaxFlavors is the bound size's flavor cap, zero without a size.
func (s *Selection) MaxFlavors() int {
	if s.size == nil {
		return 0
	}
	return s.size.MaxFlavors
}

// ToggleFlavor removes the flavor when already chosen, otherwise adds it. Adding
// beyond the size's flavor cap is rejected and leaves the selection unchanged.
func (s *Selection) ToggleFlavor(opt catalog.PriceableOption) error {
	for i, f := range s.flavors {
		if f.ID == opt.ID {
			s.flavors = append(s.flavors[:i:i], s.flavors[i+1:]...)
			return nil
		}
	}
	if len(s.flavors) >= s.MaxFlavors() {
		return pkgerrors.New(pkgerrors.CodeLimitExceeded, "flavor limit reached").
			WithDetails(map[string]any{"max_flavors": s.MaxFlavors()})
	}
	flavor := Flavor{
		ID:         opt.ID,
		Name:       opt.Name,
		Price:      opt.Price,
		FlavorType: opt.FlavorType,
		IsPremium:  opt.IsPremium,
	}
	if opt.IsPremium {
		flavor.Surcharge = opt.Surcharge
	}
	s.flavors = append(s.flavors, flavor)
	return nil
}

// HasFlavor reports whether id is among the chosen flavors.
func (s *Selection) HasFlavor(id uuid.UUID) bool {
	for _, f := range s.flavors {
		if f.ID == id {
			return true
		}
	}
	return false
}

// Flavors returns a copy of the chosen flavors in selection order.
func (s *Selection) Flavors() []Flavor {
	out := make([]Flavor, len(s.flavors))
	copy(out, s.flavors)
	return out
}

// SetEdge replaces the chosen edge; nil clears it.
func (s *Selection) SetEdge(opt *catalog.PriceableOption) {
	s.edge = cloneOption(opt)
}

// SetDough replaces the chosen dough; nil clears it.
func (s *Selection) SetDough(opt *catalog.PriceableOption) {
	s.dough = cloneOption(opt)
}

// Edge returns a copy of the chosen edge, or nil.
func (s *Selection) Edge() *catalog.PriceableOption {
	return cloneOption(s.edge)
}

// Dough returns a copy of the chosen dough, or nil.
func (s *Selection) Dough() *catalog.PriceableOption {
	return cloneOption(s.dough)
}

// ToggleAdditional adds item with quantity 1, or removes it when present.
func (s *Selection) ToggleAdditional(item catalog.Additional) {
	if i := s.additionalIndex(item.ID); i >= 0 {
		s.removeAdditional(i)
		return
	}
	s.additionals = append(s.additionals, AdditionalLine{ID: item.ID, Name: item.Name, Price: item.Price, Quantity: 1})
}

// ChangeAdditionalQuantity moves the quantity of item by delta. Reaching zero
// removes the entry; moving past the cap is ignored.
func (s *Selection) ChangeAdditionalQuantity(item catalog.Additional, delta int) {
	i := s.additionalIndex(item.ID)
	current := 0
	if i >= 0 {
		current = s.additionals[i].Quantity
	}
	next := current + delta
	if next > s.maxQty {
		return
	}
	if next <= 0 {
		if i >= 0 {
			s.removeAdditional(i)
		}
		return
	}
	if i < 0 {
		s.additionals = append(s.additionals, AdditionalLine{ID: item.ID, Name: item.Name, Price: item.Price, Quantity: next})
		return
	}
	s.additionals[i].Quantity = next
}

// Additionals returns a copy of the chosen add-ons.
func (s *Selection) Additionals() []AdditionalLine {
	out := make([]AdditionalLine, len(s.additionals))
	copy(out, s.additionals)
	return out
}

// SetNotes replaces the free-text notes.
func (s *Selection) SetNotes(notes string) {
	s.notes = notes
}

// Notes returns the free-text notes.
func (s *Selection) Notes() string {
	return s.notes
}

// UnitPrice is the price of the primary item: the size's base price, premium
// surcharges and the chosen edge and dough. Add-ons are not included.
func (s *Selection) UnitPrice() decimal.Decimal {
	total := decimal.Zero
	if s.size != nil {
		total = total.Add(s.size.BasePrice)
	}
	for _, f := range s.flavors {
		total = total.Add(f.Surcharge)
	}
	if s.edge != nil {
		total = total.Add(s.edge.Price)
	}
	if s.dough != nil {
		total = total.Add(s.dough.Price)
	}
	return total
}

// AdditionalsTotal sums every add-on subtotal.
func (s *Selection) AdditionalsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, a := range s.additionals {
		total = total.Add(a.Subtotal())
	}
	return total
}

// Total is recomputed from the current state on every call.
func (s *Selection) Total() decimal.Decimal {
	return s.UnitPrice().Add(s.AdditionalsTotal())
}

// Description renders the cart description: flavors joined by " + ", then the
// edge, the dough and the notes, each part separated by " • ".
func (s *Selection) Description() string {
	var parts []string
	if len(s.flavors) > 0 {
		names := make([]string, 0, len(s.flavors))
		for _, f := range s.flavors {
			names = append(names, f.Name)
		}
		parts = append(parts, strings.Join(names, " + "))
	}
	if s.edge != nil {
		parts = append(parts, "Borda: "+s.edge.Name)
	}
	if s.dough != nil {
		parts = append(parts, "Massa: "+s.dough.Name)
	}
	if notes := strings.TrimSpace(s.notes); notes != "" {
		parts = append(parts, "Obs: "+notes)
	}
	return strings.Join(parts, " • ")
}

// State is a read-only view of a selection.
type State struct {
	Size        *catalog.Size            `json:"size,omitempty"`
	Flavors     []Flavor                 `json:"flavors"`
	Edge        *catalog.PriceableOption `json:"edge,omitempty"`
	Dough       *catalog.PriceableOption `json:"dough,omitempty"`
	Additionals []AdditionalLine         `json:"additionals"`
	Notes       string                   `json:"notes,omitempty"`
	UnitPrice   decimal.Decimal          `json:"unit_price"`
	Total       decimal.Decimal          `json:"total"`
	Description string                   `json:"description"`
}

// Snapshot copies the current state with derived prices and description.
func (s *Selection) Snapshot() State {
	var size *catalog.Size
	if s.size != nil {
		cp := *s.size
		size = &cp
	}
	return State{
		Size:        size,
		Flavors:     s.Flavors(),
		Edge:        s.Edge(),
		Dough:       s.Dough(),
		Additionals: s.Additionals(),
		Notes:       s.notes,
		UnitPrice:   s.UnitPrice(),
		Total:       s.Total(),
		Description: s.Description(),
	}
}

func (s *Selection) additionalIndex(id uuid.UUID) int {
	for i, a := range s.additionals {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (s *Selection) removeAdditional(i int) {
	s.additionals = append(s.additionals[:i:i], s.additionals[i+1:]...)
}

func cloneOption(opt *catalog.PriceableOption) *catalog.PriceableOption {
	if opt == nil {
		return nil
	}
	cp := *opt
	return &cp
}
