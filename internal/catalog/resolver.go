package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/cardapiohub/cardapio-backend/pkg/enums"
	pkgerrors "github.com/cardapiohub/cardapio-backend/pkg/errors"
)

// PriceResolver prices one option for one size.
type PriceResolver interface {
	ResolvePrice(ctx context.Context, categoryID, sizeID uuid.UUID, kind enums.OptionKind, optionID uuid.UUID) (Price, error)
}

// Resolver answers per-size price lookups for flavors, edges and doughs.
type Resolver struct {
	reader Reader
}

func NewResolver(reader Reader) *Resolver {
	return &Resolver{reader: reader}
}

// ResolvePrice returns the price of optionID for sizeID. An option with no
// price row for the size is reported as DATA_UNAVAILABLE, never as zero.
func (r *Resolver) ResolvePrice(ctx context.Context, categoryID, sizeID uuid.UUID, kind enums.OptionKind, optionID uuid.UUID) (Price, error) {
	if !kind.IsValid() {
		return Price{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown option kind").
			WithDetails(map[string]any{"kind": kind})
	}
	options, err := r.reader.FetchOptionsForSize(ctx, categoryID, sizeID, kind)
	if err != nil {
		return Price{}, err
	}
	opt, ok := FindOption(options, optionID)
	if !ok {
		return Price{}, unavailable(kind, optionID, sizeID)
	}
	price := Price{Amount: opt.Price}
	if kind == enums.OptionKindFlavor && opt.IsPremium {
		price.Surcharge = opt.Surcharge
	}
	return price, nil
}

// Apply returns opt carrying the resolved amount and surcharge.
func (p Price) Apply(opt PriceableOption) PriceableOption {
	opt.Price = p.Amount
	opt.Surcharge = p.Surcharge
	return opt
}

func unavailable(kind enums.OptionKind, optionID, sizeID uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeDataUnavailable, "option not offered for this size").
		WithDetails(map[string]any{
			"kind":      kind,
			"option_id": optionID.String(),
			"size_id":   sizeID.String(),
		})
}
