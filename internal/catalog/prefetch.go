package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/cardapiohub/cardapio-backend/pkg/enums"
)

// OptionSet holds the options of every kind fetched for one size.
type OptionSet map[enums.OptionKind][]PriceableOption

var prefetchKinds = []enums.OptionKind{
	enums.OptionKindFlavor,
	enums.OptionKindEdge,
	enums.OptionKindDough,
}

// Prefetch loads flavors, edges and doughs for a size in parallel. Kinds that
// fail to load come back empty and their errors are combined; callers treat a
// failed kind the same as a kind with no options.
func Prefetch(ctx context.Context, reader Reader, categoryID, sizeID uuid.UUID) (OptionSet, error) {
	var (
		mu   sync.Mutex
		errs error
		set  = make(OptionSet, len(prefetchKinds))
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range prefetchKinds {
		g.Go(func() error {
			options, err := reader.FetchOptionsForSize(gctx, categoryID, sizeID, kind)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("prefetch %s: %w", kind, err))
				set[kind] = []PriceableOption{}
				return nil
			}
			if options == nil {
				options = []PriceableOption{}
			}
			set[kind] = options
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return set, err
	}
	return set, errs
}
