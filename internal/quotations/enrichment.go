package quotations

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rocklimedev/quotations-backend/internal/pricing"
	"github.com/rocklimedev/quotations-backend/pkg/db/models"
	pkgerrors "github.com/rocklimedev/quotations-backend/pkg/errors"
)

type productLoader interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
}

// Resolver turns raw line inputs into enriched, priced line snapshots. It
// pulls display fields from the catalog in one batch lookup and recomputes
// every derived amount; nothing the client sends for totals survives.
type Resolver struct {
	products   productLoader
	bestEffort bool
}

// NewResolver builds a line enrichment resolver. In best-effort mode a line
// whose product has been deleted keeps its client-supplied pricing and goes
// through with empty display fields instead of failing the request.
func NewResolver(products productLoader, bestEffort bool) (*Resolver, error) {
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &Resolver{products: products, bestEffort: bestEffort}, nil
}

// Enrich resolves catalog fields and derives per-line amounts for every
// input, preserving input order. Product lookups are deduplicated into a
// single batch fetch.
func (r *Resolver) Enrich(ctx context.Context, inputs []LineItemInput) (models.QuotationLineItems, error) {
	if len(inputs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line item is required")
	}

	seen := make(map[uuid.UUID]struct{}, len(inputs))
	ids := make([]uuid.UUID, 0, len(inputs))
	for _, input := range inputs {
		if input.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item product id is required")
		}
		if _, ok := seen[input.ProductID]; ok {
			continue
		}
		seen[input.ProductID] = struct{}{}
		ids = append(ids, input.ProductID)
	}

	catalog, err := r.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading products for enrichment")
	}

	items := make(models.QuotationLineItems, 0, len(inputs))
	for _, input := range inputs {
		product, ok := catalog[input.ProductID]
		if !ok && !r.bestEffort {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("product %s does not exist", input.ProductID)).
				WithDetails(map[string]any{"productId": input.ProductID})
		}

		result, err := pricing.ComputeLine(input.Price, input.Quantity, input.Discount, input.DiscountType, input.Tax)
		if err != nil {
			return nil, err
		}

		item := models.QuotationLineItem{
			ProductID:         input.ProductID,
			SellingPrice:      input.Price,
			Quantity:          input.Quantity,
			Discount:          input.Discount,
			DiscountType:      input.DiscountType,
			TaxPercent:        input.Tax,
			LineAmount:        result.LineAmount,
			DiscountAmount:    result.DiscountAmount,
			LineAfterDiscount: result.LineAfterDiscount,
			TaxAmount:         result.TaxAmount,
			LineTotal:         result.LineTotal,
		}
		if ok {
			item.SKU = product.SKU
			item.Name = product.Name
			item.Images = product.Images
		}
		items = append(items, item)
	}

	return items, nil
}
