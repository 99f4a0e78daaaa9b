package quotations

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rocklimedev/quotations-backend/pkg/db/models"
	"github.com/rocklimedev/quotations-backend/pkg/enums"
	pkgerrors "github.com/rocklimedev/quotations-backend/pkg/errors"
)

type fakeProductLoader struct {
	products map[uuid.UUID]models.Product
	calls    int
	lastIDs  []uuid.UUID
}

func (f *fakeProductLoader) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	f.calls++
	f.lastIDs = ids
	result := make(map[uuid.UUID]models.Product, len(ids))
	for _, id := range ids {
		if product, ok := f.products[id]; ok {
			result[id] = product
		}
	}
	return result, nil
}

func catalogWith(products ...models.Product) *fakeProductLoader {
	loader := &fakeProductLoader{products: make(map[uuid.UUID]models.Product)}
	for _, product := range products {
		loader.products[product.ID] = product
	}
	return loader
}

func lineInput(productID uuid.UUID, price string, quantity int) LineItemInput {
	return LineItemInput{
		ProductID:    productID,
		Price:        decimal.RequireFromString(price),
		Quantity:     quantity,
		DiscountType: enums.DiscountTypePercent,
	}
}

func TestEnrichResolvesCatalogFieldsAndDerivesAmounts(t *testing.T) {
	product := models.Product{ID: uuid.New(), SKU: "CH-1001", Name: "Ceramic Basin", Images: []string{"basin.jpg"}}
	loader := catalogWith(product)
	resolver, err := NewResolver(loader, false)
	if err != nil {
		t.Fatalf("building resolver: %v", err)
	}

	input := LineItemInput{
		ProductID:    product.ID,
		Price:        decimal.RequireFromString("100"),
		Quantity:     2,
		Discount:     decimal.RequireFromString("10"),
		DiscountType: enums.DiscountTypePercent,
		Tax:          decimal.RequireFromString("18"),
	}

	items, err := resolver.Enrich(context.Background(), []LineItemInput{input})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}

	item := items[0]
	if item.Name != "Ceramic Basin" || item.SKU != "CH-1001" {
		t.Fatalf("catalog fields not resolved: %+v", item)
	}
	if item.LineAmount.StringFixed(2) != "200.00" {
		t.Fatalf("lineAmount = %s, want 200.00", item.LineAmount.StringFixed(2))
	}
	if item.DiscountAmount.StringFixed(2) != "20.00" {
		t.Fatalf("discountAmount = %s, want 20.00", item.DiscountAmount.StringFixed(2))
	}
	if item.LineAfterDiscount.StringFixed(2) != "180.00" {
		t.Fatalf("lineAfterDiscount = %s, want 180.00", item.LineAfterDiscount.StringFixed(2))
	}
	if item.TaxAmount.StringFixed(2) != "32.40" {
		t.Fatalf("taxAmount = %s, want 32.40", item.TaxAmount.StringFixed(2))
	}
}

func TestEnrichBatchesDistinctProductIDs(t *testing.T) {
	first := models.Product{ID: uuid.New(), SKU: "A", Name: "First"}
	second := models.Product{ID: uuid.New(), SKU: "B", Name: "Second"}
	loader := catalogWith(first, second)
	resolver, _ := NewResolver(loader, false)

	inputs := []LineItemInput{
		lineInput(first.ID, "10", 1),
		lineInput(second.ID, "20", 1),
		lineInput(first.ID, "10", 3),
	}

	if _, err := resolver.Enrich(context.Background(), inputs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected a single batch lookup, got %d", loader.calls)
	}
	if len(loader.lastIDs) != 2 {
		t.Fatalf("expected 2 distinct ids in the batch, got %d", len(loader.lastIDs))
	}
}

func TestEnrichMissingProductFailsStrict(t *testing.T) {
	resolver, _ := NewResolver(catalogWith(), false)

	_, err := resolver.Enrich(context.Background(), []LineItemInput{lineInput(uuid.New(), "10", 1)})
	if err == nil {
		t.Fatalf("expected error for missing product")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestEnrichMissingProductBestEffortKeepsPricing(t *testing.T) {
	resolver, _ := NewResolver(catalogWith(), true)

	items, err := resolver.Enrich(context.Background(), []LineItemInput{lineInput(uuid.New(), "10", 2)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected the line to survive in best-effort mode")
	}
	if items[0].Name != "" {
		t.Fatalf("unresolved product should have no display name")
	}
	if items[0].LineAmount.StringFixed(2) != "20.00" {
		t.Fatalf("pricing must still run for unresolved products")
	}
}

func TestEnrichRejectsEmptyAndInvalidInput(t *testing.T) {
	resolver, _ := NewResolver(catalogWith(), false)

	if _, err := resolver.Enrich(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty input")
	}
	if _, err := resolver.Enrich(context.Background(), []LineItemInput{lineInput(uuid.Nil, "10", 1)}); err == nil {
		t.Fatalf("expected error for nil product id")
	}

	product := models.Product{ID: uuid.New(), Name: "Thing"}
	resolver, _ = NewResolver(catalogWith(product), false)
	bad := lineInput(product.ID, "10", 0)
	if _, err := resolver.Enrich(context.Background(), []LineItemInput{bad}); err == nil {
		t.Fatalf("expected error for zero quantity")
	}
}
