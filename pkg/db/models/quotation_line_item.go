package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rocklimedev/quotations-backend/pkg/enums"
)

// QuotationLineItem is the priced snapshot of one quoted product. It is
// written twice on create: into the line items document and into the
// header's denormalized products column. Catalog fields are copied at
// pricing time so later product edits never change an issued quotation.
type QuotationLineItem struct {
	ProductID    uuid.UUID          `json:"productId"`
	SKU          string             `json:"sku"`
	Name         string             `json:"name"`
	Images       []string           `json:"images,omitempty"`
	SellingPrice decimal.Decimal    `json:"sellingPrice"`
	Quantity     int                `json:"quantity"`
	Discount     decimal.Decimal    `json:"discount"`
	DiscountType enums.DiscountType `json:"discountType"`
	TaxPercent   decimal.Decimal    `json:"taxPercent"`

	// Derived amounts, filled by the pricing calculator.
	LineAmount        decimal.Decimal `json:"lineAmount"`
	DiscountAmount    decimal.Decimal `json:"discountAmount"`
	LineAfterDiscount decimal.Decimal `json:"lineAfterDiscount"`
	TaxAmount         decimal.Decimal `json:"taxAmount"`
	LineTotal         decimal.Decimal `json:"lineTotal"`
}

// QuotationLineItems is the jsonb-serialized snapshot collection.
type QuotationLineItems []QuotationLineItem
