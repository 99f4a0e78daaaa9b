package quotations

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rocklimedev/quotations-backend/internal/pricing"
	"github.com/rocklimedev/quotations-backend/pkg/db/models"
	"github.com/rocklimedev/quotations-backend/pkg/enums"
	"github.com/rocklimedev/quotations-backend/pkg/pagination"
)

// LineItemInput is one raw quoted line as submitted by the caller. Totals
// are always recomputed server-side from these fields.
type LineItemInput struct {
	ProductID    uuid.UUID
	Price        decimal.Decimal
	Quantity     int
	Discount     decimal.Decimal
	DiscountType enums.DiscountType
	Tax          decimal.Decimal
}

// CreateQuotationInput is the normalized service-level payload for creating
// a quotation.
type CreateQuotationInput struct {
	CustomerID        uuid.UUID
	BillingAddressID  *uuid.UUID
	ShippingAddressID *uuid.UUID
	DocumentTitle     string
	QuotationDate     time.Time
	DueDate           *time.Time
	SignatureName     *string
	SignatureImage    *string
	CreatedBy         *uuid.UUID

	Lines             []LineItemInput
	ExtraDiscount     decimal.Decimal
	ExtraDiscountType enums.DiscountType
	ShippingAmount    decimal.Decimal
	GstPercent        decimal.Decimal
}

// ListQuery selects a page of quotation headers, optionally scoped to one
// customer and lifecycle status.
type ListQuery struct {
	Page       pagination.Params
	CustomerID *uuid.UUID
	Status     *enums.QuotationStatus
}

// QuotationResult bundles the committed header, the persisted line items
// and the computed breakdown returned to the caller.
type QuotationResult struct {
	Header    *models.Quotation
	Items     models.QuotationLineItems
	Breakdown pricing.Breakdown
}
