package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rocklimedev/quotations-backend/pkg/enums"
)

// Quotation is the relational header row for a priced quotation. Monetary
// columns always store the server-computed breakdown; client-supplied
// totals are never written.
type Quotation struct {
	ID                uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ReferenceNumber   string                `gorm:"column:reference_number;not null;uniqueIndex:idx_quotations_reference_number"`
	DocumentTitle     string                `gorm:"column:document_title;not null"`
	CustomerID        uuid.UUID             `gorm:"column:customer_id;type:uuid;not null"`
	BillingAddressID  *uuid.UUID            `gorm:"column:billing_address_id;type:uuid"`
	ShippingAddressID *uuid.UUID            `gorm:"column:shipping_address_id;type:uuid"`
	QuotationDate     time.Time             `gorm:"column:quotation_date;not null"`
	DueDate           *time.Time            `gorm:"column:due_date"`
	Status            enums.QuotationStatus `gorm:"column:status;type:text;not null;default:'draft'"`
	CreatedBy         uuid.UUID             `gorm:"column:created_by;type:uuid;not null"`
	SignatureName     *string               `gorm:"column:signature_name"`
	SignatureImage    *string               `gorm:"column:signature_image"`

	SubTotal            decimal.Decimal    `gorm:"column:sub_total;type:numeric(12,2);not null"`
	TotalItemDiscount   decimal.Decimal    `gorm:"column:total_item_discount;type:numeric(12,2);not null"`
	ItemTax             decimal.Decimal    `gorm:"column:item_tax;type:numeric(12,2);not null"`
	ShippingAmount      decimal.Decimal    `gorm:"column:shipping_amount;type:numeric(12,2);not null;default:0"`
	ExtraDiscount       decimal.Decimal    `gorm:"column:extra_discount;type:numeric(12,2);not null;default:0"`
	ExtraDiscountType   enums.DiscountType `gorm:"column:extra_discount_type;type:text;not null;default:'percent'"`
	ExtraDiscountAmount decimal.Decimal    `gorm:"column:extra_discount_amount;type:numeric(12,2);not null;default:0"`
	GstPercent          decimal.Decimal    `gorm:"column:gst_percent;type:numeric(5,2);not null;default:0"`
	GstAmount           decimal.Decimal    `gorm:"column:gst_amount;type:numeric(12,2);not null;default:0"`
	RoundOff            decimal.Decimal    `gorm:"column:round_off;type:numeric(12,2);not null;default:0"`
	FinalAmount         decimal.Decimal    `gorm:"column:final_amount;type:numeric(12,2);not null"`

	// Products is the denormalized line snapshot kept on the header so a
	// quotation stays printable even when the line items document or the
	// catalog rows are gone.
	Products QuotationLineItems `gorm:"column:products;type:jsonb;serializer:json"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
