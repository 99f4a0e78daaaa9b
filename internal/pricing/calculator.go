package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rocklimedev/quotations-backend/pkg/db/models"
	"github.com/rocklimedev/quotations-backend/pkg/enums"
	pkgerrors "github.com/rocklimedev/quotations-backend/pkg/errors"
)

var (
	hundred = decimal.NewFromInt(100)
	fifty   = decimal.NewFromInt(50)
)

// Input carries the aggregate pricing knobs applied after line-level math.
type Input struct {
	ExtraDiscount     decimal.Decimal
	ExtraDiscountType enums.DiscountType
	ShippingAmount    decimal.Decimal
	GstPercent        decimal.Decimal
}

// Breakdown is the itemized server-computed total. Every field is rounded
// to two decimal places and is the only money figure ever persisted or
// returned; submitted totals are discarded before pricing runs.
type Breakdown struct {
	SubTotal            decimal.Decimal `json:"subTotal"`
	TotalItemDiscount   decimal.Decimal `json:"totalItemDiscount"`
	TaxableAmount       decimal.Decimal `json:"taxableAmount"`
	ItemTax             decimal.Decimal `json:"itemTax"`
	ShippingAmount      decimal.Decimal `json:"shippingAmount"`
	ExtraDiscountAmount decimal.Decimal `json:"extraDiscountAmount"`
	AmountBeforeGst     decimal.Decimal `json:"amountBeforeGst"`
	RoundOff            decimal.Decimal `json:"roundOff"`
	RoundedAmount       decimal.Decimal `json:"roundedAmount"`
	GstAmount           decimal.Decimal `json:"gstAmount"`
	FinalAmount         decimal.Decimal `json:"finalAmount"`
}

// LineResult holds the derived amounts for a single line.
type LineResult struct {
	LineAmount        decimal.Decimal
	DiscountAmount    decimal.Decimal
	LineAfterDiscount decimal.Decimal
	TaxAmount         decimal.Decimal
	LineTotal         decimal.Decimal
}

// ComputeLine derives the per-line amounts from the raw line inputs. The
// enrichment resolver and the aggregate calculator both go through this
// function so the persisted line total and the priced line total can never
// disagree.
func ComputeLine(price decimal.Decimal, quantity int, discount decimal.Decimal, discountType enums.DiscountType, taxPercent decimal.Decimal) (LineResult, error) {
	if err := validateLine(price, quantity, discount, discountType, taxPercent); err != nil {
		return LineResult{}, err
	}

	lineAmount := price.Mul(decimal.NewFromInt(int64(quantity))).Round(2)

	var discountAmount decimal.Decimal
	switch discountType {
	case enums.DiscountTypePercent:
		discountAmount = lineAmount.Mul(discount).Div(hundred).Round(2)
	case enums.DiscountTypeFixed:
		// Fixed discounts are a per-unit rate, not a flat line amount.
		discountAmount = discount.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
	}

	lineAfterDiscount := lineAmount.Sub(discountAmount).Round(2)

	taxAmount := decimal.Zero
	if taxPercent.IsPositive() {
		taxAmount = lineAfterDiscount.Mul(taxPercent).Div(hundred).Round(2)
	}

	return LineResult{
		LineAmount:        lineAmount,
		DiscountAmount:    discountAmount,
		LineAfterDiscount: lineAfterDiscount,
		TaxAmount:         taxAmount,
		LineTotal:         lineAfterDiscount.Add(taxAmount).Round(2),
	}, nil
}

// Compute prices the full quotation. The operation order is a contract:
// line discounts, line taxes, shipping, extra discount, rupee round-off,
// then GST on the already-rounded amount. Reordering changes the output.
func Compute(lines []models.QuotationLineItem, input Input) (Breakdown, error) {
	if len(lines) == 0 {
		return Breakdown{}, pkgerrors.New(pkgerrors.CodeValidation, "at least one line item is required")
	}
	if err := validateInput(input); err != nil {
		return Breakdown{}, err
	}

	// Validate every line before touching any totals so a bad line in the
	// middle never produces a partially priced result.
	results := make([]LineResult, len(lines))
	for i, line := range lines {
		result, err := ComputeLine(line.SellingPrice, line.Quantity, line.Discount, line.DiscountType, line.TaxPercent)
		if err != nil {
			return Breakdown{}, err
		}
		results[i] = result
	}

	subTotal := decimal.Zero
	totalItemDiscount := decimal.Zero
	taxableAmount := decimal.Zero
	itemTax := decimal.Zero
	for _, result := range results {
		subTotal = subTotal.Add(result.LineAmount)
		totalItemDiscount = totalItemDiscount.Add(result.DiscountAmount)
		taxableAmount = taxableAmount.Add(result.LineAfterDiscount)
		itemTax = itemTax.Add(result.TaxAmount)
	}
	subTotal = subTotal.Round(2)
	totalItemDiscount = totalItemDiscount.Round(2)
	taxableAmount = taxableAmount.Round(2)
	itemTax = itemTax.Round(2)

	shipping := input.ShippingAmount.Round(2)
	base := taxableAmount.Add(itemTax).Add(shipping)

	var extraDiscountAmount decimal.Decimal
	switch input.ExtraDiscountType {
	case enums.DiscountTypePercent:
		extraDiscountAmount = base.Mul(input.ExtraDiscount).Div(hundred).Round(2)
	case enums.DiscountTypeFixed:
		// Absolute amount, no scaling against the base.
		extraDiscountAmount = input.ExtraDiscount.Round(2)
	}

	amountBeforeGst := base.Sub(extraDiscountAmount).Round(2)
	if amountBeforeGst.IsNegative() {
		return Breakdown{}, pkgerrors.New(pkgerrors.CodeValidation, "extra discount exceeds the quotation amount")
	}

	roundOff := rupeeRoundOff(amountBeforeGst)
	roundedAmount := amountBeforeGst.Add(roundOff).Round(2)

	gstAmount := decimal.Zero
	if input.GstPercent.IsPositive() {
		gstAmount = roundedAmount.Mul(input.GstPercent).Div(hundred).Round(2)
	}

	return Breakdown{
		SubTotal:            subTotal,
		TotalItemDiscount:   totalItemDiscount,
		TaxableAmount:       taxableAmount,
		ItemTax:             itemTax,
		ShippingAmount:      shipping,
		ExtraDiscountAmount: extraDiscountAmount,
		AmountBeforeGst:     amountBeforeGst,
		RoundOff:            roundOff,
		RoundedAmount:       roundedAmount,
		GstAmount:           gstAmount,
		FinalAmount:         roundedAmount.Add(gstAmount).Round(2),
	}, nil
}

// rupeeRoundOff computes the adjustment that snaps the pre-GST amount to a
// whole rupee: paise of 50 or less round down, anything above rounds up.
func rupeeRoundOff(amount decimal.Decimal) decimal.Decimal {
	rupees := amount.Truncate(0)
	paise := amount.Sub(rupees).Mul(hundred).Round(0)
	if paise.IsZero() {
		return decimal.Zero
	}
	if paise.LessThanOrEqual(fifty) {
		return paise.Neg().Div(hundred).Round(2)
	}
	return hundred.Sub(paise).Div(hundred).Round(2)
}

func validateLine(price decimal.Decimal, quantity int, discount decimal.Decimal, discountType enums.DiscountType, taxPercent decimal.Decimal) error {
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "line price must not be negative")
	}
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be at least 1")
	}
	if discount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "line discount must not be negative")
	}
	if !discountType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown discount type %q", discountType))
	}
	if taxPercent.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "line tax must not be negative")
	}
	return nil
}

func validateInput(input Input) error {
	if input.ExtraDiscount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "extra discount must not be negative")
	}
	if !input.ExtraDiscountType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown extra discount type %q", input.ExtraDiscountType))
	}
	if input.ShippingAmount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping amount must not be negative")
	}
	if input.GstPercent.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "gst must not be negative")
	}
	return nil
}
