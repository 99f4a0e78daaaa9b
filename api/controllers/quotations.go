package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rocklimedev/quotations-backend/api/responses"
	"github.com/rocklimedev/quotations-backend/api/validators"
	"github.com/rocklimedev/quotations-backend/internal/pricing"
	quotationsvc "github.com/rocklimedev/quotations-backend/internal/quotations"
	"github.com/rocklimedev/quotations-backend/pkg/db/models"
	"github.com/rocklimedev/quotations-backend/pkg/enums"
	pkgerrors "github.com/rocklimedev/quotations-backend/pkg/errors"
	"github.com/rocklimedev/quotations-backend/pkg/logger"
	"github.com/rocklimedev/quotations-backend/pkg/pagination"
)

// CreateQuotation prices and persists a new quotation from raw line items.
func CreateQuotation(svc quotationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotation service unavailable"))
			return
		}

		var payload createQuotationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newCreateQuotationResponse(result))
	}
}

// GetQuotation returns one quotation with its line items and breakdown.
func GetQuotation(svc quotationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotation service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "quotationId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "quotation id must be a uuid"))
			return
		}

		result, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCreateQuotationResponse(result))
	}
}

// ListQuotations pages quotation headers newest first.
func ListQuotations(svc quotationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotation service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var customerID *uuid.UUID
		if raw := strings.TrimSpace(r.URL.Query().Get("customerId")); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "customerId must be a uuid"))
				return
			}
			customerID = &id
		}

		var status *enums.QuotationStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseQuotationStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid quotation status").
					WithDetails(map[string]any{"status": raw}))
				return
			}
			status = &parsed
		}

		page, err := svc.List(r.Context(), quotationsvc.ListQuery{
			Page: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
			CustomerID: customerID,
			Status:     status,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newQuotationListResponse(page))
	}
}

type createQuotationRequest struct {
	CustomerID       uuid.UUID  `json:"customerId" validate:"required"`
	ShipTo           *uuid.UUID `json:"shipTo,omitempty"`
	BillingAddressID *uuid.UUID `json:"billingAddressId,omitempty"`
	CreatedBy        *uuid.UUID `json:"createdBy,omitempty"`

	Products []lineItemRequest `json:"products" validate:"required,min=1,dive"`

	ExtraDiscount     decimal.Decimal `json:"extraDiscount"`
	ExtraDiscountType string          `json:"extraDiscountType" validate:"omitempty,oneof=percent fixed"`
	ShippingAmount    decimal.Decimal `json:"shippingAmount"`
	Gst               decimal.Decimal `json:"gst"`

	DocumentTitle  string  `json:"document_title"`
	QuotationDate  string  `json:"quotation_date" validate:"omitempty"`
	DueDate        string  `json:"due_date" validate:"omitempty"`
	SignatureName  *string `json:"signature_name,omitempty"`
	SignatureImage *string `json:"signature_image,omitempty"`

	// Accepted so legacy clients that echo computed totals still decode,
	// never read: every amount is recomputed server-side.
	FinalAmount *decimal.Decimal `json:"finalAmount,omitempty"`
	RoundOff    *decimal.Decimal `json:"roundOff,omitempty"`
}

type lineItemRequest struct {
	ProductID    uuid.UUID       `json:"productId" validate:"required"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity" validate:"required,min=1"`
	Discount     decimal.Decimal `json:"discount"`
	DiscountType string          `json:"discountType" validate:"omitempty,oneof=percent fixed"`
	Tax          decimal.Decimal `json:"tax"`

	// Same deal as the header totals: decoded, then discarded.
	Total *decimal.Decimal `json:"total,omitempty"`
}

func (req createQuotationRequest) toInput() (quotationsvc.CreateQuotationInput, error) {
	extraType, err := enums.ParseDiscountType(req.ExtraDiscountType)
	if err != nil {
		return quotationsvc.CreateQuotationInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid extra discount type")
	}

	quotationDate, err := parseRequestDate(req.QuotationDate)
	if err != nil {
		return quotationsvc.CreateQuotationInput{}, pkgerrors.New(pkgerrors.CodeValidation, "quotation_date must be an ISO date")
	}
	var dueDate *time.Time
	if strings.TrimSpace(req.DueDate) != "" {
		parsed, err := parseRequestDate(req.DueDate)
		if err != nil {
			return quotationsvc.CreateQuotationInput{}, pkgerrors.New(pkgerrors.CodeValidation, "due_date must be an ISO date")
		}
		dueDate = &parsed
	}

	lines := make([]quotationsvc.LineItemInput, 0, len(req.Products))
	for _, item := range req.Products {
		discountType, err := enums.ParseDiscountType(item.DiscountType)
		if err != nil {
			return quotationsvc.CreateQuotationInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid line discount type").
				WithDetails(map[string]any{"productId": item.ProductID})
		}
		lines = append(lines, quotationsvc.LineItemInput{
			ProductID:    item.ProductID,
			Price:        item.Price,
			Quantity:     item.Quantity,
			Discount:     item.Discount,
			DiscountType: discountType,
			Tax:          item.Tax,
		})
	}

	return quotationsvc.CreateQuotationInput{
		CustomerID:        req.CustomerID,
		BillingAddressID:  req.BillingAddressID,
		ShippingAddressID: req.ShipTo,
		DocumentTitle:     req.DocumentTitle,
		QuotationDate:     quotationDate,
		DueDate:           dueDate,
		SignatureName:     req.SignatureName,
		SignatureImage:    req.SignatureImage,
		CreatedBy:         req.CreatedBy,
		Lines:             lines,
		ExtraDiscount:     req.ExtraDiscount,
		ExtraDiscountType: extraType,
		ShippingAmount:    req.ShippingAmount,
		GstPercent:        req.Gst,
	}, nil
}

func parseRequestDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

type quotationResponse struct {
	QuotationID     uuid.UUID  `json:"quotationId"`
	ReferenceNumber string     `json:"referenceNumber"`
	DocumentTitle   string     `json:"document_title"`
	CustomerID      uuid.UUID  `json:"customerId"`
	ShipTo          *uuid.UUID `json:"shipTo,omitempty"`
	BillingAddress  *uuid.UUID `json:"billingAddressId,omitempty"`
	Status          string     `json:"status"`
	CreatedBy       uuid.UUID  `json:"createdBy"`
	QuotationDate   time.Time  `json:"quotation_date"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`

	Products []models.QuotationLineItem `json:"products"`

	FinalAmount decimal.Decimal `json:"finalAmount"`
}

type calculatedResponse struct {
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

type createQuotationResponse struct {
	Quotation  quotationResponse  `json:"quotation"`
	Calculated calculatedResponse `json:"calculated"`
}

type quotationSummary struct {
	QuotationID     uuid.UUID       `json:"quotationId"`
	ReferenceNumber string          `json:"referenceNumber"`
	DocumentTitle   string          `json:"document_title"`
	CustomerID      uuid.UUID       `json:"customerId"`
	Status          string          `json:"status"`
	QuotationDate   time.Time       `json:"quotation_date"`
	FinalAmount     decimal.Decimal `json:"finalAmount"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type quotationListResponse struct {
	Quotations []quotationSummary `json:"quotations"`
	NextCursor string             `json:"nextCursor,omitempty"`
}

func newCreateQuotationResponse(result *quotationsvc.QuotationResult) createQuotationResponse {
	if result == nil || result.Header == nil {
		return createQuotationResponse{}
	}
	header := result.Header
	return createQuotationResponse{
		Quotation: quotationResponse{
			QuotationID:     header.ID,
			ReferenceNumber: header.ReferenceNumber,
			DocumentTitle:   header.DocumentTitle,
			CustomerID:      header.CustomerID,
			ShipTo:          header.ShippingAddressID,
			BillingAddress:  header.BillingAddressID,
			Status:          string(header.Status),
			CreatedBy:       header.CreatedBy,
			QuotationDate:   header.QuotationDate,
			DueDate:         header.DueDate,
			CreatedAt:       header.CreatedAt,
			Products:        result.Items,
			FinalAmount:     header.FinalAmount,
		},
		Calculated: newCalculatedResponse(result.Breakdown),
	}
}

func newCalculatedResponse(breakdown pricing.Breakdown) calculatedResponse {
	return calculatedResponse{
		SubTotal:            breakdown.SubTotal,
		TotalItemDiscount:   breakdown.TotalItemDiscount,
		TaxableAmount:       breakdown.TaxableAmount,
		ItemTax:             breakdown.ItemTax,
		ShippingAmount:      breakdown.ShippingAmount,
		ExtraDiscountAmount: breakdown.ExtraDiscountAmount,
		AmountBeforeGst:     breakdown.AmountBeforeGst,
		RoundOff:            breakdown.RoundOff,
		RoundedAmount:       breakdown.RoundedAmount,
		GstAmount:           breakdown.GstAmount,
		FinalAmount:         breakdown.FinalAmount,
	}
}

func newQuotationListResponse(page pagination.Page[models.Quotation]) quotationListResponse {
	summaries := make([]quotationSummary, 0, len(page.Items))
	for _, header := range page.Items {
		summaries = append(summaries, quotationSummary{
			QuotationID:     header.ID,
			ReferenceNumber: header.ReferenceNumber,
			DocumentTitle:   header.DocumentTitle,
			CustomerID:      header.CustomerID,
			Status:          string(header.Status),
			QuotationDate:   header.QuotationDate,
			FinalAmount:     header.FinalAmount,
			CreatedAt:       header.CreatedAt,
		})
	}
	return quotationListResponse{
		Quotations: summaries,
		NextCursor: page.NextCursor,
	}
}
