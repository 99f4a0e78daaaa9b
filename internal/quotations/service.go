package quotations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rocklimedev/quotations-backend/internal/pricing"
	"github.com/rocklimedev/quotations-backend/pkg/config"
	"github.com/rocklimedev/quotations-backend/pkg/db/models"
	"github.com/rocklimedev/quotations-backend/pkg/enums"
	pkgerrors "github.com/rocklimedev/quotations-backend/pkg/errors"
	"github.com/rocklimedev/quotations-backend/pkg/logger"
	"github.com/rocklimedev/quotations-backend/pkg/pagination"
)

type customerLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	FindAddressByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
}

type lineEnricher interface {
	Enrich(ctx context.Context, inputs []LineItemInput) (models.QuotationLineItems, error)
}

type persister interface {
	Persist(ctx context.Context, header *models.Quotation, doc *LineItemsDocument) (SagaState, error)
}

type headerReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Quotation, error)
	List(ctx context.Context, query ListQuery) (pagination.Page[models.Quotation], error)
}

type documentReader interface {
	Get(ctx context.Context, quotationID uuid.UUID) (*LineItemsDocument, error)
}

// Service exposes quotation creation and retrieval.
type Service interface {
	Create(ctx context.Context, input CreateQuotationInput) (*QuotationResult, error)
	Get(ctx context.Context, id uuid.UUID) (*QuotationResult, error)
	List(ctx context.Context, query ListQuery) (pagination.Page[models.Quotation], error)
}

type service struct {
	customers   customerLoader
	enricher    lineEnricher
	coordinator persister
	headers     headerReader
	documents   documentReader
	cfg         config.QuotationConfig
	logg        *logger.Logger
}

// NewService builds the quotation service backed by the provided stack.
func NewService(
	customers customerLoader,
	enricher lineEnricher,
	coordinator persister,
	headers headerReader,
	documents documentReader,
	cfg config.QuotationConfig,
	logg *logger.Logger,
) (Service, error) {
	if customers == nil {
		return nil, fmt.Errorf("customer loader required")
	}
	if enricher == nil {
		return nil, fmt.Errorf("line enricher required")
	}
	if coordinator == nil {
		return nil, fmt.Errorf("persistence coordinator required")
	}
	if headers == nil {
		return nil, fmt.Errorf("header reader required")
	}
	if documents == nil {
		return nil, fmt.Errorf("document reader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		customers:   customers,
		enricher:    enricher,
		coordinator: coordinator,
		headers:     headers,
		documents:   documents,
		cfg:         cfg,
		logg:        logg,
	}, nil
}

// Create validates references, enriches and prices the lines, then persists
// the header and document through the coordinator. It only reports success
// once both stores have committed.
func (s *service) Create(ctx context.Context, input CreateQuotationInput) (*QuotationResult, error) {
	ctx = s.logg.WithCustomerID(ctx, input.CustomerID.String())

	createdBy, err := s.resolveCreatedBy(input.CreatedBy)
	if err != nil {
		return nil, err
	}

	if err := s.checkReferences(ctx, input); err != nil {
		return nil, err
	}

	items, err := s.enricher.Enrich(ctx, input.Lines)
	if err != nil {
		return nil, err
	}

	breakdown, err := pricing.Compute(items, pricing.Input{
		ExtraDiscount:     input.ExtraDiscount,
		ExtraDiscountType: input.ExtraDiscountType,
		ShippingAmount:    input.ShippingAmount,
		GstPercent:        input.GstPercent,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	quotationDate := input.QuotationDate
	if quotationDate.IsZero() {
		quotationDate = now
	}

	header := &models.Quotation{
		ID:                  uuid.New(),
		DocumentTitle:       s.documentTitle(input.DocumentTitle),
		CustomerID:          input.CustomerID,
		BillingAddressID:    input.BillingAddressID,
		ShippingAddressID:   input.ShippingAddressID,
		QuotationDate:       quotationDate,
		DueDate:             input.DueDate,
		Status:              enums.QuotationStatusDraft,
		CreatedBy:           createdBy,
		SignatureName:       input.SignatureName,
		SignatureImage:      input.SignatureImage,
		SubTotal:            breakdown.SubTotal,
		TotalItemDiscount:   breakdown.TotalItemDiscount,
		ItemTax:             breakdown.ItemTax,
		ShippingAmount:      breakdown.ShippingAmount,
		ExtraDiscount:       input.ExtraDiscount,
		ExtraDiscountType:   input.ExtraDiscountType,
		ExtraDiscountAmount: breakdown.ExtraDiscountAmount,
		GstPercent:          input.GstPercent,
		GstAmount:           breakdown.GstAmount,
		RoundOff:            breakdown.RoundOff,
		FinalAmount:         breakdown.FinalAmount,
		Products:            items,
	}
	header.ReferenceNumber = s.referenceNumber(header.ID, now)

	doc := &LineItemsDocument{
		QuotationID: header.ID,
		Items:       items,
		WrittenAt:   now,
	}

	if _, err := s.coordinator.Persist(ctx, header, doc); err != nil {
		return nil, err
	}

	return &QuotationResult{Header: header, Items: items, Breakdown: breakdown}, nil
}

// Get loads the committed header and its line items document. When the
// document is gone (expired or reconciled away) the denormalized header
// snapshot keeps the quotation readable.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*QuotationResult, error) {
	header, err := s.headers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quotation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading quotation header")
	}

	items := header.Products
	doc, err := s.documents.Get(ctx, id)
	switch {
	case err == nil:
		items = doc.Items
	case pkgerrors.As(err) != nil && pkgerrors.As(err).Code() == pkgerrors.CodeNotFound:
		s.logg.Warn(ctx, "line items document missing, serving header snapshot")
	default:
		return nil, err
	}

	return &QuotationResult{
		Header:    header,
		Items:     items,
		Breakdown: breakdownFromHeader(header),
	}, nil
}

func (s *service) List(ctx context.Context, query ListQuery) (pagination.Page[models.Quotation], error) {
	page, err := s.headers.List(ctx, query)
	if err != nil {
		return pagination.Page[models.Quotation]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing quotations")
	}
	return page, nil
}

func (s *service) resolveCreatedBy(requested *uuid.UUID) (uuid.UUID, error) {
	if requested != nil && *requested != uuid.Nil {
		return *requested, nil
	}
	if fallback := s.cfg.CreatedByFallback(); fallback != nil {
		return *fallback, nil
	}
	return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "created by is required")
}

func (s *service) checkReferences(ctx context.Context, input CreateQuotationInput) error {
	if input.CustomerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if _, err := s.customers.FindByID(ctx, input.CustomerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "customer does not exist").
				WithDetails(map[string]any{"customerId": input.CustomerID})
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading customer")
	}

	for _, addressID := range []*uuid.UUID{input.BillingAddressID, input.ShippingAddressID} {
		if addressID == nil {
			continue
		}
		if _, err := s.customers.FindAddressByID(ctx, *addressID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "address does not exist").
					WithDetails(map[string]any{"addressId": *addressID})
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading address")
		}
	}
	return nil
}

func (s *service) documentTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Quotation"
	}
	return title
}

func (s *service) referenceNumber(id uuid.UUID, now time.Time) string {
	prefix := strings.TrimSpace(s.cfg.ReferencePrefix)
	if prefix == "" {
		prefix = "QTN"
	}
	short := strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), short)
}

func breakdownFromHeader(header *models.Quotation) pricing.Breakdown {
	taxable := header.SubTotal.Sub(header.TotalItemDiscount)
	rounded := header.FinalAmount.Sub(header.GstAmount)
	return pricing.Breakdown{
		SubTotal:            header.SubTotal,
		TotalItemDiscount:   header.TotalItemDiscount,
		TaxableAmount:       taxable,
		ItemTax:             header.ItemTax,
		ShippingAmount:      header.ShippingAmount,
		ExtraDiscountAmount: header.ExtraDiscountAmount,
		AmountBeforeGst:     rounded.Sub(header.RoundOff),
		RoundOff:            header.RoundOff,
		RoundedAmount:       rounded,
		GstAmount:           header.GstAmount,
		FinalAmount:         header.FinalAmount,
	}
}
