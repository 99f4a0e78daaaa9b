package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rocklimedev/quotations-backend/internal/pricing"
	quotationsvc "github.com/rocklimedev/quotations-backend/internal/quotations"
	"github.com/rocklimedev/quotations-backend/pkg/db/models"
	"github.com/rocklimedev/quotations-backend/pkg/enums"
	pkgerrors "github.com/rocklimedev/quotations-backend/pkg/errors"
	"github.com/rocklimedev/quotations-backend/pkg/pagination"
)

type stubQuotationService struct {
	createInput *quotationsvc.CreateQuotationInput
	listQuery   *quotationsvc.ListQuery
	result      *quotationsvc.QuotationResult
	listPage    pagination.Page[models.Quotation]
	err         error
}

func (s *stubQuotationService) Create(ctx context.Context, input quotationsvc.CreateQuotationInput) (*quotationsvc.QuotationResult, error) {
	s.createInput = &input
	return s.result, s.err
}

func (s *stubQuotationService) Get(ctx context.Context, id uuid.UUID) (*quotationsvc.QuotationResult, error) {
	return s.result, s.err
}

func (s *stubQuotationService) List(ctx context.Context, query quotationsvc.ListQuery) (pagination.Page[models.Quotation], error) {
	s.listQuery = &query
	return s.listPage, s.err
}

func quotationFixture() *quotationsvc.QuotationResult {
	header := &models.Quotation{
		ID:              uuid.New(),
		ReferenceNumber: "QTN-20260115-ABCDEF12",
		DocumentTitle:   "Quotation",
		CustomerID:      uuid.New(),
		Status:          enums.QuotationStatusDraft,
		CreatedBy:       uuid.New(),
		QuotationDate:   time.Now().UTC(),
		FinalAmount:     decimal.RequireFromString("293.82"),
	}
	items := models.QuotationLineItems{
		{
			ProductID:    uuid.New(),
			SKU:          "SKU-1",
			Name:         "Basin Mixer",
			SellingPrice: decimal.RequireFromString("100"),
			Quantity:     2,
			LineTotal:    decimal.RequireFromString("212.40"),
		},
	}
	return &quotationsvc.QuotationResult{
		Header: header,
		Items:  items,
		Breakdown: pricing.Breakdown{
			SubTotal:            decimal.RequireFromString("200.00"),
			TotalItemDiscount:   decimal.RequireFromString("20.00"),
			ItemTax:             decimal.RequireFromString("32.40"),
			ShippingAmount:      decimal.RequireFromString("50.00"),
			ExtraDiscountAmount: decimal.RequireFromString("13.12"),
			AmountBeforeGst:     decimal.RequireFromString("249.28"),
			RoundOff:            decimal.RequireFromString("-0.28"),
			RoundedAmount:       decimal.RequireFromString("249.00"),
			GstAmount:           decimal.RequireFromString("44.82"),
			FinalAmount:         decimal.RequireFromString("293.82"),
		},
	}
}

func TestCreateQuotationSuccess(t *testing.T) {
	t.Parallel()

	svc := &stubQuotationService{result: quotationFixture()}
	handler := CreateQuotation(svc, nil)

	customerID := uuid.NewString()
	productID := uuid.NewString()
	body := `{
		"customerId": "` + customerID + `",
		"products": [
			{"productId": "` + productID + `", "price": 100, "quantity": 2, "discount": 10, "discountType": "percent", "tax": 18}
		],
		"extraDiscount": 5,
		"extraDiscountType": "percent",
		"shippingAmount": 50,
		"gst": 18,
		"document_title": "Bathroom refit",
		"quotation_date": "2026-01-15"
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data createQuotationResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.Calculated.FinalAmount.Equal(decimal.RequireFromString("293.82")) {
		t.Fatalf("unexpected final amount %s", envelope.Data.Calculated.FinalAmount)
	}
	if envelope.Data.Quotation.ReferenceNumber != "QTN-20260115-ABCDEF12" {
		t.Fatalf("unexpected reference number %s", envelope.Data.Quotation.ReferenceNumber)
	}

	if svc.createInput == nil {
		t.Fatal("service did not receive input")
	}
	if svc.createInput.CustomerID.String() != customerID {
		t.Fatalf("unexpected customer id %s", svc.createInput.CustomerID)
	}
	if len(svc.createInput.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(svc.createInput.Lines))
	}
	if svc.createInput.Lines[0].DiscountType != enums.DiscountTypePercent {
		t.Fatalf("unexpected discount type %s", svc.createInput.Lines[0].DiscountType)
	}
	if !svc.createInput.GstPercent.Equal(decimal.RequireFromString("18")) {
		t.Fatalf("unexpected gst percent %s", svc.createInput.GstPercent)
	}
	if svc.createInput.QuotationDate.Format("2006-01-02") != "2026-01-15" {
		t.Fatalf("unexpected quotation date %s", svc.createInput.QuotationDate)
	}
}

func TestCreateQuotationIgnoresForgedTotals(t *testing.T) {
	t.Parallel()

	svc := &stubQuotationService{result: quotationFixture()}
	handler := CreateQuotation(svc, nil)

	body := `{
		"customerId": "` + uuid.NewString() + `",
		"products": [
			{"productId": "` + uuid.NewString() + `", "price": 100, "quantity": 2, "tax": 18, "total": 1}
		],
		"gst": 18,
		"finalAmount": 0.01,
		"roundOff": 99
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data createQuotationResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.Calculated.FinalAmount.Equal(decimal.RequireFromString("293.82")) {
		t.Fatalf("forged totals leaked into response: %s", envelope.Data.Calculated.FinalAmount)
	}
	if !envelope.Data.Calculated.RoundOff.Equal(decimal.RequireFromString("-0.28")) {
		t.Fatalf("forged round off leaked into response: %s", envelope.Data.Calculated.RoundOff)
	}
}

func TestCreateQuotationValidationError(t *testing.T) {
	t.Parallel()

	handler := CreateQuotation(&stubQuotationService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotations", strings.NewReader(`{"products": []}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCreateQuotationNilService(t *testing.T) {
	t.Parallel()

	handler := CreateQuotation(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotations", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}

func TestGetQuotationNotFound(t *testing.T) {
	t.Parallel()

	svc := &stubQuotationService{err: pkgerrors.New(pkgerrors.CodeNotFound, "quotation not found")}

	r := chi.NewRouter()
	r.Get("/api/v1/quotations/{quotationId}", GetQuotation(svc, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotations/"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestGetQuotationRejectsMalformedID(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Get("/api/v1/quotations/{quotationId}", GetQuotation(&stubQuotationService{}, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotations/not-a-uuid", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestListQuotations(t *testing.T) {
	t.Parallel()

	headerID := uuid.New()
	svc := &stubQuotationService{
		listPage: pagination.Page[models.Quotation]{
			Items: []models.Quotation{
				{
					ID:              headerID,
					ReferenceNumber: "QTN-20260115-AAAA1111",
					Status:          enums.QuotationStatusDraft,
					FinalAmount:     decimal.RequireFromString("100.00"),
				},
			},
			NextCursor: "next-cursor",
		},
	}
	handler := ListQuotations(svc, nil)

	customerID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotations?limit=1&status=draft&customerId="+customerID.String(), nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.listQuery == nil || svc.listQuery.CustomerID == nil || *svc.listQuery.CustomerID != customerID {
		t.Fatalf("customer filter not forwarded: %+v", svc.listQuery)
	}
	if svc.listQuery.Page.Limit != 1 {
		t.Fatalf("unexpected limit %d", svc.listQuery.Page.Limit)
	}
	if svc.listQuery.Status == nil || *svc.listQuery.Status != enums.QuotationStatusDraft {
		t.Fatalf("status filter not forwarded: %+v", svc.listQuery)
	}

	var envelope struct {
		Data quotationListResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Quotations) != 1 {
		t.Fatalf("expected 1 quotation, got %d", len(envelope.Data.Quotations))
	}
	if envelope.Data.Quotations[0].QuotationID != headerID {
		t.Fatalf("unexpected quotation id %s", envelope.Data.Quotations[0].QuotationID)
	}
	if envelope.Data.NextCursor != "next-cursor" {
		t.Fatalf("unexpected next cursor %q", envelope.Data.NextCursor)
	}
}

func TestListQuotationsRejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	handler := ListQuotations(&stubQuotationService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotations?status=archived", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestListQuotationsRejectsBadLimit(t *testing.T) {
	t.Parallel()

	handler := ListQuotations(&stubQuotationService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotations?limit=0", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
