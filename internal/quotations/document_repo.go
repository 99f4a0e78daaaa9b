package quotations

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/rocklimedev/quotations-backend/pkg/errors"
	"github.com/rocklimedev/quotations-backend/pkg/redis"
)

// DocumentStore is the document-side persistence surface the coordinator
// drives. Writes are durable immediately; there is no transaction to lean
// on, which is why Delete doubles as the compensation primitive.
type DocumentStore interface {
	Put(ctx context.Context, doc *LineItemsDocument) error
	Get(ctx context.Context, quotationID uuid.UUID) (*LineItemsDocument, error)
	Delete(ctx context.Context, quotationID uuid.UUID) error
}

type documentClient interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	QuotationLineItemsKey(quotationID string) string
}

type documentRepository struct {
	client documentClient
	ttl    time.Duration
}

// NewDocumentStore builds a redis-backed line items document store. A zero
// ttl keeps documents forever.
func NewDocumentStore(client documentClient, ttl time.Duration) DocumentStore {
	return &documentRepository{client: client, ttl: ttl}
}

func (r *documentRepository) Put(ctx context.Context, doc *LineItemsDocument) error {
	if doc == nil || doc.QuotationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "line items document requires a quotation id")
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding line items document")
	}

	key := r.client.QuotationLineItemsKey(doc.QuotationID.String())
	if err := r.client.Set(ctx, key, payload, r.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "writing line items document")
	}
	return nil
}

func (r *documentRepository) Get(ctx context.Context, quotationID uuid.UUID) (*LineItemsDocument, error) {
	key := r.client.QuotationLineItemsKey(quotationID.String())
	raw, err := r.client.Get(ctx, key)
	if err != nil {
		if redis.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "line items document not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading line items document")
	}

	var doc LineItemsDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding line items document")
	}
	return &doc, nil
}

func (r *documentRepository) Delete(ctx context.Context, quotationID uuid.UUID) error {
	key := r.client.QuotationLineItemsKey(quotationID.String())
	if err := r.client.Del(ctx, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting line items document")
	}
	return nil
}
