package quotations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/rocklimedev/quotations-backend/pkg/db"
	"github.com/rocklimedev/quotations-backend/pkg/db/models"
	pkgerrors "github.com/rocklimedev/quotations-backend/pkg/errors"
	"github.com/rocklimedev/quotations-backend/pkg/logger"
	"github.com/rocklimedev/quotations-backend/pkg/metrics"
)

// SagaState names the steps of the two-store persistence protocol. The
// coordinator reports the state it finished in so callers and tests can
// verify exactly which path ran.
type SagaState string

const (
	StateIdle                  SagaState = "idle"
	StateRelationalWriteStaged SagaState = "relational_write_staged"
	StateDocumentWritten       SagaState = "document_written"
	StateCommitted             SagaState = "committed"
	StateCompensating          SagaState = "compensating"
	StateRolledBack            SagaState = "rolled_back"
)

type txStarter interface {
	Begin(ctx context.Context) (HeaderTx, error)
}

type compensableDocumentStore interface {
	Put(ctx context.Context, doc *LineItemsDocument) error
	Delete(ctx context.Context, quotationID uuid.UUID) error
}

// Coordinator makes the header insert and the line items document write
// appear atomic. The protocol is: stage the header inside a relational
// transaction, write the document, then commit. A document failure rolls
// the transaction back; a commit failure after the document landed deletes
// the document again. Only a fully committed pair is ever reported as
// success.
type Coordinator struct {
	headers   txStarter
	documents compensableDocumentStore
	logg      *logger.Logger
	saga      *metrics.SagaMetrics
}

// NewCoordinator wires the persistence coordinator. Metrics may be nil.
func NewCoordinator(headers txStarter, documents compensableDocumentStore, logg *logger.Logger, saga *metrics.SagaMetrics) (*Coordinator, error) {
	if headers == nil {
		return nil, fmt.Errorf("header store required")
	}
	if documents == nil {
		return nil, fmt.Errorf("document store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Coordinator{
		headers:   headers,
		documents: documents,
		logg:      logg,
		saga:      saga,
	}, nil
}

// Persist runs the saga for one quotation. It returns the final state
// alongside any error; StateCommitted with a nil error is the only
// successful outcome.
func (c *Coordinator) Persist(ctx context.Context, header *models.Quotation, doc *LineItemsDocument) (SagaState, error) {
	started := time.Now()
	ctx = c.logg.WithQuotationID(ctx, header.ID.String())

	tx, err := c.headers.Begin(ctx)
	if err != nil {
		c.observe(metrics.OutcomeRolledBack, started)
		return StateIdle, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "beginning quotation transaction")
	}

	if err := tx.Insert(ctx, header); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			c.logg.Error(ctx, "rollback after failed header insert also failed", rbErr)
		}
		c.observe(metrics.OutcomeRolledBack, started)
		if db.IsUniqueViolation(err, "idx_quotations_reference_number") {
			return StateRolledBack, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "quotation reference number already exists").
				WithDetails(map[string]any{"referenceNumber": header.ReferenceNumber})
		}
		return StateRolledBack, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inserting quotation header")
	}

	// The document write is durable the moment it succeeds; from here on a
	// relational failure must be compensated, not just rolled back.
	if err := c.documents.Put(ctx, doc); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			c.logg.Error(ctx, "rollback after failed document write also failed", rbErr)
		}
		c.observe(metrics.OutcomeRolledBack, started)
		return StateRolledBack, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "writing line items document")
	}

	if err := tx.Commit(); err != nil {
		return c.compensate(ctx, header, err, started)
	}

	c.observe(metrics.OutcomeCommitted, started)
	return StateCommitted, nil
}

// compensate deletes the already-durable document after a failed commit so
// no orphaned line items document survives without a committed header.
func (c *Coordinator) compensate(ctx context.Context, header *models.Quotation, commitErr error, started time.Time) (SagaState, error) {
	c.logg.Warn(ctx, "quotation commit failed, compensating document write")

	if delErr := c.documents.Delete(ctx, header.ID); delErr != nil {
		// The document store now holds a record with no committed header.
		// This is a data consistency violation needing manual cleanup and
		// must never surface as an ordinary persistence failure.
		joined := multierr.Append(commitErr, delErr)
		c.logg.Error(ctx, "COMPENSATION FAILED: orphaned line items document requires manual reconciliation", joined)
		c.observe(metrics.OutcomeCompensationFailed, started)
		return StateCompensating, pkgerrors.Wrap(pkgerrors.CodeCompensation, joined,
			"compensating document delete failed after commit failure").
			WithDetails(map[string]any{"quotationId": header.ID})
	}

	c.observe(metrics.OutcomeCompensated, started)
	return StateRolledBack, pkgerrors.Wrap(pkgerrors.CodeDependency, commitErr, "committing quotation transaction")
}

func (c *Coordinator) observe(outcome string, started time.Time) {
	c.saga.ObserveRun(outcome, time.Since(started))
}
