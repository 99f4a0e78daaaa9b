package quotations

import (
	"time"

	"github.com/google/uuid"

	"github.com/rocklimedev/quotations-backend/pkg/db/models"
)

// LineItemsDocument is the document-store record holding the ordered,
// enriched line items of one quotation. It exists if and only if a
// committed header row with the same quotation id exists; the persistence
// coordinator enforces that invariant.
type LineItemsDocument struct {
	QuotationID uuid.UUID                 `json:"quotationId"`
	Items       models.QuotationLineItems `json:"items"`
	WrittenAt   time.Time                 `json:"writtenAt"`
}
