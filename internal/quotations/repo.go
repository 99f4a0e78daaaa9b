package quotations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rocklimedev/quotations-backend/pkg/db/models"
	"github.com/rocklimedev/quotations-backend/pkg/pagination"
)

// HeaderTx is one open relational transaction staging a quotation header.
// The coordinator owns the commit/rollback lifecycle explicitly because it
// must run document-store compensation when the commit itself fails.
type HeaderTx interface {
	Insert(ctx context.Context, header *models.Quotation) error
	Commit() error
	Rollback() error
}

// HeaderStore is the relational persistence surface for quotation headers.
type HeaderStore interface {
	Begin(ctx context.Context) (HeaderTx, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Quotation, error)
	List(ctx context.Context, query ListQuery) (pagination.Page[models.Quotation], error)
}

type txBeginner interface {
	BeginTx(ctx context.Context) (*gorm.DB, error)
}

type repository struct {
	db    *gorm.DB
	begin txBeginner
}

// NewRepository builds a quotations header repository. The beginner is
// typically the shared db client; it is separate from the query handle so
// tests can drive both through the same sqlite connection.
func NewRepository(db *gorm.DB, begin txBeginner) HeaderStore {
	return &repository{db: db, begin: begin}
}

func (r *repository) Begin(ctx context.Context) (HeaderTx, error) {
	tx, err := r.begin.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return &gormHeaderTx{tx: tx}, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Quotation, error) {
	var header models.Quotation
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&header).Error
	if err != nil {
		return nil, err
	}
	return &header, nil
}

func (r *repository) List(ctx context.Context, query ListQuery) (pagination.Page[models.Quotation], error) {
	tx := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(query.Page.Limit))

	if query.CustomerID != nil {
		tx = tx.Where("customer_id = ?", *query.CustomerID)
	}
	if query.Status != nil {
		tx = tx.Where("status = ?", *query.Status)
	}

	cursor, err := pagination.ParseCursor(query.Page.Cursor)
	if err != nil {
		return pagination.Page[models.Quotation]{}, err
	}
	if cursor != nil {
		tx = tx.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Quotation
	if err := tx.Find(&rows).Error; err != nil {
		return pagination.Page[models.Quotation]{}, err
	}

	page := pagination.TrimPage(rows, query.Page.Limit, func(q models.Quotation) pagination.Cursor {
		return pagination.Cursor{CreatedAt: q.CreatedAt, ID: q.ID}
	})
	return page, nil
}

type gormHeaderTx struct {
	tx *gorm.DB
}

func (t *gormHeaderTx) Insert(ctx context.Context, header *models.Quotation) error {
	return t.tx.WithContext(ctx).Create(header).Error
}

func (t *gormHeaderTx) Commit() error {
	return t.tx.Commit().Error
}

func (t *gormHeaderTx) Rollback() error {
	return t.tx.Rollback().Error
}
