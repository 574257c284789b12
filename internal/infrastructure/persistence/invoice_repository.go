package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tijara/backend/internal/domain/finance"
	"github.com/tijara/backend/internal/domain/shared"
	"github.com/tijara/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Invoice filter keys
const (
	InvoiceFilterStatus   = finance.FilterStatus
	InvoiceFilterClientID = finance.FilterClientID
)

// GormInvoiceRepository implements finance.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByIDForTenant finds an invoice with its items
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Invoice, error) {
	return r.first(r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id))
}

// FindByOrder finds the invoice generated from orderID
func (r *GormInvoiceRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*finance.Invoice, error) {
	return r.first(r.db.WithContext(ctx).Where("tenant_id = ? AND order_id = ?", tenantID, orderID))
}

// FindByClient returns the invoices of a client, newest first
func (r *GormInvoiceRepository) FindByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]finance.Invoice, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ? AND client_id = ?", tenantID, clientID).
		Order("invoice_date DESC"))
}

// FindAllForTenant lists invoices
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Invoice, error) {
	q := paginate(r.applyFilter(r.db.WithContext(ctx).Model(&models.InvoiceModel{}), tenantID, filter),
		filter, InvoiceSortFields, "invoice_date")
	return r.find(q)
}

// CountForTenant counts invoices matching filter
func (r *GormInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var n int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvoiceModel{}), tenantID, filter).Count(&n).Error
	return n, err
}

// Save writes the invoice and its items. A unique violation becomes
// finance.ErrAlreadyInvoiced when another invoice holds the order, and
// finance.ErrInvoiceNumberTaken otherwise.
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *finance.Invoice) error {
	m := models.InvoiceModelFromDomain(invoice)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(m).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", m.ID).Delete(&models.InvoiceItemModel{}).Error; err != nil {
			return err
		}
		if len(m.Items) == 0 {
			return nil
		}
		return tx.Create(&m.Items).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return r.duplicateError(ctx, invoice)
	}
	return err
}

func (r *GormInvoiceRepository) duplicateError(ctx context.Context, invoice *finance.Invoice) error {
	if invoice.OrderID != nil {
		existing, err := r.FindByOrder(ctx, invoice.TenantID, *invoice.OrderID)
		if err == nil && existing.ID != invoice.ID {
			return finance.ErrAlreadyInvoiced
		}
	}
	return finance.ErrInvoiceNumberTaken
}

// NextSequence increments and returns the invoice counter of (tenant, year)
func (r *GormInvoiceRepository) NextSequence(ctx context.Context, tenantID uuid.UUID, year int) (int, error) {
	var seq models.InvoiceSequenceModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := models.InvoiceSequenceModel{TenantID: tenantID, Year: year, LastValue: 1}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tenant_id"}, {Name: "year"}},
			DoUpdates: clause.Assignments(map[string]any{
				"last_value": gorm.Expr("invoice_sequences.last_value + 1"),
			}),
		}).Create(&row).Error; err != nil {
			return err
		}
		return tx.Where("tenant_id = ? AND year = ?", tenantID, year).First(&seq).Error
	})
	if err != nil {
		return 0, err
	}
	return seq.LastValue, nil
}

func (r *GormInvoiceRepository) first(q *gorm.DB) (*finance.Invoice, error) {
	var m models.InvoiceModel
	if err := q.Preload("Items").First(&m).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return m.ToDomain(), nil
}

func (r *GormInvoiceRepository) find(q *gorm.DB) ([]finance.Invoice, error) {
	var ms []models.InvoiceModel
	if err := q.Preload("Items").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]finance.Invoice, len(ms))
	for i := range ms {
		out[i] = *ms[i].ToDomain()
	}
	return out, nil
}

func (r *GormInvoiceRepository) applyFilter(q *gorm.DB, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	q = q.Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		q = q.Where("LOWER(invoice_number)"+likeClause, likePattern(filter.Search))
	}
	if s, ok := filter.Filters[InvoiceFilterStatus].(finance.InvoiceStatus); ok && s != "" {
		q = q.Where("status = ?", s)
	}
	if id, ok := filter.Filters[InvoiceFilterClientID].(uuid.UUID); ok {
		q = q.Where("client_id = ?", id)
	}
	return q
}

var _ finance.InvoiceRepository = (*GormInvoiceRepository)(nil)
