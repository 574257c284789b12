package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tijara/backend/internal/domain/shared"
	"github.com/tijara/backend/internal/domain/trade"
	"github.com/tijara/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Purchase order filter keys
const (
	PurchaseOrderFilterStatus     = trade.FilterStatus
	PurchaseOrderFilterSupplierID = trade.FilterSupplierID
)

// GormPurchaseOrderRepository implements trade.PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByIDForTenant finds a purchase order with its items
func (r *GormPurchaseOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var m models.PurchaseOrderModel
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&m).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists purchase orders
func (r *GormPurchaseOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.PurchaseOrder, error) {
	q := paginate(r.applyFilter(r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}), tenantID, filter),
		filter, PurchaseOrderSortFields, "order_date")
	return r.find(q)
}

// CountForTenant counts purchase orders matching filter
func (r *GormPurchaseOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var n int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}), tenantID, filter).Count(&n).Error
	return n, err
}

// FindBySupplier returns the purchase orders of a supplier, newest first
func (r *GormPurchaseOrderRepository) FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) ([]trade.PurchaseOrder, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ? AND supplier_id = ?", tenantID, supplierID).
		Order("order_date DESC"))
}

// Save creates or updates the purchase order and replaces its items
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *trade.PurchaseOrder) error {
	m := models.PurchaseOrderModelFromDomain(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(m).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", m.ID).Delete(&models.PurchaseOrderItemModel{}).Error; err != nil {
			return err
		}
		if len(m.Items) == 0 {
			return nil
		}
		return tx.Create(&m.Items).Error
	})
}

// GenerateOrderNumber returns the next BC-YYYY-NNNNN number of the current year
func (r *GormPurchaseOrderRepository) GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return nextOrderNumber(ctx, r.db, &models.PurchaseOrderModel{}, tenantID, fmt.Sprintf("BC-%d-", time.Now().Year()))
}

func (r *GormPurchaseOrderRepository) find(q *gorm.DB) ([]trade.PurchaseOrder, error) {
	var ms []models.PurchaseOrderModel
	if err := q.Preload("Items").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]trade.PurchaseOrder, len(ms))
	for i := range ms {
		out[i] = *ms[i].ToDomain()
	}
	return out, nil
}

func (r *GormPurchaseOrderRepository) applyFilter(q *gorm.DB, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	q = q.Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		q = q.Where("LOWER(order_number)"+likeClause, likePattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case PurchaseOrderFilterStatus:
			if s, ok := value.(trade.PurchaseOrderStatus); ok && s != "" {
				q = q.Where("status = ?", s)
			}
		case PurchaseOrderFilterSupplierID:
			if id, ok := value.(uuid.UUID); ok {
				q = q.Where("supplier_id = ?", id)
			}
		}
	}
	return q
}

var _ trade.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
