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

// GormSalesOrderRepository implements trade.SalesOrderRepository using GORM
type GormSalesOrderRepository struct {
	db        *gorm.DB
	forUpdate bool
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

func (r *GormSalesOrderRepository) locking() *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: r.db, forUpdate: true}
}

// FindByIDForTenant finds a sales order with its items
func (r *GormSalesOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.SalesOrder, error) {
	q := r.db.WithContext(ctx)
	if r.forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var m models.SalesOrderModel
	if err := q.Where("tenant_id = ? AND id = ?", tenantID, id).First(&m).Error; err != nil {
		return nil, translateNotFound(err)
	}
	if err := r.db.WithContext(ctx).Where("order_id = ?", m.ID).Order("position").Find(&m.Items).Error; err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists orders; a zero filter returns all of them
func (r *GormSalesOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.SalesOrder, error) {
	q := paginate(r.applyFilter(r.db.WithContext(ctx).Model(&models.SalesOrderModel{}), tenantID, filter),
		filter, SalesOrderSortFields, "order_date")
	return r.find(q)
}

// CountForTenant counts orders matching filter
func (r *GormSalesOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var n int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.SalesOrderModel{}), tenantID, filter).Count(&n).Error
	return n, err
}

// FindByClient returns the orders of a client, newest first
func (r *GormSalesOrderRepository) FindByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]trade.SalesOrder, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ? AND client_id = ?", tenantID, clientID).
		Order("order_date DESC"))
}

// FindByStatus returns the orders in status
func (r *GormSalesOrderRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status trade.OrderStatus) ([]trade.SalesOrder, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, status).
		Order("order_date DESC"))
}

// FindDeliveredByProduct returns delivered orders with a line linked to productID
func (r *GormSalesOrderRepository) FindDeliveredByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]trade.SalesOrder, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, trade.OrderStatusDelivered).
		Where("EXISTS (SELECT 1 FROM sales_order_items i WHERE i.order_id = sales_orders.id AND i.product_id = ?)", productID).
		Order("order_date DESC"))
}

// Save creates or updates the order and replaces its items
func (r *GormSalesOrderRepository) Save(ctx context.Context, order *trade.SalesOrder) error {
	m := models.SalesOrderModelFromDomain(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(m).Error; err != nil {
			return err
		}
		ids := make([]uuid.UUID, len(m.Items))
		for i := range m.Items {
			ids[i] = m.Items[i].ID
		}
		del := tx.Where("order_id = ?", m.ID)
		if len(ids) > 0 {
			del = del.Where("id NOT IN ?", ids)
		}
		if err := del.Delete(&models.SalesOrderItemModel{}).Error; err != nil {
			return err
		}
		for i := range m.Items {
			if err := tx.Save(&m.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteForTenant removes an order and its items
func (r *GormSalesOrderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.SalesOrderModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("order_id = ?", id).Delete(&models.SalesOrderItemModel{}).Error
	})
}

// GenerateOrderNumber returns the next CMD-YYYY-NNNNN number of the current year
func (r *GormSalesOrderRepository) GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return nextOrderNumber(ctx, r.db, &models.SalesOrderModel{}, tenantID, fmt.Sprintf("CMD-%d-", time.Now().Year()))
}

func (r *GormSalesOrderRepository) find(q *gorm.DB) ([]trade.SalesOrder, error) {
	var ms []models.SalesOrderModel
	if err := q.Preload("Items").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]trade.SalesOrder, len(ms))
	for i := range ms {
		out[i] = *ms[i].ToDomain()
	}
	return out, nil
}

func (r *GormSalesOrderRepository) applyFilter(q *gorm.DB, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	q = q.Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		p := likePattern(filter.Search)
		q = q.Where("LOWER(order_number)"+likeClause+" OR LOWER(client_name)"+likeClause+
			" OR EXISTS (SELECT 1 FROM sales_order_items i WHERE i.order_id = sales_orders.id AND LOWER(i.product_name)"+likeClause+")",
			p, p, p)
	}
	for key, value := range filter.Filters {
		switch key {
		case trade.FilterStatus:
			if s, ok := value.(trade.OrderStatus); ok && s != "" {
				q = q.Where("status = ?", s)
			}
		case trade.FilterClientID:
			if id, ok := value.(uuid.UUID); ok {
				q = q.Where("client_id = ?", id)
			}
		case trade.FilterDateFrom:
			if t, ok := value.(time.Time); ok {
				q = q.Where("order_date >= ?", t)
			}
		case trade.FilterDateTo:
			if t, ok := value.(time.Time); ok {
				q = q.Where("order_date < ?", t)
			}
		}
	}
	return q
}

var _ trade.SalesOrderRepository = (*GormSalesOrderRepository)(nil)
