package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/tijara/backend/internal/domain/catalog"
	"github.com/tijara/backend/internal/domain/shared"
	"github.com/tijara/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Product filter keys
const (
	ProductFilterCategory = catalog.FilterCategory
	ProductFilterLowStock = catalog.FilterLowStock
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db        *gorm.DB
	forUpdate bool
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// locking returns a copy that reads rows with SELECT ... FOR UPDATE
func (r *GormProductRepository) locking() *GormProductRepository {
	return &GormProductRepository{db: r.db, forUpdate: true}
}

func (r *GormProductRepository) query(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	if r.forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// FindByIDForTenant finds a product by ID within a tenant
func (r *GormProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	var m models.ProductModel
	if err := r.query(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&m).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return m.ToDomain(), nil
}

// FindByIDs returns the products with the given ids, ordered by id
func (r *GormProductRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var ms []models.ProductModel
	if err := r.query(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Order("id").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	return productsToDomain(ms), nil
}

// FindByName matches the trimmed name case-insensitively
func (r *GormProductRepository) FindByName(ctx context.Context, tenantID uuid.UUID, name string) ([]catalog.Product, error) {
	var ms []models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND LOWER(TRIM(name)) = ?", tenantID, strings.ToLower(strings.TrimSpace(name))).
		Find(&ms).Error; err != nil {
		return nil, err
	}
	return productsToDomain(ms), nil
}

// FindAllForTenant lists products; a zero filter returns all of them
func (r *GormProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	var ms []models.ProductModel
	q := paginate(r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductModel{}), tenantID, filter),
		filter, ProductSortFields, "name")
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}
	return productsToDomain(ms), nil
}

// CountForTenant counts products matching filter
func (r *GormProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var n int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductModel{}), tenantID, filter).Count(&n).Error
	return n, err
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(models.ProductModelFromDomain(product)).Error
}

// DeleteForTenant removes a product
func (r *GormProductRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.ProductModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// IsReferenced reports whether a sales or purchase order line points at the product
func (r *GormProductRepository) IsReferenced(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.SalesOrderItemModel{}).
		Joins("JOIN sales_orders ON sales_orders.id = sales_order_items.order_id").
		Where("sales_orders.tenant_id = ? AND sales_order_items.product_id = ?", tenantID, id).
		Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}
	if err := r.db.WithContext(ctx).Model(&models.PurchaseOrderItemModel{}).
		Joins("JOIN purchase_orders ON purchase_orders.id = purchase_order_items.order_id").
		Where("purchase_orders.tenant_id = ? AND purchase_order_items.product_id = ?", tenantID, id).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormProductRepository) applyFilter(q *gorm.DB, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	q = q.Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		p := likePattern(filter.Search)
		q = q.Where("LOWER(name)"+likeClause+" OR LOWER(category)"+likeClause, p, p)
	}
	for key, value := range filter.Filters {
		switch key {
		case ProductFilterCategory:
			if s, ok := value.(string); ok && s != "" {
				q = q.Where("category = ?", s)
			}
		case ProductFilterLowStock:
			if b, ok := value.(bool); ok && b {
				q = q.Where("stock <= min_stock")
			}
		}
	}
	return q
}

func productsToDomain(ms []models.ProductModel) []catalog.Product {
	out := make([]catalog.Product, len(ms))
	for i := range ms {
		out[i] = *ms[i].ToDomain()
	}
	return out
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
