package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tijara/backend/internal/domain/partner"
	"github.com/tijara/backend/internal/domain/shared"
	"github.com/tijara/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// SupplierFilterStatus filters suppliers by partner.SupplierStatus
const SupplierFilterStatus = partner.FilterSupplierStatus

// GormSupplierRepository implements partner.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByIDForTenant finds a supplier by ID within a tenant
func (r *GormSupplierRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Supplier, error) {
	var m models.SupplierModel
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&m).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists suppliers, searching name, ICE, contact name and email
func (r *GormSupplierRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Supplier, error) {
	var ms []models.SupplierModel
	q := paginate(r.applyFilter(r.db.WithContext(ctx).Model(&models.SupplierModel{}), tenantID, filter),
		filter, SupplierSortFields, "name")
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]partner.Supplier, len(ms))
	for i := range ms {
		out[i] = *ms[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts suppliers matching filter
func (r *GormSupplierRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var n int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.SupplierModel{}), tenantID, filter).Count(&n).Error
	return n, err
}

// Save creates or updates a supplier
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	return r.db.WithContext(ctx).Save(models.SupplierModelFromDomain(supplier)).Error
}

// DeleteForTenant removes a supplier
func (r *GormSupplierRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.SupplierModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormSupplierRepository) applyFilter(q *gorm.DB, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	q = q.Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		p := likePattern(filter.Search)
		q = q.Where("LOWER(name)"+likeClause+" OR LOWER(ice)"+likeClause+
			" OR LOWER(contact_name)"+likeClause+" OR LOWER(email)"+likeClause, p, p, p, p)
	}
	if v, ok := filter.Filters[SupplierFilterStatus].(partner.SupplierStatus); ok && v != "" {
		q = q.Where("status = ?", v)
	}
	return q
}

var _ partner.SupplierRepository = (*GormSupplierRepository)(nil)
