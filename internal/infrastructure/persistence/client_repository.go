package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tijara/backend/internal/domain/partner"
	"github.com/tijara/backend/internal/domain/shared"
	"github.com/tijara/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormClientRepository implements partner.ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByIDForTenant finds a client by ID within a tenant
func (r *GormClientRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Client, error) {
	var m models.ClientModel
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&m).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return m.ToDomain(), nil
}

// FindByICE finds the client holding an ICE
func (r *GormClientRepository) FindByICE(ctx context.Context, tenantID uuid.UUID, ice string) (*partner.Client, error) {
	var m models.ClientModel
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND ice = ?", tenantID, ice).First(&m).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists clients, searching name, ICE and email
func (r *GormClientRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Client, error) {
	var ms []models.ClientModel
	q := paginate(r.applyFilter(r.db.WithContext(ctx).Model(&models.ClientModel{}), tenantID, filter),
		filter, ClientSortFields, "name")
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]partner.Client, len(ms))
	for i := range ms {
		out[i] = *ms[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts clients matching filter
func (r *GormClientRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var n int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.ClientModel{}), tenantID, filter).Count(&n).Error
	return n, err
}

// Save creates or updates a client
func (r *GormClientRepository) Save(ctx context.Context, client *partner.Client) error {
	return r.db.WithContext(ctx).Save(models.ClientModelFromDomain(client)).Error
}

// DeleteForTenant removes a client
func (r *GormClientRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.ClientModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormClientRepository) applyFilter(q *gorm.DB, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	q = q.Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		p := likePattern(filter.Search)
		q = q.Where("LOWER(name)"+likeClause+" OR LOWER(ice)"+likeClause+" OR LOWER(email)"+likeClause, p, p, p)
	}
	return q
}

var _ partner.ClientRepository = (*GormClientRepository)(nil)
