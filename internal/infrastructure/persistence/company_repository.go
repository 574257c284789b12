package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tijara/backend/internal/domain/settings"
	"github.com/tijara/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCompanyRepository implements settings.CompanyRepository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// FindByTenant loads the saved profile of tenantID
func (r *GormCompanyRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) (*settings.CompanyProfile, error) {
	var m models.CompanySettingsModel
	if err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&m).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return m.ToDomain(), nil
}

// Save upserts the profile on tenant_id
func (r *GormCompanyRepository) Save(ctx context.Context, profile *settings.CompanyProfile) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}},
		UpdateAll: true,
	}).Create(models.CompanySettingsModelFromDomain(profile)).Error
}

var _ settings.CompanyRepository = (*GormCompanyRepository)(nil)
