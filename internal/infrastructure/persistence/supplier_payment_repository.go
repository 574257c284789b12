package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tijara/backend/internal/domain/finance"
	"github.com/tijara/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSupplierPaymentRepository implements finance.SupplierPaymentRepository using GORM
type GormSupplierPaymentRepository struct {
	db *gorm.DB
}

// NewGormSupplierPaymentRepository creates a new GormSupplierPaymentRepository
func NewGormSupplierPaymentRepository(db *gorm.DB) *GormSupplierPaymentRepository {
	return &GormSupplierPaymentRepository{db: db}
}

// FindBySupplier returns the payments made to a supplier, newest first
func (r *GormSupplierPaymentRepository) FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) ([]finance.SupplierPayment, error) {
	var ms []models.SupplierPaymentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND supplier_id = ?", tenantID, supplierID).
		Order("payment_date DESC").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]finance.SupplierPayment, len(ms))
	for i := range ms {
		out[i] = *ms[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates a payment
func (r *GormSupplierPaymentRepository) Save(ctx context.Context, payment *finance.SupplierPayment) error {
	return r.db.WithContext(ctx).Save(models.SupplierPaymentModelFromDomain(payment)).Error
}

var _ finance.SupplierPaymentRepository = (*GormSupplierPaymentRepository)(nil)
