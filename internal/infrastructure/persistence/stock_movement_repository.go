package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tijara/backend/internal/domain/inventory"
	"github.com/tijara/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStockMovementRepository implements inventory.StockMovementRepository.
// It only inserts and reads; the ledger is append-only.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Create appends a movement
func (r *GormStockMovementRepository) Create(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(models.StockMovementModelFromDomain(movement)).Error
}

// FindByProduct returns the movements of a product, newest first
func (r *GormStockMovementRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]inventory.StockMovement, error) {
	return r.find(r.db.WithContext(ctx).Where("tenant_id = ? AND product_id = ?", tenantID, productID))
}

// FindByOrder returns the movements recorded for an order, newest first
func (r *GormStockMovementRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]inventory.StockMovement, error) {
	return r.find(r.db.WithContext(ctx).Where("tenant_id = ? AND order_id = ?", tenantID, orderID))
}

// FindByTypes returns the tenant's movements of the given types; no types means all
func (r *GormStockMovementRepository) FindByTypes(ctx context.Context, tenantID uuid.UUID, types ...inventory.MovementType) ([]inventory.StockMovement, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if len(types) > 0 {
		q = q.Where("type IN ?", types)
	}
	return r.find(q)
}

func (r *GormStockMovementRepository) find(q *gorm.DB) ([]inventory.StockMovement, error) {
	var ms []models.StockMovementModel
	if err := q.Order("occurred_at DESC").Order("created_at DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]inventory.StockMovement, len(ms))
	for i := range ms {
		out[i] = *ms[i].ToDomain()
	}
	return out, nil
}

var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
