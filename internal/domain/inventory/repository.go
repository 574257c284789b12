package inventory

import (
	"context"

	"github.com/google/uuid"
)

// StockMovementRepository persists the append-only movement ledger.
// Movements are never updated or deleted.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *StockMovement) error
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]StockMovement, error)
	FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]StockMovement, error)
	FindByTypes(ctx context.Context, tenantID uuid.UUID, types ...MovementType) ([]StockMovement, error)
}
