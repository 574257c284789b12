package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/tijara/backend/internal/domain/shared"
)

// Filter keys understood by product repositories
const (
	FilterCategory = "category"
	FilterLowStock = "low_stock" // bool, compares the cached stock
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)

	// FindByIDs returns the products found; missing ids are skipped
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Product, error)

	// FindByName matches case-insensitively on the exact trimmed name
	FindByName(ctx context.Context, tenantID uuid.UUID, name string) ([]Product, error)

	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	Save(ctx context.Context, product *Product) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// IsReferenced reports whether any order line points at the product
	IsReferenced(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
}
