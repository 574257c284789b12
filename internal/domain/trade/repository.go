package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/tijara/backend/internal/domain/shared"
)

// Filter keys understood by order repositories
const (
	FilterStatus   = "status"
	FilterClientID = "client_id"
	FilterDateFrom = "date_from" // time.Time, inclusive
	FilterDateTo   = "date_to"   // time.Time, exclusive

	FilterSupplierID = "supplier_id"
)

// SalesOrderRepository defines the interface for sales order persistence
type SalesOrderRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SalesOrder, error)

	// FindAllForTenant searches number, client name and product names with filter.Search
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SalesOrder, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	FindByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]SalesOrder, error)
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status OrderStatus) ([]SalesOrder, error)

	// FindDeliveredByProduct returns delivered orders having a line linked to productID
	FindDeliveredByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]SalesOrder, error)

	Save(ctx context.Context, order *SalesOrder) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// GenerateOrderNumber returns the next CMD-YYYY-NNNNN number
	GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrder, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) ([]PurchaseOrder, error)
	Save(ctx context.Context, order *PurchaseOrder) error

	// GenerateOrderNumber returns the next BC-YYYY-NNNNN number
	GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
