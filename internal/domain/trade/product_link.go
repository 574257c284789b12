package trade

import (
	"context"

	"github.com/google/uuid"
)

// UnresolvedLine is an order line whose product name matched zero or several products
type UnresolvedLine struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	LineID      uuid.UUID `json:"line_id"`
	ProductName string    `json:"product_name"`
	Matches     int       `json:"matches"`
}

// ProductLinkReport summarizes a product id backfill over legacy order lines
type ProductLinkReport struct {
	Scanned    int              `json:"scanned"`
	Linked     int              `json:"linked"`
	Unresolved []UnresolvedLine `json:"unresolved"`
}

// ProductLinker resolves order lines stored without a product id.
// A line is linked only when its name matches exactly one product.
type ProductLinker interface {
	LinkProducts(ctx context.Context, tenantID uuid.UUID) (ProductLinkReport, error)
}
