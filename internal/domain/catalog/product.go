package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tijara/backend/internal/domain/shared"
)

// Product represents an item sold or bought by the company.
// Stock is a cache of the ledger quantity; the ledger formula is authoritative.
type Product struct {
	shared.TenantAggregateRoot
	Name          string
	Category      string
	Unit          string
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	InitialStock  decimal.Decimal
	MinStock      decimal.Decimal
	Stock         decimal.Decimal
}

// ProductInput carries the editable attributes of a product
type ProductInput struct {
	Name          string
	Category      string
	Unit          string
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	MinStock      decimal.Decimal
}

// NewProduct creates a new product with its initial stock
func NewProduct(tenantID uuid.UUID, in ProductInput, initialStock decimal.Decimal) (*Product, error) {
	if err := validateProductInput(in); err != nil {
		return nil, err
	}
	if initialStock.IsNegative() {
		return nil, shared.NewDomainError("INVALID_STOCK", "Initial stock cannot be negative")
	}

	product := &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(in.Name),
		Category:            strings.TrimSpace(in.Category),
		Unit:                strings.TrimSpace(in.Unit),
		PurchasePrice:       in.PurchasePrice,
		SalePrice:           in.SalePrice,
		InitialStock:        initialStock,
		MinStock:            in.MinStock,
		Stock:               initialStock,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update replaces the editable attributes. InitialStock is fixed at creation;
// later quantity changes go through stock adjustments.
func (p *Product) Update(in ProductInput) error {
	if err := validateProductInput(in); err != nil {
		return err
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Category = strings.TrimSpace(in.Category)
	p.Unit = strings.TrimSpace(in.Unit)
	p.PurchasePrice = in.PurchasePrice
	p.SalePrice = in.SalePrice
	p.MinStock = in.MinStock
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetCachedStock stores the quantity computed after a movement
func (p *Product) SetCachedStock(qty decimal.Decimal) {
	p.Stock = qty
	p.UpdatedAt = time.Now()
}

// IsLowStock reports whether qty has reached the reorder threshold
func (p *Product) IsLowStock(qty decimal.Decimal) bool {
	return qty.LessThanOrEqual(p.MinStock)
}

// Margin returns sale price minus purchase price
func (p *Product) Margin() decimal.Decimal {
	return p.SalePrice.Sub(p.PurchasePrice)
}

func validateProductInput(in ProductInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	if strings.TrimSpace(in.Unit) == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if in.PurchasePrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Purchase price cannot be negative")
	}
	if in.SalePrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Sale price cannot be negative")
	}
	if in.MinStock.IsNegative() {
		return shared.NewDomainError("INVALID_STOCK", "Minimum stock cannot be negative")
	}
	return nil
}
