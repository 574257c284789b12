package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tijara/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=200"`
	Category      string          `json:"category" binding:"max=100"`
	Unit          string          `json:"unit" binding:"required,min=1,max=20"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	InitialStock  decimal.Decimal `json:"initial_stock"`
	MinStock      decimal.Decimal `json:"min_stock"`
}

func (r CreateProductRequest) input() catalog.ProductInput {
	return catalog.ProductInput{
		Name:          r.Name,
		Category:      r.Category,
		Unit:          r.Unit,
		PurchasePrice: r.PurchasePrice,
		SalePrice:     r.SalePrice,
		MinStock:      r.MinStock,
	}
}

// UpdateProductRequest replaces the editable attributes of a product.
// The initial stock cannot be changed; use an adjustment instead.
type UpdateProductRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=200"`
	Category      string          `json:"category" binding:"max=100"`
	Unit          string          `json:"unit" binding:"required,min=1,max=20"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	MinStock      decimal.Decimal `json:"min_stock"`
}

func (r UpdateProductRequest) input() catalog.ProductInput {
	return catalog.ProductInput{
		Name:          r.Name,
		Category:      r.Category,
		Unit:          r.Unit,
		PurchasePrice: r.PurchasePrice,
		SalePrice:     r.SalePrice,
		MinStock:      r.MinStock,
	}
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Category string `form:"category" binding:"max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=200"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product in API responses. CurrentStock is
// the ledger value; Stock is the cached copy.
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"`
	QuantityScale int32           `json:"quantity_scale"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Margin        decimal.Decimal `json:"margin"`
	InitialStock  decimal.Decimal `json:"initial_stock"`
	MinStock      decimal.Decimal `json:"min_stock"`
	Stock         decimal.Decimal `json:"stock"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	IsLowStock    bool            `json:"is_low_stock"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// ToProductResponse converts a domain Product; current is its ledger stock
func ToProductResponse(p *catalog.Product, current decimal.Decimal) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		TenantID:      p.TenantID,
		Name:          p.Name,
		Category:      p.Category,
		Unit:          p.Unit,
		QuantityScale: catalog.QuantityScale(p.Unit),
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		Margin:        p.Margin(),
		InitialStock:  p.InitialStock,
		MinStock:      p.MinStock,
		Stock:         p.Stock,
		CurrentStock:  current,
		IsLowStock:    p.IsLowStock(current),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Version:       p.Version,
	}
}
