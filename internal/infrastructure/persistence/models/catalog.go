package models

import (
	"github.com/shopspring/decimal"
	"github.com/tijara/backend/internal/domain/catalog"
)

// ProductModel is the persistence model for the Product aggregate
type ProductModel struct {
	TenantAggregateModel
	Name          string          `gorm:"type:varchar(200);not null;index"`
	Category      string          `gorm:"type:varchar(100)"`
	Unit          string          `gorm:"type:varchar(20);not null"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	InitialStock  decimal.Decimal `gorm:"type:decimal(18,3);not null;default:0"`
	MinStock      decimal.Decimal `gorm:"type:decimal(18,3);not null;default:0"`
	Stock         decimal.Decimal `gorm:"type:decimal(18,3);not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		TenantAggregateRoot: m.Aggregate(),
		Name:                m.Name,
		Category:            m.Category,
		Unit:                m.Unit,
		PurchasePrice:       m.PurchasePrice,
		SalePrice:           m.SalePrice,
		InitialStock:        m.InitialStock,
		MinStock:            m.MinStock,
		Stock:               m.Stock,
	}
}

// ProductModelFromDomain builds the model of p
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		Name:          p.Name,
		Category:      p.Category,
		Unit:          p.Unit,
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		InitialStock:  p.InitialStock,
		MinStock:      p.MinStock,
		Stock:         p.Stock,
	}
	m.FromAggregate(p.TenantAggregateRoot)
	return m
}
