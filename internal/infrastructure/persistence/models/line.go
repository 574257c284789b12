package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tijara/backend/internal/domain/trade"
)

// LineColumns are the priced line columns shared by order and invoice item tables
type LineColumns struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Position    int             `gorm:"not null;default:0"`
	ProductID   *uuid.UUID      `gorm:"type:uuid;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,3);not null"`
	Unit        string          `gorm:"type:varchar(20)"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	VATRate     decimal.Decimal `gorm:"column:vat_rate;type:decimal(5,2);not null;default:0"`
	Total       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

func lineColumns(l trade.OrderLine, position int) LineColumns {
	return LineColumns{
		ID:          l.ID,
		Position:    position,
		ProductID:   l.ProductID,
		ProductName: l.ProductName,
		Quantity:    l.Quantity,
		Unit:        l.Unit,
		UnitPrice:   l.UnitPrice,
		VATRate:     l.VATRate,
		Total:       l.Total,
	}
}

func (c LineColumns) toLine() trade.OrderLine {
	return trade.OrderLine{
		ID:          c.ID,
		ProductID:   c.ProductID,
		ProductName: c.ProductName,
		Quantity:    c.Quantity,
		Unit:        c.Unit,
		UnitPrice:   c.UnitPrice,
		VATRate:     c.VATRate,
		Total:       c.Total,
	}
}
