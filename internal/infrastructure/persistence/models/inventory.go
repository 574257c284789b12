package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tijara/backend/internal/domain/inventory"
	"github.com/tijara/backend/internal/domain/shared"
)

// StockMovementModel is the persistence model for ledger entries
type StockMovementModel struct {
	ID            uuid.UUID                `gorm:"type:uuid;primaryKey"`
	TenantID      uuid.UUID                `gorm:"type:uuid;not null;index:idx_stock_movements_tenant_product,priority:1"`
	ProductID     uuid.UUID                `gorm:"type:uuid;not null;index:idx_stock_movements_tenant_product,priority:2"`
	Type          inventory.MovementType   `gorm:"type:varchar(30);not null;index"`
	Quantity      decimal.Decimal          `gorm:"type:decimal(18,3);not null"`
	PreviousStock decimal.Decimal          `gorm:"type:decimal(18,3);not null"`
	NewStock      decimal.Decimal          `gorm:"type:decimal(18,3);not null"`
	OccurredAt    time.Time                `gorm:"not null;index"`
	Reason        string                   `gorm:"type:varchar(500)"`
	UserName      string                   `gorm:"type:varchar(100);not null"`
	Reference     string                   `gorm:"type:varchar(100)"`
	OrderID       *uuid.UUID               `gorm:"type:uuid;index"`
	OrderDetails  *inventory.OrderSnapshot `gorm:"type:jsonb;serializer:json"`
	CreatedAt     time.Time                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts the model to a domain StockMovement
func (m *StockMovementModel) ToDomain() *inventory.StockMovement {
	return &inventory.StockMovement{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.CreatedAt,
		},
		TenantID:      m.TenantID,
		ProductID:     m.ProductID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		OccurredAt:    m.OccurredAt,
		Reason:        m.Reason,
		UserName:      m.UserName,
		Reference:     m.Reference,
		OrderID:       m.OrderID,
		OrderDetails:  m.OrderDetails,
	}
}

// StockMovementModelFromDomain builds the model of mv
func StockMovementModelFromDomain(mv *inventory.StockMovement) *StockMovementModel {
	return &StockMovementModel{
		ID:            mv.ID,
		TenantID:      mv.TenantID,
		ProductID:     mv.ProductID,
		Type:          mv.Type,
		Quantity:      mv.Quantity,
		PreviousStock: mv.PreviousStock,
		NewStock:      mv.NewStock,
		OccurredAt:    mv.OccurredAt,
		Reason:        mv.Reason,
		UserName:      mv.UserName,
		Reference:     mv.Reference,
		OrderID:       mv.OrderID,
		OrderDetails:  mv.OrderDetails,
		CreatedAt:     mv.CreatedAt,
	}
}
