package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tijara/backend/internal/domain/catalog"
	"github.com/tijara/backend/internal/domain/shared"
)

// Event type constants
const (
	EventTypeStockMovementRecorded = "StockMovementRecorded"
)

// StockMovementRecordedEvent is raised after a movement is committed
type StockMovementRecordedEvent struct {
	shared.BaseDomainEvent
	MovementID   uuid.UUID       `json:"movement_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	MovementType MovementType    `json:"movement_type"`
	Quantity     decimal.Decimal `json:"quantity"`
	NewStock     decimal.Decimal `json:"new_stock"`
	OrderID      *uuid.UUID      `json:"order_id,omitempty"`
}

// NewStockMovementRecordedEvent creates a new StockMovementRecordedEvent
func NewStockMovementRecordedEvent(m *StockMovement) *StockMovementRecordedEvent {
	return &StockMovementRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockMovementRecorded, catalog.AggregateTypeProduct, m.ProductID, m.TenantID),
		MovementID:      m.ID,
		ProductID:       m.ProductID,
		MovementType:    m.Type,
		Quantity:        m.Quantity,
		NewStock:        m.NewStock,
		OrderID:         m.OrderID,
	}
}
