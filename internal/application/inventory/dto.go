package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tijara/backend/internal/domain/catalog"
	"github.com/tijara/backend/internal/domain/inventory"
)

// AdjustStockRequest is a signed manual correction ("rectification")
type AdjustStockRequest struct {
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Reason    string          `json:"reason" binding:"max=255"`
	Reference string          `json:"reference" binding:"max=100"`
}

// HistoryFilter selects the movements shown in a product history
type HistoryFilter struct {
	Period string `form:"period" binding:"omitempty,oneof=all week month quarter"`
	Type   string `form:"type" binding:"omitempty,oneof=all orders adjustments initial"`
	Format string `form:"format" binding:"omitempty,oneof=csv xlsx"`
}

func (f HistoryFilter) query(now time.Time) inventory.HistoryQuery {
	q := inventory.HistoryQuery{
		Period: inventory.HistoryPeriod(f.Period),
		Type:   inventory.HistoryType(f.Type),
		Now:    now,
	}
	if q.Period == "" {
		q.Period = inventory.PeriodAll
	}
	if q.Type == "" {
		q.Type = inventory.HistoryAll
	}
	return q
}

// StockResponse is the stock position of one product
type StockResponse struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Unit         string          `json:"unit"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	CachedStock  decimal.Decimal `json:"cached_stock"`
	MinStock     decimal.Decimal `json:"min_stock"`
	IsLowStock   bool            `json:"is_low_stock"`
}

// MovementResponse is one ledger entry
type MovementResponse struct {
	ID            uuid.UUID                `json:"id"`
	ProductID     uuid.UUID                `json:"product_id"`
	Type          inventory.MovementType   `json:"type"`
	TypeLabel     string                   `json:"type_label"`
	Quantity      decimal.Decimal          `json:"quantity"`
	PreviousStock decimal.Decimal          `json:"previous_stock"`
	NewStock      decimal.Decimal          `json:"new_stock"`
	OccurredAt    time.Time                `json:"occurred_at"`
	Reason        string                   `json:"reason"`
	UserName      string                   `json:"user_name"`
	Reference     string                   `json:"reference,omitempty"`
	OrderID       *uuid.UUID               `json:"order_id,omitempty"`
	OrderDetails  *inventory.OrderSnapshot `json:"order_details,omitempty"`
}

// HistoryResponse is a product history with its summary header
type HistoryResponse struct {
	Stock     StockResponse            `json:"stock"`
	Summary   inventory.HistorySummary `json:"summary"`
	Movements []MovementResponse       `json:"movements"`
}

// RebuildCacheResponse lists the product caches rewritten from the ledger
type RebuildCacheResponse struct {
	Checked int                      `json:"checked"`
	Updated []inventory.ProductDrift `json:"updated"`
}

// ToStockResponse pairs a product with its ledger quantity
func ToStockResponse(p *catalog.Product, current decimal.Decimal) StockResponse {
	return StockResponse{
		ProductID:    p.ID,
		ProductName:  p.Name,
		Unit:         p.Unit,
		CurrentStock: current,
		CachedStock:  p.Stock,
		MinStock:     p.MinStock,
		IsLowStock:   p.IsLowStock(current),
	}
}

// ToMovementResponse converts a domain movement
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Type:          m.Type,
		TypeLabel:     m.Type.Label(),
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

// ToMovementResponses converts a slice of movements
func ToMovementResponses(ms []inventory.StockMovement) []MovementResponse {
	out := make([]MovementResponse, len(ms))
	for i := range ms {
		out[i] = ToMovementResponse(&ms[i])
	}
	return out
}
