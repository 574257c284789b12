package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tijara/backend/internal/domain/shared"
	"github.com/tijara/backend/internal/domain/trade"
)

// MovementType classifies a stock movement
type MovementType string

const (
	MovementInitial           MovementType = "initial"
	MovementAdjustment        MovementType = "adjustment"
	MovementOrderOut          MovementType = "order_out"
	MovementOrderCancelReturn MovementType = "order_cancel_return"
)

// IsValid returns true if the movement type is known
func (t MovementType) IsValid() bool {
	switch t {
	case MovementInitial, MovementAdjustment, MovementOrderOut, MovementOrderCancelReturn:
		return true
	}
	return false
}

// IsOrderMovement reports whether the movement was caused by a sales order
func (t MovementType) IsOrderMovement() bool {
	return t == MovementOrderOut || t == MovementOrderCancelReturn
}

// Label returns the French label shown in history and exports
func (t MovementType) Label() string {
	switch t {
	case MovementInitial:
		return "Stock initial"
	case MovementAdjustment:
		return "Rectification"
	case MovementOrderOut:
		return "Commande livrée"
	case MovementOrderCancelReturn:
		return "Commande annulée"
	}
	return string(t)
}

// OrderSnapshot freezes the order data shown next to an order movement
type OrderSnapshot struct {
	OrderNumber string           `json:"order_number"`
	ClientName  string           `json:"client_name"`
	ClientType  trade.ClientType `json:"client_type"`
	TotalTTC    decimal.Decimal  `json:"total_ttc"`
	OrderDate   time.Time        `json:"order_date"`
}

// SnapshotOf captures the order fields kept on a movement
func SnapshotOf(order *trade.SalesOrder) *OrderSnapshot {
	return &OrderSnapshot{
		OrderNumber: order.Number,
		ClientName:  order.DisplayClientName(),
		ClientType:  order.ClientType,
		TotalTTC:    order.TotalTTC,
		OrderDate:   order.OrderDate,
	}
}

// StockMovement is one append-only ledger entry. It has no mutators;
// corrections are new movements.
type StockMovement struct {
	shared.BaseEntity
	TenantID      uuid.UUID
	ProductID     uuid.UUID
	Type          MovementType
	Quantity      decimal.Decimal // signed delta
	PreviousStock decimal.Decimal
	NewStock      decimal.Decimal
	OccurredAt    time.Time
	Reason        string
	UserName      string
	Reference     string
	OrderID       *uuid.UUID
	OrderDetails  *OrderSnapshot
}

// MovementInput describes a movement to record
type MovementInput struct {
	ProductID     uuid.UUID
	Type          MovementType
	Quantity      decimal.Decimal
	PreviousStock decimal.Decimal
	OccurredAt    time.Time
	Reason        string
	UserName      string
	Reference     string
	OrderID       *uuid.UUID
	OrderDetails  *OrderSnapshot
}

// NewStockMovement validates the input and derives NewStock = PreviousStock + Quantity
func NewStockMovement(tenantID uuid.UUID, in MovementInput) (*StockMovement, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if in.ProductID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !in.Type.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid movement type")
	}
	if in.Quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be zero")
	}
	switch in.Type {
	case MovementInitial, MovementOrderCancelReturn:
		if in.Quantity.IsNegative() {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive for "+string(in.Type))
		}
	case MovementOrderOut:
		if in.Quantity.IsPositive() {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be negative for order_out")
		}
	}
	if in.Type.IsOrderMovement() && (in.OrderID == nil || *in.OrderID == uuid.Nil) {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order movements require an order id")
	}

	occurredAt := in.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	userName := in.UserName
	if userName == "" {
		userName = SystemUser
	}
	reason := in.Reason
	if reason == "" {
		reason = in.Type.Label()
	}

	return &StockMovement{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      tenantID,
		ProductID:     in.ProductID,
		Type:          in.Type,
		Quantity:      in.Quantity,
		PreviousStock: in.PreviousStock,
		NewStock:      in.PreviousStock.Add(in.Quantity),
		OccurredAt:    occurredAt,
		Reason:        reason,
		UserName:      userName,
		Reference:     in.Reference,
		OrderID:       in.OrderID,
		OrderDetails:  in.OrderDetails,
	}, nil
}

// SystemUser is recorded when no user name is known
const SystemUser = "Système"
