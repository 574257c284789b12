package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tijara/backend/internal/domain/shared"
)

// PurchaseOrderStatus represents the status of a supplier order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft    PurchaseOrderStatus = "draft"
	PurchaseOrderStatusSent     PurchaseOrderStatus = "sent"
	PurchaseOrderStatusReceived PurchaseOrderStatus = "received"
	PurchaseOrderStatusPaid     PurchaseOrderStatus = "paid"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusSent, PurchaseOrderStatusReceived, PurchaseOrderStatusPaid:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can move forward to target
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusSent || target == PurchaseOrderStatusReceived
	case PurchaseOrderStatusSent:
		return target == PurchaseOrderStatusReceived
	case PurchaseOrderStatusReceived:
		return target == PurchaseOrderStatusPaid
	}
	return false
}

// Label returns the French display label
func (s PurchaseOrderStatus) Label() string {
	switch s {
	case PurchaseOrderStatusDraft:
		return "Brouillon"
	case PurchaseOrderStatusSent:
		return "Envoyé"
	case PurchaseOrderStatusReceived:
		return "Reçu"
	case PurchaseOrderStatusPaid:
		return "Payé"
	}
	return string(s)
}

// PurchaseOrder is the aggregate root for orders placed with suppliers
type PurchaseOrder struct {
	shared.TenantAggregateRoot
	Number     string
	SupplierID uuid.UUID
	OrderDate  time.Time
	Items      []OrderLine
	Subtotal   decimal.Decimal
	TotalVAT   decimal.Decimal
	TotalTTC   decimal.Decimal
	ApplyVAT   bool
	Status     PurchaseOrderStatus
	Notes      string
}

// NewPurchaseOrder creates a draft purchase order
func NewPurchaseOrder(tenantID uuid.UUID, number string, supplierID uuid.UUID, orderDate time.Time, applyVAT bool, lines []LineInput) (*PurchaseOrder, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Order must contain at least one item")
	}
	items, err := newOrderLines(lines)
	if err != nil {
		return nil, err
	}
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	po := &PurchaseOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		SupplierID:          supplierID,
		OrderDate:           orderDate,
		Items:               items,
		ApplyVAT:            applyVAT,
		Status:              PurchaseOrderStatusDraft,
	}
	po.recalculateTotals()

	po.AddDomainEvent(NewPurchaseOrderCreatedEvent(po))

	return po, nil
}

// ReplaceItems swaps the lines of a draft order
func (p *PurchaseOrder) ReplaceItems(lines []LineInput) error {
	if p.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("ORDER_LOCKED", "Only draft purchase orders can be modified")
	}
	if len(lines) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Order must contain at least one item")
	}
	items, err := newOrderLines(lines)
	if err != nil {
		return err
	}
	p.Items = items
	p.recalculateTotals()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// ChangeStatus moves the order forward
func (p *PurchaseOrder) ChangeStatus(target PurchaseOrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown purchase order status %q", target))
	}
	if !p.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			fmt.Sprintf("Cannot move purchase order from %s to %s", p.Status, target))
	}
	from := p.Status
	p.Status = target
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPurchaseOrderStatusChangedEvent(p, from))
	return nil
}

func (p *PurchaseOrder) recalculateTotals() {
	t := ComputeTotals(p.Items, p.ApplyVAT)
	p.Subtotal = t.Subtotal
	p.TotalVAT = t.TotalVAT
	p.TotalTTC = t.TotalTTC
}
