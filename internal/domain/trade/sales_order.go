package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tijara/backend/internal/domain/shared"
)

// OrderStatus represents the delivery status of a sales order
type OrderStatus string

const (
	// OrderStatusPending is a legacy placeholder kept for old rows and list filters
	OrderStatusPending    OrderStatus = "en_attente"
	OrderStatusInDelivery OrderStatus = "en_cours_livraison"
	OrderStatusDelivered  OrderStatus = "livre"
	OrderStatusCancelled  OrderStatus = "annule"
)

// IsValid checks if the status is a known OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusInDelivery, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTarget reports whether an order may be moved into s
func (s OrderStatus) IsTarget() bool {
	switch s {
	case OrderStatusInDelivery, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Label returns the French display label
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusPending:
		return "En attente"
	case OrderStatusInDelivery:
		return "En cours"
	case OrderStatusDelivered:
		return "Livré"
	case OrderStatusCancelled:
		return "Annulé"
	}
	return string(s)
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// ClientType discriminates registered companies from walk-in customers
type ClientType string

const (
	ClientTypeIndividual ClientType = "individual"
	ClientTypeCompany    ClientType = "company"
)

// IsValid checks if the client type is known
func (t ClientType) IsValid() bool {
	return t == ClientTypeIndividual || t == ClientTypeCompany
}

// StockEffect is the stock side effect a status transition requires
type StockEffect string

const (
	EffectNone   StockEffect = "none"
	EffectDebit  StockEffect = "debit"
	EffectReturn StockEffect = "return"
)

// SalesOrder is the aggregate root for customer orders
type SalesOrder struct {
	shared.TenantAggregateRoot
	Number       string
	ClientID     *uuid.UUID
	ClientName   string
	ClientType   ClientType
	Items        []OrderLine
	Status       OrderStatus
	OrderDate    time.Time
	DeliveryDate *time.Time
	Subtotal     decimal.Decimal
	TotalVAT     decimal.Decimal
	TotalTTC     decimal.Decimal
	ApplyVAT     bool
	// StockDebited is set while the order's quantities are out of stock.
	// It guards against debiting or returning stock twice.
	StockDebited bool
	Notes        string
}

// OrderHeader carries the non-line attributes of a new order
type OrderHeader struct {
	ClientID     *uuid.UUID
	ClientName   string
	ClientType   ClientType
	OrderDate    time.Time
	DeliveryDate *time.Time
	ApplyVAT     bool
	Notes        string
}

// NewSalesOrder creates an order in delivery with its lines
func NewSalesOrder(tenantID uuid.UUID, number string, header OrderHeader, lines []LineInput) (*SalesOrder, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if !header.ClientType.IsValid() {
		return nil, shared.NewDomainError("INVALID_CLIENT_TYPE", "Client type must be individual or company")
	}
	if header.ClientType == ClientTypeCompany && header.ClientID == nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "A company order requires a client")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Order must contain at least one item")
	}
	items, err := newOrderLines(lines)
	if err != nil {
		return nil, err
	}

	orderDate := header.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	order := &SalesOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		ClientID:            header.ClientID,
		ClientName:          strings.TrimSpace(header.ClientName),
		ClientType:          header.ClientType,
		Items:               items,
		Status:              OrderStatusInDelivery,
		OrderDate:           orderDate,
		DeliveryDate:        header.DeliveryDate,
		ApplyVAT:            header.ApplyVAT,
		Notes:               header.Notes,
	}
	order.recalculateTotals()

	order.AddDomainEvent(NewSalesOrderCreatedEvent(order))

	return order, nil
}

// ReplaceItems swaps the order lines. Not allowed while stock is debited,
// since the recorded movements would no longer match the lines.
func (o *SalesOrder) ReplaceItems(lines []LineInput) error {
	if o.StockDebited {
		return shared.NewDomainError("ORDER_LOCKED", "Cannot modify items of a delivered order")
	}
	if len(lines) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Order must contain at least one item")
	}
	items, err := newOrderLines(lines)
	if err != nil {
		return err
	}
	o.Items = items
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// TransitionTo moves the order to target and returns the stock effect the
// caller must record in the same transaction.
//
//	any -> livre                 debit, unless already debited
//	any -> annule                return, if debited
//	any -> en_cours_livraison    return, if debited
//
// Re-applying the current status is a no-op.
func (o *SalesOrder) TransitionTo(target OrderStatus) (StockEffect, error) {
	if !target.IsTarget() {
		return EffectNone, shared.NewDomainError("INVALID_STATUS_TRANSITION",
			fmt.Sprintf("Cannot move order to status %q", target))
	}
	if o.Status == target {
		return EffectNone, nil
	}

	effect := EffectNone
	switch target {
	case OrderStatusDelivered:
		if !o.StockDebited {
			effect = EffectDebit
			o.StockDebited = true
		}
		if o.DeliveryDate == nil {
			now := time.Now()
			o.DeliveryDate = &now
		}
	case OrderStatusCancelled, OrderStatusInDelivery:
		if o.StockDebited {
			effect = EffectReturn
			o.StockDebited = false
		}
	}

	from := o.Status
	o.Status = target
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewSalesOrderStatusChangedEvent(o, from, effect))

	return effect, nil
}

// IsDelivered reports whether the order counts as consumption in the ledger
func (o *SalesOrder) IsDelivered() bool {
	return o.Status == OrderStatusDelivered
}

// HasClient reports whether the order references a registered client
func (o *SalesOrder) HasClient() bool {
	return o.ClientID != nil && *o.ClientID != uuid.Nil
}

// DisplayClientName returns the name shown on lists, exports and documents
func (o *SalesOrder) DisplayClientName() string {
	if o.ClientName != "" {
		return o.ClientName
	}
	if o.ClientType == ClientTypeCompany {
		return "Client société"
	}
	return "Client particulier"
}

// TotalQuantity sums the quantities of all lines
func (o *SalesOrder) TotalQuantity() decimal.Decimal {
	return TotalQuantity(o.Items)
}

// ProductsSummary is the short product description used in order exports
func (o *SalesOrder) ProductsSummary() string {
	if len(o.Items) == 1 {
		return o.Items[0].ProductName
	}
	return fmt.Sprintf("%d articles", len(o.Items))
}

// ProductIDs returns the distinct linked product ids
func (o *SalesOrder) ProductIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0, len(o.Items))
	for _, l := range o.Items {
		if l.ProductID == nil {
			continue
		}
		if _, ok := seen[*l.ProductID]; ok {
			continue
		}
		seen[*l.ProductID] = struct{}{}
		ids = append(ids, *l.ProductID)
	}
	return ids
}

func (o *SalesOrder) recalculateTotals() {
	t := ComputeTotals(o.Items, o.ApplyVAT)
	o.Subtotal = t.Subtotal
	o.TotalVAT = t.TotalVAT
	o.TotalTTC = t.TotalTTC
}
