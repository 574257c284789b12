package finance

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tijara/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeInvoice         = "Invoice"
	AggregateTypeSupplierPayment = "SupplierPayment"
)

// Event type constants
const (
	EventTypeInvoiceCreated         = "InvoiceCreated"
	EventTypeInvoiceStatusChanged   = "InvoiceStatusChanged"
	EventTypeSupplierPaymentCreated = "SupplierPaymentCreated"
)

// InvoiceCreatedEvent is raised when an invoice is issued
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID       `json:"invoice_id"`
	Number    string          `json:"number"`
	ClientID  uuid.UUID       `json:"client_id"`
	OrderID   *uuid.UUID      `json:"order_id,omitempty"`
	TotalTTC  decimal.Decimal `json:"total_ttc"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		Number:          inv.Number,
		ClientID:        inv.ClientID,
		OrderID:         inv.OrderID,
		TotalTTC:        inv.TotalTTC,
	}
}

// InvoiceStatusChangedEvent is raised when an invoice changes status
type InvoiceStatusChangedEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID     `json:"invoice_id"`
	From      InvoiceStatus `json:"from"`
	To        InvoiceStatus `json:"to"`
}

// NewInvoiceStatusChangedEvent creates a new InvoiceStatusChangedEvent
func NewInvoiceStatusChangedEvent(inv *Invoice, from InvoiceStatus) *InvoiceStatusChangedEvent {
	return &InvoiceStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceStatusChanged, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		From:            from,
		To:              inv.Status,
	}
}

// SupplierPaymentCreatedEvent is raised when a payment to a supplier is recorded
type SupplierPaymentCreatedEvent struct {
	shared.BaseDomainEvent
	PaymentID  uuid.UUID       `json:"payment_id"`
	SupplierID uuid.UUID       `json:"supplier_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// NewSupplierPaymentCreatedEvent creates a new SupplierPaymentCreatedEvent
func NewSupplierPaymentCreatedEvent(p *SupplierPayment) *SupplierPaymentCreatedEvent {
	return &SupplierPaymentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierPaymentCreated, AggregateTypeSupplierPayment, p.ID, p.TenantID),
		PaymentID:       p.ID,
		SupplierID:      p.SupplierID,
		Amount:          p.Amount,
	}
}
