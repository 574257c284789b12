package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tijara/backend/internal/domain/shared"
	"github.com/tijara/backend/internal/domain/trade"
)

// InvoiceStatus represents the payment status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCollected InvoiceStatus = "collected"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPending,
		InvoiceStatusPaid, InvoiceStatusCollected, InvoiceStatusCancelled:
		return true
	}
	return false
}

// IsPaid reports whether the invoice counts as settled
func (s InvoiceStatus) IsPaid() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCollected
}

// Label returns the French display label
func (s InvoiceStatus) Label() string {
	switch s {
	case InvoiceStatusDraft:
		return "Brouillon"
	case InvoiceStatusSent:
		return "Envoyée"
	case InvoiceStatusPending:
		return "En attente"
	case InvoiceStatusPaid:
		return "Payée"
	case InvoiceStatusCollected:
		return "Encaissée"
	case InvoiceStatusCancelled:
		return "Annulée"
	}
	return string(s)
}

// Invoice is a bill issued to a client, optionally generated from a sales order
type Invoice struct {
	shared.TenantAggregateRoot
	Number   string
	ClientID uuid.UUID
	OrderID  *uuid.UUID
	Status   InvoiceStatus
	Items    []trade.OrderLine
	Subtotal decimal.Decimal
	TotalVAT decimal.Decimal
	TotalTTC decimal.Decimal
	ApplyVAT bool
	Date     time.Time
	DueDate  *time.Time
}

// Invoice creation errors
var (
	ErrInvoiceNoClient = shared.NewDomainError("INVOICE_NO_CLIENT", "Order has no client to invoice")
	ErrInvoiceNoItems  = shared.NewDomainError("INVOICE_NO_ITEMS", "Order has no items to invoice")
	ErrAlreadyInvoiced = shared.NewDomainError("ALREADY_INVOICED", "Order has already been invoiced")

	// ErrInvoiceNumberTaken reports a numbering clash, not a second invoice for the order
	ErrInvoiceNumberTaken = shared.NewDomainError("INVOICE_NUMBER_TAKEN", "Invoice number is already used")
)

// NewInvoiceFromOrder copies client, lines and totals of order into a draft invoice
func NewInvoiceFromOrder(order *trade.SalesOrder, number string, date time.Time) (*Invoice, error) {
	if order == nil {
		return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}
	if !order.HasClient() {
		return nil, ErrInvoiceNoClient
	}
	if len(order.Items) == 0 {
		return nil, ErrInvoiceNoItems
	}
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if date.IsZero() {
		date = time.Now()
	}

	items := make([]trade.OrderLine, len(order.Items))
	for i, l := range order.Items {
		l.ID = uuid.New()
		items[i] = l
	}
	orderID := order.ID

	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(order.TenantID),
		Number:              number,
		ClientID:            *order.ClientID,
		OrderID:             &orderID,
		Status:              InvoiceStatusDraft,
		Items:               items,
		Subtotal:            order.Subtotal,
		TotalVAT:            order.TotalVAT,
		TotalTTC:            order.TotalTTC,
		ApplyVAT:            order.ApplyVAT,
		Date:                date,
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// ChangeStatus moves the invoice to status. Cancelled invoices are final.
func (i *Invoice) ChangeStatus(status InvoiceStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown invoice status %q", status))
	}
	if i.Status == status {
		return nil
	}
	if i.Status == InvoiceStatusCancelled {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "A cancelled invoice cannot change status")
	}
	from := i.Status
	i.Status = status
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceStatusChangedEvent(i, from))
	return nil
}
