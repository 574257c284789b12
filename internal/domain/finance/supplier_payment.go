package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tijara/backend/internal/domain/shared"
)

// PaymentMethod is how a supplier was paid
type PaymentMethod string

const (
	PaymentMethodTransfer PaymentMethod = "virement"
	PaymentMethodCheque   PaymentMethod = "cheque"
	PaymentMethodCash     PaymentMethod = "espece"
	PaymentMethodCard     PaymentMethod = "carte"
)

// IsValid checks if the method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodTransfer, PaymentMethodCheque, PaymentMethodCash, PaymentMethodCard:
		return true
	}
	return false
}

// Label returns the French display label
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentMethodTransfer:
		return "Virement"
	case PaymentMethodCheque:
		return "Chèque"
	case PaymentMethodCash:
		return "Espèces"
	case PaymentMethodCard:
		return "Carte"
	}
	return string(m)
}

// SupplierPayment is money paid to a supplier. It is not allocated to a
// specific purchase order; the supplier balance is a running total.
type SupplierPayment struct {
	shared.TenantAggregateRoot
	SupplierID uuid.UUID
	Amount     decimal.Decimal
	Date       time.Time
	Method     PaymentMethod
	Reference  string
	Notes      string
}

// NewSupplierPayment validates and creates a payment
func NewSupplierPayment(tenantID, supplierID uuid.UUID, amount decimal.Decimal, date time.Time, method PaymentMethod, reference string) (*SupplierPayment, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method must be virement, cheque, espece or carte")
	}
	if date.IsZero() {
		date = time.Now()
	}
	p := &SupplierPayment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SupplierID:          supplierID,
		Amount:              shared.RoundMoney(amount),
		Date:                date,
		Method:              method,
		Reference:           strings.TrimSpace(reference),
	}
	p.AddDomainEvent(NewSupplierPaymentCreatedEvent(p))
	return p, nil
}
