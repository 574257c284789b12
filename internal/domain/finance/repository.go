package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/tijara/backend/internal/domain/shared"
)

// Invoice filter keys
const (
	FilterStatus   = "status"    // InvoiceStatus
	FilterClientID = "client_id" // uuid.UUID
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)
	FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*Invoice, error)
	FindByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]Invoice, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Invoice, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// Save returns ErrAlreadyInvoiced when another invoice holds the same order id
	// and ErrInvoiceNumberTaken when the number is already used
	Save(ctx context.Context, invoice *Invoice) error

	// NextSequence returns the next per-year invoice counter of the tenant
	NextSequence(ctx context.Context, tenantID uuid.UUID, year int) (int, error)
}

// SupplierPaymentRepository defines the interface for supplier payment persistence
type SupplierPaymentRepository interface {
	FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) ([]SupplierPayment, error)
	Save(ctx context.Context, payment *SupplierPayment) error
}
