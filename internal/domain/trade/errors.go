package trade

import "github.com/tijara/backend/internal/domain/shared"

var (
	ErrOrderNotFound         = shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	ErrPurchaseOrderNotFound = shared.NewDomainError("PURCHASE_ORDER_NOT_FOUND", "Purchase order not found")

	// ErrOrderBusy is returned when another request holds the order's status lock
	ErrOrderBusy = shared.NewDomainError("ORDER_BUSY", "Order is being updated by another request, retry shortly")

	// ErrOrderDebited is returned when deleting an order whose stock is still out
	ErrOrderDebited = shared.NewDomainError("ORDER_LOCKED", "Order stock is debited; cancel it before deleting")

	// ErrOrderInvoiced is returned when deleting an order an invoice was created from
	ErrOrderInvoiced = shared.NewDomainError("ORDER_INVOICED", "Order has an invoice and cannot be deleted")
)
