package finance

import "github.com/tijara/backend/internal/domain/shared"

var ErrInvoiceNotFound = shared.NewDomainError("INVOICE_NOT_FOUND", "Invoice not found")
