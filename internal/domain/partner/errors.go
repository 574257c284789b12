package partner

import "github.com/tijara/backend/internal/domain/shared"

var (
	ErrClientNotFound   = shared.NewDomainError("CLIENT_NOT_FOUND", "Client not found")
	ErrSupplierNotFound = shared.NewDomainError("SUPPLIER_NOT_FOUND", "Supplier not found")
	ErrICEAlreadyUsed   = shared.NewDomainError("ICE_ALREADY_EXISTS", "Another client already uses this ICE")
	ErrClientInUse      = shared.NewDomainError("CLIENT_IN_USE", "Client has orders or invoices and cannot be deleted")
	ErrSupplierInUse    = shared.NewDomainError("SUPPLIER_IN_USE", "Supplier has purchase orders or payments and cannot be deleted")
)
