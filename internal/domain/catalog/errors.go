package catalog

import "github.com/tijara/backend/internal/domain/shared"

var (
	ErrProductNotFound = shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")

	// ErrProductInUse is returned when deleting a product that order lines point at
	ErrProductInUse = shared.NewDomainError("PRODUCT_IN_USE", "Product is referenced by orders and cannot be deleted")
)
