package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField maps an API sort key to its column through a whitelist.
// Unknown or empty keys fall back to defaultColumn.
func ValidateSortField(sortField string, allowed map[string]string, defaultColumn string) string {
	if col, ok := allowed[strings.TrimSpace(sortField)]; ok {
		return col
	}
	return defaultColumn
}

// ProductSortFields maps product sort keys to columns
var ProductSortFields = map[string]string{
	"created_at":     "created_at",
	"updated_at":     "updated_at",
	"name":           "name",
	"category":       "category",
	"stock":          "stock",
	"min_stock":      "min_stock",
	"sale_price":     "sale_price",
	"purchase_price": "purchase_price",
}

// SalesOrderSortFields maps order list sort keys to columns
var SalesOrderSortFields = map[string]string{
	"created_at": "created_at",
	"date":       "order_date",
	"order_date": "order_date",
	"client":     "client_name",
	"total":      "total_ttc",
	"status":     "status",
	"number":     "order_number",
}

// PurchaseOrderSortFields maps purchase order sort keys to columns
var PurchaseOrderSortFields = map[string]string{
	"created_at": "created_at",
	"date":       "order_date",
	"total":      "total_ttc",
	"status":     "status",
	"number":     "order_number",
}

// ClientSortFields maps client sort keys to columns
var ClientSortFields = map[string]string{
	"created_at": "created_at",
	"name":       "name",
	"ice":        "ice",
}

// SupplierSortFields maps supplier sort keys to columns
var SupplierSortFields = map[string]string{
	"created_at": "created_at",
	"name":       "name",
	"status":     "status",
}

// InvoiceSortFields maps invoice sort keys to columns
var InvoiceSortFields = map[string]string{
	"created_at": "created_at",
	"date":       "invoice_date",
	"number":     "invoice_number",
	"total":      "total_ttc",
	"status":     "status",
}
