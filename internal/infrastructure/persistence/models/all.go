package models

// All lists every model, in dependency order, for AutoMigrate in tests and tooling
func All() []any {
	return []any{
		&ProductModel{},
		&StockMovementModel{},
		&ClientModel{},
		&SupplierModel{},
		&SalesOrderModel{},
		&SalesOrderItemModel{},
		&PurchaseOrderModel{},
		&PurchaseOrderItemModel{},
		&InvoiceModel{},
		&InvoiceItemModel{},
		&InvoiceSequenceModel{},
		&SupplierPaymentModel{},
		&CompanySettingsModel{},
	}
}
