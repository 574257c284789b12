package finance

import (
	"github.com/shopspring/decimal"
	"github.com/tijara/backend/internal/domain/trade"
)

// ClientBalance summarizes the invoices of one client
type ClientBalance struct {
	Total  decimal.Decimal `json:"total"`
	Paid   decimal.Decimal `json:"paid"`
	Unpaid decimal.Decimal `json:"unpaid"`
}

// ComputeClientBalance sums invoice totals. An invoice is paid as a whole
// when its status is paid or collected; cancelled invoices are ignored.
func ComputeClientBalance(invoices []Invoice) ClientBalance {
	total := decimal.Zero
	paid := decimal.Zero
	for _, inv := range invoices {
		if inv.Status == InvoiceStatusCancelled {
			continue
		}
		total = total.Add(inv.TotalTTC)
		if inv.Status.IsPaid() {
			paid = paid.Add(inv.TotalTTC)
		}
	}
	return ClientBalance{Total: total, Paid: paid, Unpaid: total.Sub(paid)}
}

// SupplierBalance is the running account with one supplier.
// A positive Balance is owed to the supplier; negative is an overpayment.
type SupplierBalance struct {
	TotalPurchased decimal.Decimal `json:"total_purchased"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	Balance        decimal.Decimal `json:"balance"`
}

// ComputeSupplierBalance returns Σ purchase order totals − Σ payments
func ComputeSupplierBalance(orders []trade.PurchaseOrder, payments []SupplierPayment) SupplierBalance {
	purchased := decimal.Zero
	for _, o := range orders {
		purchased = purchased.Add(o.TotalTTC)
	}
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	return SupplierBalance{
		TotalPurchased: purchased,
		TotalPaid:      paid,
		Balance:        purchased.Sub(paid),
	}
}
