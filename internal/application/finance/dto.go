package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tijara/backend/internal/domain/finance"
)

// CreateInvoiceRequest carries the optional dates of an invoice created from an order
type CreateInvoiceRequest struct {
	Date    *time.Time `json:"date"`
	DueDate *time.Time `json:"due_date"`
}

// ChangeInvoiceStatusRequest sets the payment status of an invoice
type ChangeInvoiceStatusRequest struct {
	Status finance.InvoiceStatus `json:"status" binding:"required,oneof=draft sent pending paid collected cancelled"`
}

// InvoiceListFilter represents filter options for the invoice list
type InvoiceListFilter struct {
	Search   string     `form:"search"`
	Status   string     `form:"status" binding:"omitempty,oneof=draft sent pending paid collected cancelled"`
	ClientID *uuid.UUID `form:"-"` // parsed by the handler from client_id
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=200"`
	OrderBy  string     `form:"order_by" binding:"omitempty,oneof=date number total status created_at"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// InvoiceLineResponse is one invoiced line
type InvoiceLineResponse struct {
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	Total       decimal.Decimal `json:"total"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID          uuid.UUID             `json:"id"`
	Number      string                `json:"number"`
	ClientID    uuid.UUID             `json:"client_id"`
	ClientName  string                `json:"client_name,omitempty"`
	OrderID     *uuid.UUID            `json:"order_id,omitempty"`
	Status      finance.InvoiceStatus `json:"status"`
	StatusLabel string                `json:"status_label"`
	Date        time.Time             `json:"date"`
	DueDate     *time.Time            `json:"due_date,omitempty"`
	ApplyVAT    bool                  `json:"apply_vat"`
	Subtotal    decimal.Decimal       `json:"subtotal"`
	TotalVAT    decimal.Decimal       `json:"total_vat"`
	TotalTTC    decimal.Decimal       `json:"total_ttc"`
	Items       []InvoiceLineResponse `json:"items"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// ToInvoiceResponse converts a domain Invoice
func ToInvoiceResponse(inv *finance.Invoice) InvoiceResponse {
	items := make([]InvoiceLineResponse, len(inv.Items))
	for i, l := range inv.Items {
		items[i] = InvoiceLineResponse{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			Unit:        l.Unit,
			UnitPrice:   l.UnitPrice,
			VATRate:     l.VATRate,
			Total:       l.Total,
		}
	}
	return InvoiceResponse{
		ID:          inv.ID,
		Number:      inv.Number,
		ClientID:    inv.ClientID,
		OrderID:     inv.OrderID,
		Status:      inv.Status,
		StatusLabel: inv.Status.Label(),
		Date:        inv.Date,
		DueDate:     inv.DueDate,
		ApplyVAT:    inv.ApplyVAT,
		Subtotal:    inv.Subtotal,
		TotalVAT:    inv.TotalVAT,
		TotalTTC:    inv.TotalTTC,
		Items:       items,
		CreatedAt:   inv.CreatedAt,
		UpdatedAt:   inv.UpdatedAt,
	}
}
