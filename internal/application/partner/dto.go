package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tijara/backend/internal/domain/finance"
	"github.com/tijara/backend/internal/domain/partner"
	"github.com/tijara/backend/internal/domain/trade"
)

// =============================================================================
// Client DTOs
// =============================================================================

// ClientRequest represents a request to create or update a client
type ClientRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	ICE     string `json:"ice" binding:"max=30"`
	Address string `json:"address" binding:"max=500"`
	Phone   string `json:"phone" binding:"max=50"`
	Email   string `json:"email" binding:"omitempty,email,max=200"`
}

func (r ClientRequest) contact() partner.Contact {
	return partner.Contact{Address: r.Address, Phone: r.Phone, Email: r.Email}
}

// ClientListFilter represents filter options for the client list
type ClientListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=200"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=name ice created_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Name      string    `json:"name"`
	ICE       string    `json:"ice"`
	IsCompany bool      `json:"is_company"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// ToClientResponse converts a domain Client
func ToClientResponse(c *partner.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		TenantID:  c.TenantID,
		Name:      c.Name,
		ICE:       c.ICE,
		IsCompany: c.IsCompany(),
		Address:   c.Address,
		Phone:     c.Phone,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Version:   c.Version,
	}
}

// ToClientResponses converts a slice of clients
func ToClientResponses(clients []partner.Client) []ClientResponse {
	out := make([]ClientResponse, len(clients))
	for i := range clients {
		out[i] = ToClientResponse(&clients[i])
	}
	return out
}

// ClientOrderSummary is one order line of the client detail page
type ClientOrderSummary struct {
	ID          uuid.UUID         `json:"id"`
	Number      string            `json:"number"`
	OrderDate   time.Time         `json:"order_date"`
	Status      trade.OrderStatus `json:"status"`
	StatusLabel string            `json:"status_label"`
	TotalTTC    decimal.Decimal   `json:"total_ttc"`
}

// ClientInvoiceSummary is one invoice line of the client detail page
type ClientInvoiceSummary struct {
	ID          uuid.UUID             `json:"id"`
	Number      string                `json:"number"`
	Date        time.Time             `json:"date"`
	Status      finance.InvoiceStatus `json:"status"`
	StatusLabel string                `json:"status_label"`
	TotalTTC    decimal.Decimal       `json:"total_ttc"`
}

// ClientDetailResponse is a client with its orders, invoices and balance
type ClientDetailResponse struct {
	Client   ClientResponse         `json:"client"`
	Orders   []ClientOrderSummary   `json:"orders"`
	Invoices []ClientInvoiceSummary `json:"invoices"`
	Balance  finance.ClientBalance  `json:"balance"`
}

func toClientOrderSummaries(orders []trade.SalesOrder) []ClientOrderSummary {
	out := make([]ClientOrderSummary, len(orders))
	for i, o := range orders {
		out[i] = ClientOrderSummary{
			ID:          o.ID,
			Number:      o.Number,
			OrderDate:   o.OrderDate,
			Status:      o.Status,
			StatusLabel: o.Status.Label(),
			TotalTTC:    o.TotalTTC,
		}
	}
	return out
}

func toClientInvoiceSummaries(invoices []finance.Invoice) []ClientInvoiceSummary {
	out := make([]ClientInvoiceSummary, len(invoices))
	for i, inv := range invoices {
		out[i] = ClientInvoiceSummary{
			ID:          inv.ID,
			Number:      inv.Number,
			Date:        inv.Date,
			Status:      inv.Status,
			StatusLabel: inv.Status.Label(),
			TotalTTC:    inv.TotalTTC,
		}
	}
	return out
}

// =============================================================================
// Supplier DTOs
// =============================================================================

// SupplierRequest represents a request to create or update a supplier
type SupplierRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	ICE         string `json:"ice" binding:"max=30"`
	ContactName string `json:"contact_name" binding:"max=100"`
	Address     string `json:"address" binding:"max=500"`
	Phone       string `json:"phone" binding:"max=50"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
	// Status is ignored on create
	Status partner.SupplierStatus `json:"status" binding:"omitempty,oneof=active inactive"`
}

func (r SupplierRequest) contact() partner.Contact {
	return partner.Contact{Address: r.Address, Phone: r.Phone, Email: r.Email}
}

// SupplierListFilter represents filter options for the supplier list
type SupplierListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=200"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=name status created_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID          uuid.UUID              `json:"id"`
	TenantID    uuid.UUID              `json:"tenant_id"`
	Name        string                 `json:"name"`
	ICE         string                 `json:"ice"`
	ContactName string                 `json:"contact_name"`
	Address     string                 `json:"address"`
	Phone       string                 `json:"phone"`
	Email       string                 `json:"email"`
	Status      partner.SupplierStatus `json:"status"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	Version     int                    `json:"version"`
}

// ToSupplierResponse converts a domain Supplier
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:          s.ID,
		TenantID:    s.TenantID,
		Name:        s.Name,
		ICE:         s.ICE,
		ContactName: s.ContactName,
		Address:     s.Address,
		Phone:       s.Phone,
		Email:       s.Email,
		Status:      s.Status,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		Version:     s.Version,
	}
}

// ToSupplierResponses converts a slice of suppliers
func ToSupplierResponses(suppliers []partner.Supplier) []SupplierResponse {
	out := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		out[i] = ToSupplierResponse(&suppliers[i])
	}
	return out
}

// SupplierBalanceResponse is the running account with a supplier
type SupplierBalanceResponse struct {
	SupplierID     uuid.UUID       `json:"supplier_id"`
	SupplierName   string          `json:"supplier_name"`
	TotalPurchased decimal.Decimal `json:"total_purchased"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	Balance        decimal.Decimal `json:"balance"`
	OrderCount     int             `json:"order_count"`
	PaymentCount   int             `json:"payment_count"`
}

// RecordPaymentRequest records money paid to a supplier
type RecordPaymentRequest struct {
	Amount    decimal.Decimal       `json:"amount" binding:"required"`
	Date      *time.Time            `json:"date"`
	Method    finance.PaymentMethod `json:"method" binding:"required,oneof=virement cheque espece carte"`
	Reference string                `json:"reference" binding:"max=100"`
	Notes     string                `json:"notes" binding:"max=2000"`
}

// SupplierPaymentResponse represents a supplier payment in API responses
type SupplierPaymentResponse struct {
	ID          uuid.UUID             `json:"id"`
	SupplierID  uuid.UUID             `json:"supplier_id"`
	Amount      decimal.Decimal       `json:"amount"`
	Date        time.Time             `json:"date"`
	Method      finance.PaymentMethod `json:"method"`
	MethodLabel string                `json:"method_label"`
	Reference   string                `json:"reference"`
	Notes       string                `json:"notes"`
	CreatedAt   time.Time             `json:"created_at"`
}

// ToSupplierPaymentResponse converts a domain SupplierPayment
func ToSupplierPaymentResponse(p *finance.SupplierPayment) SupplierPaymentResponse {
	return SupplierPaymentResponse{
		ID:          p.ID,
		SupplierID:  p.SupplierID,
		Amount:      p.Amount,
		Date:        p.Date,
		Method:      p.Method,
		MethodLabel: p.Method.Label(),
		Reference:   p.Reference,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
	}
}

func dateOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
