package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tijara/backend/internal/domain/trade"
)

// ==================== Order line DTOs ====================

// OrderLineInput is one line of a create or replace-items request. When
// ProductID is set, an empty name or unit is filled from the catalog.
type OrderLineInput struct {
	ProductID   *uuid.UUID      `json:"product_id"`
	ProductName string          `json:"product_name" binding:"max=200"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Unit        string          `json:"unit" binding:"max=20"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VATRate     decimal.Decimal `json:"vat_rate"`
}

func (in OrderLineInput) toDomain() trade.LineInput {
	return trade.LineInput{
		ProductID:   in.ProductID,
		ProductName: in.ProductName,
		Quantity:    in.Quantity,
		Unit:        in.Unit,
		UnitPrice:   in.UnitPrice,
		VATRate:     in.VATRate,
	}
}

// OrderLineResponse represents an order line in API responses
type OrderLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   *uuid.UUID      `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	Total       decimal.Decimal `json:"total"`
}

func toLineResponses(lines []trade.OrderLine) []OrderLineResponse {
	out := make([]OrderLineResponse, len(lines))
	for i, l := range lines {
		out[i] = OrderLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			Unit:        l.Unit,
			UnitPrice:   l.UnitPrice,
			VATRate:     l.VATRate,
			Total:       l.Total,
		}
	}
	return out
}

// ==================== Sales Order DTOs ====================

// CreateSalesOrderRequest represents a request to create a sales order
type CreateSalesOrderRequest struct {
	ClientID     *uuid.UUID       `json:"client_id"`
	ClientName   string           `json:"client_name" binding:"max=200"`
	ClientType   trade.ClientType `json:"client_type" binding:"required,oneof=individual company"`
	OrderDate    *time.Time       `json:"order_date"`
	DeliveryDate *time.Time       `json:"delivery_date"`
	ApplyVAT     bool             `json:"apply_vat"`
	Notes        string           `json:"notes" binding:"max=2000"`
	Items        []OrderLineInput `json:"items" binding:"required,min=1,dive"`
}

// ReplaceItemsRequest replaces every line of an order
type ReplaceItemsRequest struct {
	Items []OrderLineInput `json:"items" binding:"required,min=1,dive"`
}

// ChangeStatusRequest moves a sales order to a new status
type ChangeStatusRequest struct {
	Status trade.OrderStatus `json:"status" binding:"required,oneof=en_cours_livraison livre annule"`
}

// SalesOrderListFilter represents filter options for the order list
type SalesOrderListFilter struct {
	Search   string     `form:"search"`
	Status   string     `form:"status" binding:"omitempty,oneof=all en_attente en_cours_livraison livre annule"`
	Date     string     `form:"date" binding:"omitempty,oneof=all today week month"`
	ClientID *uuid.UUID `form:"-"` // parsed by the handler from client_id
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=200"`
	OrderBy  string     `form:"order_by" binding:"omitempty,oneof=date client total status number created_at"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Format   string     `form:"format" binding:"omitempty,oneof=csv xlsx"`
}

// SalesOrderResponse represents a sales order in API responses
type SalesOrderResponse struct {
	ID           uuid.UUID           `json:"id"`
	TenantID     uuid.UUID           `json:"tenant_id"`
	Number       string              `json:"number"`
	ClientID     *uuid.UUID          `json:"client_id"`
	ClientName   string              `json:"client_name"`
	ClientType   trade.ClientType    `json:"client_type"`
	Status       trade.OrderStatus   `json:"status"`
	StatusLabel  string              `json:"status_label"`
	OrderDate    time.Time           `json:"order_date"`
	DeliveryDate *time.Time          `json:"delivery_date"`
	ApplyVAT     bool                `json:"apply_vat"`
	StockDebited bool                `json:"stock_debited"`
	Subtotal     decimal.Decimal     `json:"subtotal"`
	TotalVAT     decimal.Decimal     `json:"total_vat"`
	TotalTTC     decimal.Decimal     `json:"total_ttc"`
	Notes        string              `json:"notes"`
	Items        []OrderLineResponse `json:"items"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	Version      int                 `json:"version"`
}

// SalesOrderListItemResponse is the compact row shown in order lists
type SalesOrderListItemResponse struct {
	ID            uuid.UUID         `json:"id"`
	Number        string            `json:"number"`
	ClientName    string            `json:"client_name"`
	ClientType    trade.ClientType  `json:"client_type"`
	Status        trade.OrderStatus `json:"status"`
	StatusLabel   string            `json:"status_label"`
	OrderDate     time.Time         `json:"order_date"`
	Products      string            `json:"products"`
	TotalQuantity decimal.Decimal   `json:"total_quantity"`
	TotalTTC      decimal.Decimal   `json:"total_ttc"`
	StockDebited  bool              `json:"stock_debited"`
}

// StatusChangeResponse is the order after a transition plus its stock effect
type StatusChangeResponse struct {
	Order     SalesOrderResponse `json:"order"`
	Effect    trade.StockEffect  `json:"stock_effect"`
	Movements int                `json:"movements"`
}

// ToSalesOrderResponse converts a domain SalesOrder
func ToSalesOrderResponse(o *trade.SalesOrder) SalesOrderResponse {
	return SalesOrderResponse{
		ID:           o.ID,
		TenantID:     o.TenantID,
		Number:       o.Number,
		ClientID:     o.ClientID,
		ClientName:   o.DisplayClientName(),
		ClientType:   o.ClientType,
		Status:       o.Status,
		StatusLabel:  o.Status.Label(),
		OrderDate:    o.OrderDate,
		DeliveryDate: o.DeliveryDate,
		ApplyVAT:     o.ApplyVAT,
		StockDebited: o.StockDebited,
		Subtotal:     o.Subtotal,
		TotalVAT:     o.TotalVAT,
		TotalTTC:     o.TotalTTC,
		Notes:        o.Notes,
		Items:        toLineResponses(o.Items),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
		Version:      o.Version,
	}
}

// ToSalesOrderListItemResponse converts a domain SalesOrder to a list row
func ToSalesOrderListItemResponse(o *trade.SalesOrder) SalesOrderListItemResponse {
	return SalesOrderListItemResponse{
		ID:            o.ID,
		Number:        o.Number,
		ClientName:    o.DisplayClientName(),
		ClientType:    o.ClientType,
		Status:        o.Status,
		StatusLabel:   o.Status.Label(),
		OrderDate:     o.OrderDate,
		Products:      o.ProductsSummary(),
		TotalQuantity: o.TotalQuantity(),
		TotalTTC:      o.TotalTTC,
		StockDebited:  o.StockDebited,
	}
}

// ToSalesOrderListItemResponses converts a slice of orders
func ToSalesOrderListItemResponses(orders []trade.SalesOrder) []SalesOrderListItemResponse {
	out := make([]SalesOrderListItemResponse, len(orders))
	for i := range orders {
		out[i] = ToSalesOrderListItemResponse(&orders[i])
	}
	return out
}

// ==================== Purchase Order DTOs ====================

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID uuid.UUID        `json:"supplier_id" binding:"required"`
	OrderDate  *time.Time       `json:"order_date"`
	ApplyVAT   bool             `json:"apply_vat"`
	Notes      string           `json:"notes" binding:"max=2000"`
	Items      []OrderLineInput `json:"items" binding:"required,min=1,dive"`
}

// ChangePurchaseOrderStatusRequest moves a purchase order forward
type ChangePurchaseOrderStatusRequest struct {
	Status trade.PurchaseOrderStatus `json:"status" binding:"required,oneof=draft sent received paid"`
}

// PurchaseOrderListFilter represents filter options for the purchase order list
type PurchaseOrderListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status" binding:"omitempty,oneof=draft sent received paid"`
	SupplierID *uuid.UUID `form:"-"` // parsed by the handler from supplier_id
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=200"`
	OrderBy    string     `form:"order_by" binding:"omitempty,oneof=date total status number created_at"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID           uuid.UUID                 `json:"id"`
	TenantID     uuid.UUID                 `json:"tenant_id"`
	Number       string                    `json:"number"`
	SupplierID   uuid.UUID                 `json:"supplier_id"`
	SupplierName string                    `json:"supplier_name,omitempty"`
	Status       trade.PurchaseOrderStatus `json:"status"`
	StatusLabel  string                    `json:"status_label"`
	OrderDate    time.Time                 `json:"order_date"`
	ApplyVAT     bool                      `json:"apply_vat"`
	Subtotal     decimal.Decimal           `json:"subtotal"`
	TotalVAT     decimal.Decimal           `json:"total_vat"`
	TotalTTC     decimal.Decimal           `json:"total_ttc"`
	Notes        string                    `json:"notes"`
	Items        []OrderLineResponse       `json:"items"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}

// ToPurchaseOrderResponse converts a domain PurchaseOrder
func ToPurchaseOrderResponse(p *trade.PurchaseOrder) PurchaseOrderResponse {
	return PurchaseOrderResponse{
		ID:          p.ID,
		TenantID:    p.TenantID,
		Number:      p.Number,
		SupplierID:  p.SupplierID,
		Status:      p.Status,
		StatusLabel: p.Status.Label(),
		OrderDate:   p.OrderDate,
		ApplyVAT:    p.ApplyVAT,
		Subtotal:    p.Subtotal,
		TotalVAT:    p.TotalVAT,
		TotalTTC:    p.TotalTTC,
		Notes:       p.Notes,
		Items:       toLineResponses(p.Items),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToPurchaseOrderResponses converts a slice of purchase orders
func ToPurchaseOrderResponses(orders []trade.PurchaseOrder) []PurchaseOrderResponse {
	out := make([]PurchaseOrderResponse, len(orders))
	for i := range orders {
		out[i] = ToPurchaseOrderResponse(&orders[i])
	}
	return out
}
