package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tijara/backend/internal/domain/trade"
)

// Product link states of a sales order item
const (
	ProductLinkLinked     = "linked"
	ProductLinkUnresolved = "unresolved"
)

// SalesOrderModel is the persistence model for the SalesOrder aggregate
type SalesOrderModel struct {
	TenantAggregateModel
	OrderNumber  string                `gorm:"type:varchar(50);not null;index"`
	ClientID     *uuid.UUID            `gorm:"type:uuid;index"`
	ClientName   string                `gorm:"type:varchar(200)"`
	ClientType   trade.ClientType      `gorm:"type:varchar(20);not null"`
	Status       trade.OrderStatus     `gorm:"type:varchar(30);not null;index"`
	OrderDate    time.Time             `gorm:"not null;index"`
	DeliveryDate *time.Time            `gorm:"index"`
	Subtotal     decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	TotalVAT     decimal.Decimal       `gorm:"column:total_vat;type:decimal(18,2);not null;default:0"`
	TotalTTC     decimal.Decimal       `gorm:"column:total_ttc;type:decimal(18,2);not null;default:0"`
	ApplyVAT     bool                  `gorm:"column:apply_vat;not null;default:false"`
	StockDebited bool                  `gorm:"not null;default:false"`
	Notes        string                `gorm:"type:text"`
	Items        []SalesOrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (SalesOrderModel) TableName() string {
	return "sales_orders"
}

// SalesOrderItemModel is one line of a sales order
type SalesOrderItemModel struct {
	LineColumns
	OrderID           uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductLinkStatus string    `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (SalesOrderItemModel) TableName() string {
	return "sales_order_items"
}

// ToDomain converts the model to a domain SalesOrder
func (m *SalesOrderModel) ToDomain() *trade.SalesOrder {
	items := append([]SalesOrderItemModel(nil), m.Items...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Position < items[j].Position })

	order := &trade.SalesOrder{
		TenantAggregateRoot: m.Aggregate(),
		Number:              m.OrderNumber,
		ClientID:            m.ClientID,
		ClientName:          m.ClientName,
		ClientType:          m.ClientType,
		Status:              m.Status,
		OrderDate:           m.OrderDate,
		DeliveryDate:        m.DeliveryDate,
		Subtotal:            m.Subtotal,
		TotalVAT:            m.TotalVAT,
		TotalTTC:            m.TotalTTC,
		ApplyVAT:            m.ApplyVAT,
		StockDebited:        m.StockDebited,
		Notes:               m.Notes,
		Items:               make([]trade.OrderLine, len(items)),
	}
	for i := range items {
		order.Items[i] = items[i].toLine()
	}
	return order
}

// SalesOrderModelFromDomain builds the model of o and its items
func SalesOrderModelFromDomain(o *trade.SalesOrder) *SalesOrderModel {
	m := &SalesOrderModel{
		OrderNumber:  o.Number,
		ClientID:     o.ClientID,
		ClientName:   o.ClientName,
		ClientType:   o.ClientType,
		Status:       o.Status,
		OrderDate:    o.OrderDate,
		DeliveryDate: o.DeliveryDate,
		Subtotal:     o.Subtotal,
		TotalVAT:     o.TotalVAT,
		TotalTTC:     o.TotalTTC,
		ApplyVAT:     o.ApplyVAT,
		StockDebited: o.StockDebited,
		Notes:        o.Notes,
		Items:        make([]SalesOrderItemModel, len(o.Items)),
	}
	m.FromAggregate(o.TenantAggregateRoot)
	for i, l := range o.Items {
		item := SalesOrderItemModel{LineColumns: lineColumns(l, i), OrderID: o.ID}
		if l.ProductID != nil {
			item.ProductLinkStatus = ProductLinkLinked
		}
		m.Items[i] = item
	}
	return m
}

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate
type PurchaseOrderModel struct {
	TenantAggregateModel
	OrderNumber string                    `gorm:"type:varchar(50);not null;index"`
	SupplierID  uuid.UUID                 `gorm:"type:uuid;not null;index"`
	OrderDate   time.Time                 `gorm:"not null;index"`
	Status      trade.PurchaseOrderStatus `gorm:"type:varchar(20);not null;index"`
	Subtotal    decimal.Decimal           `gorm:"type:decimal(18,2);not null;default:0"`
	TotalVAT    decimal.Decimal           `gorm:"column:total_vat;type:decimal(18,2);not null;default:0"`
	TotalTTC    decimal.Decimal           `gorm:"column:total_ttc;type:decimal(18,2);not null;default:0"`
	ApplyVAT    bool                      `gorm:"column:apply_vat;not null;default:false"`
	Notes       string                    `gorm:"type:text"`
	Items       []PurchaseOrderItemModel  `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// PurchaseOrderItemModel is one line of a purchase order
type PurchaseOrderItemModel struct {
	LineColumns
	OrderID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItemModel) TableName() string {
	return "purchase_order_items"
}

// ToDomain converts the model to a domain PurchaseOrder
func (m *PurchaseOrderModel) ToDomain() *trade.PurchaseOrder {
	items := append([]PurchaseOrderItemModel(nil), m.Items...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Position < items[j].Position })

	po := &trade.PurchaseOrder{
		TenantAggregateRoot: m.Aggregate(),
		Number:              m.OrderNumber,
		SupplierID:          m.SupplierID,
		OrderDate:           m.OrderDate,
		Status:              m.Status,
		Subtotal:            m.Subtotal,
		TotalVAT:            m.TotalVAT,
		TotalTTC:            m.TotalTTC,
		ApplyVAT:            m.ApplyVAT,
		Notes:               m.Notes,
		Items:               make([]trade.OrderLine, len(items)),
	}
	for i := range items {
		po.Items[i] = items[i].toLine()
	}
	return po
}

// PurchaseOrderModelFromDomain builds the model of p and its items
func PurchaseOrderModelFromDomain(p *trade.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{
		OrderNumber: p.Number,
		SupplierID:  p.SupplierID,
		OrderDate:   p.OrderDate,
		Status:      p.Status,
		Subtotal:    p.Subtotal,
		TotalVAT:    p.TotalVAT,
		TotalTTC:    p.TotalTTC,
		ApplyVAT:    p.ApplyVAT,
		Notes:       p.Notes,
		Items:       make([]PurchaseOrderItemModel, len(p.Items)),
	}
	m.FromAggregate(p.TenantAggregateRoot)
	for i, l := range p.Items {
		m.Items[i] = PurchaseOrderItemModel{LineColumns: lineColumns(l, i), OrderID: p.ID}
	}
	return m
}
