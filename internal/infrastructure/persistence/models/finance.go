package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tijara/backend/internal/domain/finance"
	"github.com/tijara/backend/internal/domain/trade"
)

// InvoiceModel is the persistence model for the Invoice aggregate
type InvoiceModel struct {
	TenantAggregateModel
	InvoiceNumber string                `gorm:"type:varchar(50);not null;index"`
	ClientID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	OrderID       *uuid.UUID            `gorm:"type:uuid;uniqueIndex:idx_invoices_order"`
	Status        finance.InvoiceStatus `gorm:"type:varchar(20);not null;index"`
	Subtotal      decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	TotalVAT      decimal.Decimal       `gorm:"column:total_vat;type:decimal(18,2);not null;default:0"`
	TotalTTC      decimal.Decimal       `gorm:"column:total_ttc;type:decimal(18,2);not null;default:0"`
	ApplyVAT      bool                  `gorm:"column:apply_vat;not null;default:false"`
	InvoiceDate   time.Time             `gorm:"not null;index"`
	DueDate       *time.Time            `gorm:"index"`
	Items         []InvoiceItemModel    `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceItemModel is one line of an invoice
type InvoiceItemModel struct {
	LineColumns
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the model to a domain Invoice
func (m *InvoiceModel) ToDomain() *finance.Invoice {
	items := append([]InvoiceItemModel(nil), m.Items...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Position < items[j].Position })

	inv := &finance.Invoice{
		TenantAggregateRoot: m.Aggregate(),
		Number:              m.InvoiceNumber,
		ClientID:            m.ClientID,
		OrderID:             m.OrderID,
		Status:              m.Status,
		Subtotal:            m.Subtotal,
		TotalVAT:            m.TotalVAT,
		TotalTTC:            m.TotalTTC,
		ApplyVAT:            m.ApplyVAT,
		Date:                m.InvoiceDate,
		DueDate:             m.DueDate,
		Items:               make([]trade.OrderLine, len(items)),
	}
	for i := range items {
		inv.Items[i] = items[i].toLine()
	}
	return inv
}

// InvoiceModelFromDomain builds the model of inv and its items
func InvoiceModelFromDomain(inv *finance.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		InvoiceNumber: inv.Number,
		ClientID:      inv.ClientID,
		OrderID:       inv.OrderID,
		Status:        inv.Status,
		Subtotal:      inv.Subtotal,
		TotalVAT:      inv.TotalVAT,
		TotalTTC:      inv.TotalTTC,
		ApplyVAT:      inv.ApplyVAT,
		InvoiceDate:   inv.Date,
		DueDate:       inv.DueDate,
		Items:         make([]InvoiceItemModel, len(inv.Items)),
	}
	m.FromAggregate(inv.TenantAggregateRoot)
	for i, l := range inv.Items {
		m.Items[i] = InvoiceItemModel{LineColumns: lineColumns(l, i), InvoiceID: inv.ID}
	}
	return m
}

// InvoiceSequenceModel holds the per-tenant, per-year invoice counter
type InvoiceSequenceModel struct {
	TenantID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Year      int       `gorm:"primaryKey;autoIncrement:false"`
	LastValue int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (InvoiceSequenceModel) TableName() string {
	return "invoice_sequences"
}

// SupplierPaymentModel is the persistence model for supplier payments
type SupplierPaymentModel struct {
	TenantAggregateModel
	SupplierID  uuid.UUID             `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	PaymentDate time.Time             `gorm:"not null;index"`
	Method      finance.PaymentMethod `gorm:"type:varchar(20);not null"`
	Reference   string                `gorm:"type:varchar(100)"`
	Notes       string                `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SupplierPaymentModel) TableName() string {
	return "supplier_payments"
}

// ToDomain converts the model to a domain SupplierPayment
func (m *SupplierPaymentModel) ToDomain() *finance.SupplierPayment {
	return &finance.SupplierPayment{
		TenantAggregateRoot: m.Aggregate(),
		SupplierID:          m.SupplierID,
		Amount:              m.Amount,
		Date:                m.PaymentDate,
		Method:              m.Method,
		Reference:           m.Reference,
		Notes:               m.Notes,
	}
}

// SupplierPaymentModelFromDomain builds the model of p
func SupplierPaymentModelFromDomain(p *finance.SupplierPayment) *SupplierPaymentModel {
	m := &SupplierPaymentModel{
		SupplierID:  p.SupplierID,
		Amount:      p.Amount,
		PaymentDate: p.Date,
		Method:      p.Method,
		Reference:   p.Reference,
		Notes:       p.Notes,
	}
	m.FromAggregate(p.TenantAggregateRoot)
	return m
}
