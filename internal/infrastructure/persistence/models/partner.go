package models

import (
	"github.com/tijara/backend/internal/domain/partner"
)

// ClientModel is the persistence model for the Client aggregate
type ClientModel struct {
	TenantAggregateModel
	Name    string `gorm:"type:varchar(200);not null;index"`
	ICE     string `gorm:"column:ice;type:varchar(30);index"`
	Address string `gorm:"type:varchar(500)"`
	Phone   string `gorm:"type:varchar(30)"`
	Email   string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the model to a domain Client
func (m *ClientModel) ToDomain() *partner.Client {
	return &partner.Client{
		TenantAggregateRoot: m.Aggregate(),
		Name:                m.Name,
		ICE:                 m.ICE,
		Contact: partner.Contact{
			Address: m.Address,
			Phone:   m.Phone,
			Email:   m.Email,
		},
	}
}

// ClientModelFromDomain builds the model of c
func ClientModelFromDomain(c *partner.Client) *ClientModel {
	m := &ClientModel{
		Name:    c.Name,
		ICE:     c.ICE,
		Address: c.Address,
		Phone:   c.Phone,
		Email:   c.Email,
	}
	m.FromAggregate(c.TenantAggregateRoot)
	return m
}

// SupplierModel is the persistence model for the Supplier aggregate
type SupplierModel struct {
	TenantAggregateModel
	Name        string                 `gorm:"type:varchar(200);not null;index"`
	ICE         string                 `gorm:"column:ice;type:varchar(30)"`
	ContactName string                 `gorm:"type:varchar(100)"`
	Address     string                 `gorm:"type:varchar(500)"`
	Phone       string                 `gorm:"type:varchar(30)"`
	Email       string                 `gorm:"type:varchar(200)"`
	Status      partner.SupplierStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the model to a domain Supplier
func (m *SupplierModel) ToDomain() *partner.Supplier {
	return &partner.Supplier{
		TenantAggregateRoot: m.Aggregate(),
		Name:                m.Name,
		ICE:                 m.ICE,
		ContactName:         m.ContactName,
		Contact: partner.Contact{
			Address: m.Address,
			Phone:   m.Phone,
			Email:   m.Email,
		},
		Status: m.Status,
	}
}

// SupplierModelFromDomain builds the model of s
func SupplierModelFromDomain(s *partner.Supplier) *SupplierModel {
	m := &SupplierModel{
		Name:        s.Name,
		ICE:         s.ICE,
		ContactName: s.ContactName,
		Address:     s.Address,
		Phone:       s.Phone,
		Email:       s.Email,
		Status:      s.Status,
	}
	m.FromAggregate(s.TenantAggregateRoot)
	return m
}
