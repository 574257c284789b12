package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/tijara/backend/internal/domain/finance"
	"github.com/tijara/backend/internal/domain/settings"
)

// CompanySettingsModel stores one company profile per tenant
type CompanySettingsModel struct {
	TenantID               uuid.UUID               `gorm:"type:uuid;primaryKey"`
	Name                   string                  `gorm:"type:varchar(200)"`
	ICE                    string                  `gorm:"column:ice;type:varchar(30)"`
	IF                     string                  `gorm:"column:if_number;type:varchar(30)"`
	RC                     string                  `gorm:"column:rc;type:varchar(30)"`
	CNSS                   string                  `gorm:"column:cnss;type:varchar(30)"`
	Patente                string                  `gorm:"type:varchar(30)"`
	Phone                  string                  `gorm:"type:varchar(30)"`
	Address                string                  `gorm:"type:varchar(500)"`
	Email                  string                  `gorm:"type:varchar(200)"`
	Website                string                  `gorm:"type:varchar(200)"`
	LogoURL                string                  `gorm:"column:logo_url;type:text"`
	SignatureURL           string                  `gorm:"column:signature_url;type:text"`
	InvoicePrefix          string                  `gorm:"type:varchar(10);not null;default:'FAC'"`
	InvoiceNumberingFormat finance.NumberingFormat `gorm:"type:varchar(20);not null;default:'format2'"`
	DefaultTemplate        string                  `gorm:"type:varchar(30)"`
	UpdatedAt              time.Time               `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CompanySettingsModel) TableName() string {
	return "company_settings"
}

// ToDomain converts the model to a domain CompanyProfile
func (m *CompanySettingsModel) ToDomain() *settings.CompanyProfile {
	return &settings.CompanyProfile{
		TenantID:               m.TenantID,
		Name:                   m.Name,
		ICE:                    m.ICE,
		IF:                     m.IF,
		RC:                     m.RC,
		CNSS:                   m.CNSS,
		Patente:                m.Patente,
		Phone:                  m.Phone,
		Address:                m.Address,
		Email:                  m.Email,
		Website:                m.Website,
		LogoURL:                m.LogoURL,
		SignatureURL:           m.SignatureURL,
		InvoicePrefix:          m.InvoicePrefix,
		InvoiceNumberingFormat: m.InvoiceNumberingFormat,
		DefaultTemplate:        m.DefaultTemplate,
		UpdatedAt:              m.UpdatedAt,
	}
}

// CompanySettingsModelFromDomain builds the model of c
func CompanySettingsModelFromDomain(c *settings.CompanyProfile) *CompanySettingsModel {
	return &CompanySettingsModel{
		TenantID:               c.TenantID,
		Name:                   c.Name,
		ICE:                    c.ICE,
		IF:                     c.IF,
		RC:                     c.RC,
		CNSS:                   c.CNSS,
		Patente:                c.Patente,
		Phone:                  c.Phone,
		Address:                c.Address,
		Email:                  c.Email,
		Website:                c.Website,
		LogoURL:                c.LogoURL,
		SignatureURL:           c.SignatureURL,
		InvoicePrefix:          c.InvoicePrefix,
		InvoiceNumberingFormat: c.InvoiceNumberingFormat,
		DefaultTemplate:        c.DefaultTemplate,
		UpdatedAt:              c.UpdatedAt,
	}
}
