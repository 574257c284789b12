// Package settings holds the company profile used on documents and numbering.
package settings

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tijara/backend/internal/domain/finance"
	"github.com/tijara/backend/internal/domain/shared"
)

// CompanyProfile is the legal identity of the tenant company
type CompanyProfile struct {
	TenantID               uuid.UUID
	Name                   string
	ICE                    string
	IF                     string // identifiant fiscal
	RC                     string // registre de commerce
	CNSS                   string
	Patente                string
	Phone                  string
	Address                string
	Email                  string
	Website                string
	LogoURL                string
	SignatureURL           string
	InvoicePrefix          string
	InvoiceNumberingFormat finance.NumberingFormat
	DefaultTemplate        string
	UpdatedAt              time.Time
}

// DefaultCompanyProfile is returned for tenants without saved settings
func DefaultCompanyProfile(tenantID uuid.UUID) *CompanyProfile {
	return &CompanyProfile{
		TenantID:               tenantID,
		InvoicePrefix:          finance.DefaultInvoicePrefix,
		InvoiceNumberingFormat: finance.DefaultNumberingFormat,
		DefaultTemplate:        "template1",
	}
}

// Normalize trims fields and restores numbering defaults
func (c *CompanyProfile) Normalize() error {
	c.Name = strings.TrimSpace(c.Name)
	c.ICE = strings.TrimSpace(c.ICE)
	c.IF = strings.TrimSpace(c.IF)
	c.RC = strings.TrimSpace(c.RC)
	c.CNSS = strings.TrimSpace(c.CNSS)
	c.Patente = strings.TrimSpace(c.Patente)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
	c.Email = strings.TrimSpace(c.Email)
	c.Website = strings.TrimSpace(c.Website)
	c.InvoicePrefix = strings.TrimSpace(c.InvoicePrefix)

	if len(c.Name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Company name cannot exceed 200 characters")
	}
	if len(c.InvoicePrefix) > 10 {
		return shared.NewDomainError("INVALID_INVOICE_PREFIX", "Invoice prefix cannot exceed 10 characters")
	}
	if c.InvoicePrefix == "" {
		c.InvoicePrefix = finance.DefaultInvoicePrefix
	}
	if c.InvoiceNumberingFormat == "" {
		c.InvoiceNumberingFormat = finance.DefaultNumberingFormat
	}
	if !c.InvoiceNumberingFormat.IsValid() {
		return shared.NewDomainError("INVALID_NUMBERING_FORMAT", "Unknown invoice numbering format")
	}
	if c.DefaultTemplate == "" {
		c.DefaultTemplate = "template1"
	}
	return nil
}

// InvoiceNumber renders the invoice number for a counter in year
func (c *CompanyProfile) InvoiceNumber(year, counter int) string {
	return finance.FormatInvoiceNumber(c.InvoiceNumberingFormat, c.InvoicePrefix, year, counter)
}

// CompanyRepository stores one profile per tenant
type CompanyRepository interface {
	// FindByTenant returns shared.ErrNotFound when nothing was saved yet
	FindByTenant(ctx context.Context, tenantID uuid.UUID) (*CompanyProfile, error)
	Save(ctx context.Context, profile *CompanyProfile) error
}
