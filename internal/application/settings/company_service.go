// Package settings serves the company profile printed on documents.
package settings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tijara/backend/internal/domain/finance"
	"github.com/tijara/backend/internal/domain/settings"
	"github.com/tijara/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CompanyRequest replaces the company profile
type CompanyRequest struct {
	Name                   string                  `json:"name" binding:"max=200"`
	ICE                    string                  `json:"ice" binding:"max=30"`
	IF                     string                  `json:"if" binding:"max=30"`
	RC                     string                  `json:"rc" binding:"max=30"`
	CNSS                   string                  `json:"cnss" binding:"max=30"`
	Patente                string                  `json:"patente" binding:"max=30"`
	Phone                  string                  `json:"phone" binding:"max=50"`
	Address                string                  `json:"address" binding:"max=500"`
	Email                  string                  `json:"email" binding:"omitempty,email,max=200"`
	Website                string                  `json:"website" binding:"max=200"`
	LogoURL                string                  `json:"logo_url" binding:"omitempty,url,max=1000"`
	SignatureURL           string                  `json:"signature_url" binding:"omitempty,url,max=1000"`
	InvoicePrefix          string                  `json:"invoice_prefix" binding:"max=10"`
	InvoiceNumberingFormat finance.NumberingFormat `json:"invoice_numbering_format" binding:"omitempty,oneof=format1 format2 format3 format4 format5"`
	DefaultTemplate        string                  `json:"default_template" binding:"max=50"`
}

// CompanyResponse represents the company profile in API responses
type CompanyResponse struct {
	Name                   string                  `json:"name"`
	ICE                    string                  `json:"ice"`
	IF                     string                  `json:"if"`
	RC                     string                  `json:"rc"`
	CNSS                   string                  `json:"cnss"`
	Patente                string                  `json:"patente"`
	Phone                  string                  `json:"phone"`
	Address                string                  `json:"address"`
	Email                  string                  `json:"email"`
	Website                string                  `json:"website"`
	LogoURL                string                  `json:"logo_url"`
	SignatureURL           string                  `json:"signature_url"`
	InvoicePrefix          string                  `json:"invoice_prefix"`
	InvoiceNumberingFormat finance.NumberingFormat `json:"invoice_numbering_format"`
	InvoiceNumberExample   string                  `json:"invoice_number_example"`
	DefaultTemplate        string                  `json:"default_template"`
	UpdatedAt              *time.Time              `json:"updated_at,omitempty"`
}

// ToCompanyResponse converts a domain CompanyProfile
func ToCompanyResponse(p *settings.CompanyProfile, year int) CompanyResponse {
	resp := CompanyResponse{
		Name:                   p.Name,
		ICE:                    p.ICE,
		IF:                     p.IF,
		RC:                     p.RC,
		CNSS:                   p.CNSS,
		Patente:                p.Patente,
		Phone:                  p.Phone,
		Address:                p.Address,
		Email:                  p.Email,
		Website:                p.Website,
		LogoURL:                p.LogoURL,
		SignatureURL:           p.SignatureURL,
		InvoicePrefix:          p.InvoicePrefix,
		InvoiceNumberingFormat: p.InvoiceNumberingFormat,
		InvoiceNumberExample:   p.InvoiceNumber(year, 1),
		DefaultTemplate:        p.DefaultTemplate,
	}
	if !p.UpdatedAt.IsZero() {
		at := p.UpdatedAt
		resp.UpdatedAt = &at
	}
	return resp
}

// CompanyService reads and writes the tenant's company profile
type CompanyService struct {
	repo   settings.CompanyRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(repo settings.CompanyRepository, logger *zap.Logger) *CompanyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompanyService{repo: repo, logger: logger, now: time.Now}
}

// Profile returns the saved profile or the defaults when none was saved
func (s *CompanyService) Profile(ctx context.Context, tenantID uuid.UUID) (*settings.CompanyProfile, error) {
	p, err := s.repo.FindByTenant(ctx, tenantID)
	if errors.Is(err, shared.ErrNotFound) {
		return settings.DefaultCompanyProfile(tenantID), nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns the company profile
func (s *CompanyService) Get(ctx context.Context, tenantID uuid.UUID) (*CompanyResponse, error) {
	p, err := s.Profile(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := ToCompanyResponse(p, s.now().Year())
	return &resp, nil
}

// Update replaces the company profile
func (s *CompanyService) Update(ctx context.Context, tenantID uuid.UUID, req CompanyRequest) (*CompanyResponse, error) {
	p := &settings.CompanyProfile{
		TenantID:               tenantID,
		Name:                   req.Name,
		ICE:                    req.ICE,
		IF:                     req.IF,
		RC:                     req.RC,
		CNSS:                   req.CNSS,
		Patente:                req.Patente,
		Phone:                  req.Phone,
		Address:                req.Address,
		Email:                  req.Email,
		Website:                req.Website,
		LogoURL:                req.LogoURL,
		SignatureURL:           req.SignatureURL,
		InvoicePrefix:          req.InvoicePrefix,
		InvoiceNumberingFormat: req.InvoiceNumberingFormat,
		DefaultTemplate:        req.DefaultTemplate,
		UpdatedAt:              s.now(),
	}
	if err := p.Normalize(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("company profile updated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("numbering_format", string(p.InvoiceNumberingFormat)))

	resp := ToCompanyResponse(p, s.now().Year())
	return &resp, nil
}
