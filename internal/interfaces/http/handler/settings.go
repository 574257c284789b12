package handler

import (
	"github.com/gin-gonic/gin"
	settingsapp "github.com/tijara/backend/internal/application/settings"
)

// SettingsHandler handles the company profile printed on documents
type SettingsHandler struct {
	BaseHandler
	companyService *settingsapp.CompanyService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(companyService *settingsapp.CompanyService) *SettingsHandler {
	return &SettingsHandler{companyService: companyService}
}

// GetCompany handles GET /settings/company. A tenant that never saved a
// profile gets the defaults.
func (h *SettingsHandler) GetCompany(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	company, err := h.companyService.Get(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}

// UpdateCompany handles PUT /settings/company
func (h *SettingsHandler) UpdateCompany(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req settingsapp.CompanyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	company, err := h.companyService.Update(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}

// RegisterRoutes registers the settings routes on rg
func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	settings := rg.Group("/settings")
	settings.GET("/company", h.GetCompany)
	settings.PUT("/company", h.UpdateCompany)
}
