package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/tijara/backend/internal/application/finance"
	partnerapp "github.com/tijara/backend/internal/application/partner"
)

// ClientHandler handles the client directory
type ClientHandler struct {
	BaseHandler
	clientService  *partnerapp.ClientService
	invoiceService *financeapp.InvoiceService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService *partnerapp.ClientService, invoiceService *financeapp.InvoiceService) *ClientHandler {
	return &ClientHandler{
		clientService:  clientService,
		invoiceService: invoiceService,
	}
}

// Create handles POST /clients
func (h *ClientHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req partnerapp.ClientRequest
	if !h.bindJSON(c, &req) {
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, client)
}

// GetByID handles GET /clients/:id
func (h *ClientHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.scope(c)
	if !ok {
		return
	}
	client, err := h.clientService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// Detail handles GET /clients/:id/detail: the client with its orders and totals
func (h *ClientHandler) Detail(c *gin.Context) {
	tenantID, id, ok := h.scope(c)
	if !ok {
		return
	}
	detail, err := h.clientService.Detail(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}

// Invoices handles GET /clients/:id/invoices
func (h *ClientHandler) Invoices(c *gin.Context) {
	tenantID, id, ok := h.scope(c)
	if !ok {
		return
	}
	invoices, err := h.invoiceService.ListByClient(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoices)
}

// List handles GET /clients
func (h *ClientHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var filter partnerapp.ClientListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	clients, total, err := h.clientService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, clients, total, filter.Page, filter.PageSize)
}

// Update handles PUT /clients/:id
func (h *ClientHandler) Update(c *gin.Context) {
	tenantID, id, ok := h.scope(c)
	if !ok {
		return
	}
	var req partnerapp.ClientRequest
	if !h.bindJSON(c, &req) {
		return
	}

	client, err := h.clientService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// Delete handles DELETE /clients/:id
func (h *ClientHandler) Delete(c *gin.Context) {
	tenantID, id, ok := h.scope(c)
	if !ok {
		return
	}
	if err := h.clientService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers the client routes on rg
func (h *ClientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	clients := rg.Group("/clients")
	clients.GET("", h.List)
	clients.POST("", h.Create)
	clients.GET("/:id", h.GetByID)
	clients.PUT("/:id", h.Update)
	clients.DELETE("/:id", h.Delete)
	clients.GET("/:id/detail", h.Detail)
	if h.invoiceService != nil {
		clients.GET("/:id/invoices", h.Invoices)
	}
}
