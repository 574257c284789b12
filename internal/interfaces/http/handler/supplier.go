package handler

import (
	"github.com/gin-gonic/gin"
	partnerapp "github.com/tijara/backend/internal/application/partner"
	tradeapp "github.com/tijara/backend/internal/application/trade"
)

// SupplierHandler handles suppliers, their payments and balance
type SupplierHandler struct {
	BaseHandler
	supplierService *partnerapp.SupplierService
	orderService    *tradeapp.PurchaseOrderService
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(supplierService *partnerapp.SupplierService, orderService *tradeapp.PurchaseOrderService) *SupplierHandler {
	return &SupplierHandler{
		supplierService: supplierService,
		orderService:    orderService,
	}
}

// Create handles POST /suppliers
func (h *SupplierHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req partnerapp.SupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}

	supplier, err := h.supplierService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

// GetByID handles GET /suppliers/:id
func (h *SupplierHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.scope(c)
	if !ok {
		return
	}
	supplier, err := h.supplierService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// List handles GET /suppliers
func (h *SupplierHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var filter partnerapp.SupplierListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	suppliers, total, err := h.supplierService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, suppliers, total, filter.Page, filter.PageSize)
}

// Update handles PUT /suppliers/:id
func (h *SupplierHandler) Update(c *gin.Context) {
	tenantID, id, ok := h.scope(c)
	if !ok {
		return
	}
	var req partnerapp.SupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}

	supplier, err := h.supplierService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// Delete handles DELETE /suppliers/:id
func (h *SupplierHandler) Delete(c *gin.Context) {
	tenantID, id, ok := h.scope(c)
	if !ok {
		return
	}
	if err := h.supplierService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Balance handles GET /suppliers/:id/balance
func (h *SupplierHandler) Balance(c *gin.Context) {
	tenantID, id, ok := h.scope(c)
	if !ok {
		return
	}
	balance, err := h.supplierService.Balance(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

// RecordPayment handles POST /suppliers/:id/payments
func (h *SupplierHandler) RecordPayment(c *gin.Context) {
	tenantID, id, ok := h.scope(c)
	if !ok {
		return
	}
	var req partnerapp.RecordPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payment, err := h.supplierService.RecordPayment(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// Payments handles GET /suppliers/:id/payments
func (h *SupplierHandler) Payments(c *gin.Context) {
	tenantID, id, ok := h.scope(c)
	if !ok {
		return
	}
	payments, err := h.supplierService.ListPayments(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// PurchaseOrders handles GET /suppliers/:id/purchase-orders
func (h *SupplierHandler) PurchaseOrders(c *gin.Context) {
	tenantID, id, ok := h.scope(c)
	if !ok {
		return
	}
	orders, err := h.orderService.ListBySupplier(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// RegisterRoutes registers the supplier routes on rg
func (h *SupplierHandler) RegisterRoutes(rg *gin.RouterGroup) {
	suppliers := rg.Group("/suppliers")
	suppliers.GET("", h.List)
	suppliers.POST("", h.Create)
	suppliers.GET("/:id", h.GetByID)
	suppliers.PUT("/:id", h.Update)
	suppliers.DELETE("/:id", h.Delete)
	suppliers.GET("/:id/balance", h.Balance)
	suppliers.GET("/:id/payments", h.Payments)
	suppliers.POST("/:id/payments", h.RecordPayment)
	if h.orderService != nil {
		suppliers.GET("/:id/purchase-orders", h.PurchaseOrders)
	}
}
