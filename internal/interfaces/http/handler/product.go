package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/tijara/backend/internal/application/catalog"
	inventoryapp "github.com/tijara/backend/internal/application/inventory"
	"github.com/tijara/backend/internal/interfaces/http/middleware"
)

// ProductHandler handles the product catalog and its stock ledger
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
	stockService   *inventoryapp.StockService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService, stockService *inventoryapp.StockService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		stockService:   stockService,
	}
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req catalogapp.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), tenantID, req, middleware.GetUserName(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// GetByID handles GET /products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.scope(c)
	if !ok {
		return
	}
	product, err := h.productService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var filter catalogapp.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	products, total, err := h.productService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// LowStock handles GET /products/low-stock
func (h *ProductHandler) LowStock(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	products, err := h.productService.LowStock(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// Update handles PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	tenantID, id, ok := h.scope(c)
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete handles DELETE /products/:id. Products referenced by an order
// cannot be deleted.
func (h *ProductHandler) Delete(c *gin.Context) {
	tenantID, id, ok := h.scope(c)
	if !ok {
		return
	}
	if err := h.productService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Adjust handles POST /products/:id/adjustments
func (h *ProductHandler) Adjust(c *gin.Context) {
	tenantID, id, ok := h.scope(c)
	if !ok {
		return
	}
	var req inventoryapp.AdjustStockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	movement, err := h.stockService.Adjust(c.Request.Context(), tenantID, id, req, middleware.GetUserName(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, movement)
}

// Stock handles GET /products/:id/stock
func (h *ProductHandler) Stock(c *gin.Context) {
	tenantID, id, ok := h.scope(c)
	if !ok {
		return
	}
	stock, err := h.stockService.CurrentStock(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}

// History handles GET /products/:id/history?period=&type=
func (h *ProductHandler) History(c *gin.Context) {
	tenantID, id, ok := h.scope(c)
	if !ok {
		return
	}
	var filter inventoryapp.HistoryFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	history, err := h.stockService.History(c.Request.Context(), tenantID, id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, history)
}

// ExportHistory handles GET /products/:id/history/export?format=csv|xlsx
func (h *ProductHandler) ExportHistory(c *gin.Context) {
	tenantID, id, ok := h.scope(c)
	if !ok {
		return
	}
	var filter inventoryapp.HistoryFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	file, err := h.stockService.ExportHistory(c.Request.Context(), tenantID, id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.File(c, file.Name, file.ContentType, file.Data, false)
}

// RegisterRoutes registers the product routes on rg
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.GET("", h.List)
	products.POST("", h.Create)
	products.GET("/low-stock", h.LowStock)
	products.GET("/:id", h.GetByID)
	products.PUT("/:id", h.Update)
	products.DELETE("/:id", h.Delete)
	products.POST("/:id/adjustments", h.Adjust)
	products.GET("/:id/stock", h.Stock)
	products.GET("/:id/history", h.History)
	products.GET("/:id/history/export", h.ExportHistory)
}
