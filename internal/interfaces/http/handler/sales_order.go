package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	financeapp "github.com/tijara/backend/internal/application/finance"
	printingapp "github.com/tijara/backend/internal/application/printing"
	tradeapp "github.com/tijara/backend/internal/application/trade"
	"github.com/tijara/backend/internal/infrastructure/storage"
	"github.com/tijara/backend/internal/interfaces/http/middleware"
)

// Response headers set on a rendered delivery note
const (
	HeaderPageCount   = "X-Page-Count"
	HeaderDownloadURL = "X-Download-URL"
	HeaderURLExpires  = "X-Download-URL-Expires"
)

// SalesOrderHandler handles sales orders and the documents derived from them
type SalesOrderHandler struct {
	BaseHandler
	orderService    *tradeapp.SalesOrderService
	invoiceService  *financeapp.InvoiceService
	deliveryService *printingapp.DeliveryNoteService
}

// NewSalesOrderHandler creates a new SalesOrderHandler. invoiceService and
// deliveryService may be nil; their routes are then not registered.
func NewSalesOrderHandler(
	orderService *tradeapp.SalesOrderService,
	invoiceService *financeapp.InvoiceService,
	deliveryService *printingapp.DeliveryNoteService,
) *SalesOrderHandler {
	return &SalesOrderHandler{
		orderService:    orderService,
		invoiceService:  invoiceService,
		deliveryService: deliveryService,
	}
}

// Create handles POST /sales-orders
func (h *SalesOrderHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req tradeapp.CreateSalesOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// GetByID handles GET /sales-orders/:id
func (h *SalesOrderHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.scope(c)
	if !ok {
		return
	}
	order, err := h.orderService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List handles GET /sales-orders
func (h *SalesOrderHandler) List(c *gin.Context) {
	tenantID, filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	orders, total, err := h.orderService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Export handles GET /sales-orders/export?format=csv|xlsx with the list filters
func (h *SalesOrderHandler) Export(c *gin.Context) {
	tenantID, filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	file, err := h.orderService.Export(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.File(c, file.Name, file.ContentType, file.Data, false)
}

func (h *SalesOrderHandler) listFilter(c *gin.Context) (tenantID uuid.UUID, filter tradeapp.SalesOrderListFilter, ok bool) {
	tenantID, ok = h.tenantID(c)
	if !ok {
		return
	}
	if ok = h.bindQuery(c, &filter); !ok {
		return
	}
	filter.ClientID, ok = h.queryUUID(c, "client_id")
	return
}

// ReplaceItems handles PUT /sales-orders/:id/items
func (h *SalesOrderHandler) ReplaceItems(c *gin.Context) {
	tenantID, id, ok := h.scope(c)
	if !ok {
		return
	}
	var req tradeapp.ReplaceItemsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.ReplaceItems(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// ChangeStatus handles POST /sales-orders/:id/status. The response lists the
// stock movements the transition wrote.
func (h *SalesOrderHandler) ChangeStatus(c *gin.Context) {
	tenantID, id, ok := h.scope(c)
	if !ok {
		return
	}
	var req tradeapp.ChangeStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.orderService.ChangeStatus(c.Request.Context(), tenantID, id, req, middleware.GetUserName(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Delete handles DELETE /sales-orders/:id
func (h *SalesOrderHandler) Delete(c *gin.Context) {
	tenantID, id, ok := h.scope(c)
	if !ok {
		return
	}
	if err := h.orderService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// DeliveryNote handles GET /sales-orders/:id/delivery-note. The PDF is
// returned inline; ?download=true asks for an attachment.
func (h *SalesOrderHandler) DeliveryNote(c *gin.Context) {
	tenantID, id, ok := h.scope(c)
	if !ok {
		return
	}
	result, err := h.deliveryService.Render(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header(HeaderPageCount, strconv.Itoa(result.PageCount))
	if result.DownloadURL != "" {
		c.Header(HeaderDownloadURL, result.DownloadURL)
		if result.ExpiresAt != nil {
			c.Header(HeaderURLExpires, result.ExpiresAt.UTC().Format(time.RFC3339))
		}
	}
	download, _ := strconv.ParseBool(c.Query("download"))
	h.File(c, result.Filename, storage.ContentTypePDF, result.PDF, !download)
}

// CreateInvoice handles POST /sales-orders/:id/invoice
func (h *SalesOrderHandler) CreateInvoice(c *gin.Context) {
	tenantID, id, ok := h.scope(c)
	if !ok {
		return
	}
	var req financeapp.CreateInvoiceRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.CreateFromOrder(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// RegisterRoutes registers the sales order routes on rg
func (h *SalesOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/sales-orders")
	orders.GET("", h.List)
	orders.POST("", h.Create)
	orders.GET("/export", h.Export)
	orders.GET("/:id", h.GetByID)
	orders.PUT("/:id/items", h.ReplaceItems)
	orders.POST("/:id/status", h.ChangeStatus)
	orders.DELETE("/:id", h.Delete)
	if h.deliveryService != nil {
		orders.GET("/:id/delivery-note", h.DeliveryNote)
	}
	if h.invoiceService != nil {
		orders.POST("/:id/invoice", h.CreateInvoice)
	}
}
