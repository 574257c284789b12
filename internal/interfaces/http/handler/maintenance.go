package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/tijara/backend/internal/application/inventory"
	tradeapp "github.com/tijara/backend/internal/application/trade"
)

// MaintenanceHandler exposes the ledger consistency tools
type MaintenanceHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
	linkService  *tradeapp.ProductLinkService
}

// NewMaintenanceHandler creates a new MaintenanceHandler
func NewMaintenanceHandler(stockService *inventoryapp.StockService, linkService *tradeapp.ProductLinkService) *MaintenanceHandler {
	return &MaintenanceHandler{
		stockService: stockService,
		linkService:  linkService,
	}
}

// Reconciliation handles GET /stock/reconciliation. It reports products
// whose cached stock differs from the ledger without changing anything.
func (h *MaintenanceHandler) Reconciliation(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	report, err := h.stockService.Reconcile(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// RebuildStockCache handles POST /maintenance/rebuild-stock-cache
func (h *MaintenanceHandler) RebuildStockCache(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	result, err := h.stockService.RebuildCache(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// BackfillProducts handles POST /maintenance/backfill-products
func (h *MaintenanceHandler) BackfillProducts(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	report, err := h.linkService.Backfill(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// RegisterRoutes registers the maintenance routes on rg
func (h *MaintenanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stock/reconciliation", h.Reconciliation)
	maintenance := rg.Group("/maintenance")
	maintenance.POST("/rebuild-stock-cache", h.RebuildStockCache)
	if h.linkService != nil {
		maintenance.POST("/backfill-products", h.BackfillProducts)
	}
}
