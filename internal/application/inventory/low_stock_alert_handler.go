package inventory

import (
	"context"
	"fmt"

	"github.com/tijara/backend/internal/domain/catalog"
	"github.com/tijara/backend/internal/domain/inventory"
	"github.com/tijara/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Alert types
const (
	AlertLowStock   = "low_stock"
	AlertOutOfStock = "out_of_stock"
)

// StockAlert is sent when a movement leaves a product at or below its minimum
type StockAlert struct {
	TenantID     string `json:"tenant_id"`
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name"`
	CurrentStock string `json:"current_stock"`
	MinStock     string `json:"min_stock"`
	MovementType string `json:"movement_type"`
	AlertType    string `json:"alert_type"`
}

// StockAlertNotifier delivers stock alerts
type StockAlertNotifier interface {
	SendAlert(ctx context.Context, alert StockAlert) error
}

// LowStockAlertHandler watches StockMovementRecorded events and alerts when
// the new stock reaches the product's minimum. Wrap it in an
// IdempotentHandler so redelivered events alert once.
type LowStockAlertHandler struct {
	products catalog.ProductRepository
	notifier StockAlertNotifier
	logger   *zap.Logger
}

// NewLowStockAlertHandler creates the handler; a nil notifier logs alerts
func NewLowStockAlertHandler(products catalog.ProductRepository, notifier StockAlertNotifier, logger *zap.Logger) *LowStockAlertHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NewLoggingStockAlertNotifier(logger)
	}
	return &LowStockAlertHandler{products: products, notifier: notifier, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockAlertHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockMovementRecorded}
}

// Handle checks the product threshold after a movement
func (h *LowStockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	recorded, ok := event.(*inventory.StockMovementRecordedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeStockMovementRecorded, event.EventType())
	}
	// a return or a positive adjustment cannot cross the threshold downward
	if !recorded.Quantity.IsNegative() {
		return nil
	}

	product, err := h.products.FindByIDForTenant(ctx, event.TenantID(), recorded.ProductID)
	if err != nil {
		return fmt.Errorf("load product %s: %w", recorded.ProductID, err)
	}
	if !product.IsLowStock(recorded.NewStock) {
		return nil
	}

	alertType := AlertLowStock
	if !recorded.NewStock.IsPositive() {
		alertType = AlertOutOfStock
	}
	alert := StockAlert{
		TenantID:     event.TenantID().String(),
		ProductID:    product.ID.String(),
		ProductName:  product.Name,
		CurrentStock: recorded.NewStock.String(),
		MinStock:     product.MinStock.String(),
		MovementType: string(recorded.MovementType),
		AlertType:    alertType,
	}
	if err := h.notifier.SendAlert(ctx, alert); err != nil {
		// notification failure must not fail event handling
		h.logger.Error("failed to send stock alert",
			zap.String("product_id", alert.ProductID),
			zap.Error(err))
	}
	return nil
}

var _ shared.EventHandler = (*LowStockAlertHandler)(nil)

// LoggingStockAlertNotifier writes alerts to the log
type LoggingStockAlertNotifier struct {
	logger *zap.Logger
}

// NewLoggingStockAlertNotifier creates a new logging notifier
func NewLoggingStockAlertNotifier(logger *zap.Logger) *LoggingStockAlertNotifier {
	return &LoggingStockAlertNotifier{logger: logger}
}

// SendAlert logs the stock alert
func (n *LoggingStockAlertNotifier) SendAlert(_ context.Context, alert StockAlert) error {
	n.logger.Warn("STOCK ALERT",
		zap.String("type", alert.AlertType),
		zap.String("tenant_id", alert.TenantID),
		zap.String("product_id", alert.ProductID),
		zap.String("product", alert.ProductName),
		zap.String("current_stock", alert.CurrentStock),
		zap.String("min_stock", alert.MinStock),
	)
	return nil
}
