package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Metric attribute keys
var (
	AttrMovementType = attribute.Key("movement_type")
	AttrFromStatus   = attribute.Key("from_status")
	AttrToStatus     = attribute.Key("to_status")
	AttrStockEffect  = attribute.Key("stock_effect")
	AttrResult       = attribute.Key("result")
	AttrTenantID     = attribute.Key("tenant_id")
)

// LowStockCounter reports, per tenant, how many products sit at or below
// their minimum stock.
type LowStockCounter interface {
	CountLowStock(ctx context.Context) (map[uuid.UUID]int64, error)
}

// LedgerMetrics records stock ledger and document activity.
type LedgerMetrics struct {
	logger *zap.Logger

	movements      *Counter
	statusChanges  *Counter
	documents      *Counter
	renderDuration *Histogram
	registration   metric.Registration
}

// NewLedgerMetrics creates the instruments. lowStock may be nil, in which
// case the low stock gauge is not registered.
func NewLedgerMetrics(meter metric.Meter, lowStock LowStockCounter, logger *zap.Logger) (*LedgerMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &LedgerMetrics{logger: logger}

	var err error
	if m.movements, err = NewCounter(meter, "ledger.stock_movements",
		"Stock movements recorded", "{movement}"); err != nil {
		return nil, err
	}
	if m.statusChanges, err = NewCounter(meter, "ledger.order_status_changes",
		"Sales order status transitions", "{transition}"); err != nil {
		return nil, err
	}
	if m.documents, err = NewCounter(meter, "documents.rendered",
		"Delivery notes rendered", "{document}"); err != nil {
		return nil, err
	}
	if m.renderDuration, err = NewHistogram(meter, "documents.render_duration",
		"Delivery note render time", "s", 0.25, 0.5, 1, 2, 5, 10, 30); err != nil {
		return nil, err
	}

	if lowStock != nil {
		gauge, err := meter.Int64ObservableGauge("ledger.low_stock_products",
			metric.WithDescription("Products at or below minimum stock"), metric.WithUnit("{product}"))
		if err != nil {
			return nil, err
		}
		m.registration, err = meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
			counts, err := lowStock.CountLowStock(ctx)
			if err != nil {
				m.logger.Warn("Failed to count low stock products", zap.Error(err))
				return nil
			}
			for tenantID, n := range counts {
				o.ObserveInt64(gauge, n, metric.WithAttributes(AttrTenantID.String(tenantID.String())))
			}
			return nil
		}, gauge)
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordMovement counts one stock movement of the given type
func (m *LedgerMetrics) RecordMovement(ctx context.Context, movementType string) {
	m.movements.Inc(ctx, AttrMovementType.String(movementType))
}

// RecordStatusChange counts an order transition and its stock effect
func (m *LedgerMetrics) RecordStatusChange(ctx context.Context, from, to, effect string) {
	m.statusChanges.Inc(ctx, AttrFromStatus.String(from), AttrToStatus.String(to), AttrStockEffect.String(effect))
}

// RecordRender counts a render attempt and its duration
func (m *LedgerMetrics) RecordRender(ctx context.Context, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.documents.Inc(ctx, AttrResult.String(result))
	m.renderDuration.RecordDuration(ctx, d, AttrResult.String(result))
}

// Stop unregisters the low stock callback
func (m *LedgerMetrics) Stop() error {
	if m.registration == nil {
		return nil
	}
	return m.registration.Unregister()
}

// GormLowStockCounter counts low stock products straight from the products table
type GormLowStockCounter struct {
	db *gorm.DB
}

// NewGormLowStockCounter creates a GormLowStockCounter
func NewGormLowStockCounter(db *gorm.DB) *GormLowStockCounter {
	return &GormLowStockCounter{db: db}
}

// CountLowStock groups products with stock <= min_stock by tenant
func (c *GormLowStockCounter) CountLowStock(ctx context.Context) (map[uuid.UUID]int64, error) {
	type row struct {
		TenantID uuid.UUID `gorm:"column:tenant_id"`
		Count    int64     `gorm:"column:count"`
	}
	var rows []row
	err := c.db.WithContext(ctx).
		Table("products").
		Select("tenant_id, COUNT(*) AS count").
		Where("stock <= min_stock").
		Group("tenant_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		out[r.TenantID] = r.Count
	}
	return out, nil
}
