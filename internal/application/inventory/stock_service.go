package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tijara/backend/internal/domain/catalog"
	"github.com/tijara/backend/internal/domain/inventory"
	"github.com/tijara/backend/internal/domain/shared"
	"github.com/tijara/backend/internal/domain/trade"
	"github.com/tijara/backend/internal/infrastructure/export"
	"github.com/tijara/backend/internal/infrastructure/locale"
	"github.com/tijara/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// StockService handles the stock ledger: adjustments, current stock,
// product history and reconciliation.
type StockService struct {
	products  catalog.ProductRepository
	movements inventory.StockMovementRepository
	orders    trade.SalesOrderRepository
	txScope   TransactionScope
	publisher shared.EventPublisher
	recorder  LedgerRecorder
	formatter *locale.Formatter
	logger    *zap.Logger
	now       func() time.Time
}

// NewStockService creates a new StockService
func NewStockService(
	products catalog.ProductRepository,
	movements inventory.StockMovementRepository,
	orders trade.SalesOrderRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *StockService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockService{
		products:  products,
		movements: movements,
		orders:    orders,
		txScope:   txScope,
		recorder:  NopLedgerRecorder{},
		formatter: locale.French(),
		logger:    logger,
		now:       time.Now,
	}
}

// SetEventPublisher sets the publisher for StockMovementRecorded events
func (s *StockService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// SetLedgerRecorder sets the metrics sink
func (s *StockService) SetLedgerRecorder(recorder LedgerRecorder) {
	if recorder != nil {
		s.recorder = recorder
	}
}

// SetFormatter sets the formatter used by exports
func (s *StockService) SetFormatter(f *locale.Formatter) {
	if f != nil {
		s.formatter = f
	}
}

// Adjust records a signed adjustment and updates the product's cached stock
// in the same transaction.
func (s *StockService) Adjust(ctx context.Context, tenantID, productID uuid.UUID, req AdjustStockRequest, userName string) (*MovementResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock", "adjust",
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrProductID, productID.String(),
	)
	defer span.End()

	var movement *inventory.StockMovement
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.Products().FindByIDForTenant(ctx, tenantID, productID)
		if err != nil {
			return shared.NotFoundAs(err, catalog.ErrProductNotFound)
		}
		m, err := inventory.NewStockMovement(tenantID, inventory.MovementInput{
			ProductID:     product.ID,
			Type:          inventory.MovementAdjustment,
			Quantity:      req.Quantity,
			PreviousStock: product.Stock,
			OccurredAt:    s.now(),
			Reason:        req.Reason,
			UserName:      userName,
			Reference:     req.Reference,
		})
		if err != nil {
			return err
		}
		if err := repos.Movements().Create(ctx, m); err != nil {
			return err
		}
		product.SetCachedStock(m.NewStock)
		if err := repos.Products().Save(ctx, product); err != nil {
			return err
		}
		movement = m
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("stock adjusted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("product_id", productID.String()),
		zap.String("quantity", movement.Quantity.String()),
		zap.String("new_stock", movement.NewStock.String()),
	)
	s.recorder.RecordMovement(ctx, string(movement.Type))
	s.publish(ctx, inventory.NewStockMovementRecordedEvent(movement))

	resp := ToMovementResponse(movement)
	return &resp, nil
}

// CurrentStock evaluates the ledger formula for one product
func (s *StockService) CurrentStock(ctx context.Context, tenantID, productID uuid.UUID) (*StockResponse, error) {
	product, movements, orders, err := s.ledgerInputs(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	resp := ToStockResponse(product, inventory.CurrentStock(product, movements, orders))
	return &resp, nil
}

// History returns the filtered movements of a product, newest first, with
// the summary header
func (s *StockService) History(ctx context.Context, tenantID, productID uuid.UUID, filter HistoryFilter) (*HistoryResponse, error) {
	product, movements, orders, err := s.ledgerInputs(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	summary := inventory.Summarize(product, movements, orders)
	history := inventory.BuildHistory(product, movements, filter.query(s.now()))
	return &HistoryResponse{
		Stock:     ToStockResponse(product, summary.CurrentStock),
		Summary:   summary,
		Movements: ToMovementResponses(history),
	}, nil
}

// ExportHistory writes the filtered history as CSV or XLSX
func (s *StockService) ExportHistory(ctx context.Context, tenantID, productID uuid.UUID, filter HistoryFilter) (*export.File, error) {
	format, err := export.ParseFormat(filter.Format)
	if err != nil {
		return nil, err
	}
	product, movements, _, err := s.ledgerInputs(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	history := inventory.BuildHistory(product, movements, filter.query(now))
	return export.Render(format,
		export.StockHistoryTable(history, s.formatter),
		export.StockHistoryFilename(product, now, format))
}

// Reconcile compares every cached stock with the ledger and every order
// status with its debit flag. Nothing is corrected.
func (s *StockService) Reconcile(ctx context.Context, tenantID uuid.UUID) (*inventory.ReconciliationReport, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock", "reconcile",
		telemetry.SpanAttrTenantID, tenantID.String())
	defer span.End()

	products, movements, orders, err := s.tenantLedger(ctx, tenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	report := inventory.Reconcile(products, movements, orders, s.now())
	if !report.Consistent() {
		s.logger.Warn("stock ledger drift detected",
			zap.String("tenant_id", tenantID.String()),
			zap.Int("products", len(report.Products)),
			zap.Int("orders", len(report.Orders)),
			zap.Int("unlinked_lines", report.UnlinkedLines),
		)
	}
	return &report, nil
}

// RebuildCache rewrites every drifting product cache with the ledger value.
// Order debit flags are left alone.
func (s *StockService) RebuildCache(ctx context.Context, tenantID uuid.UUID) (*RebuildCacheResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock", "rebuild_cache",
		telemetry.SpanAttrTenantID, tenantID.String())
	defer span.End()

	resp := &RebuildCacheResponse{Updated: []inventory.ProductDrift{}}
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		products, err := repos.Products().FindAllForTenant(ctx, tenantID, shared.Filter{})
		if err != nil {
			return err
		}
		movements, err := repos.Movements().FindByTypes(ctx, tenantID, inventory.MovementAdjustment)
		if err != nil {
			return err
		}
		delivered, err := repos.SalesOrders().FindByStatus(ctx, tenantID, trade.OrderStatusDelivered)
		if err != nil {
			return err
		}
		resp.Checked = len(products)
		for i := range products {
			p := &products[i]
			ledger := inventory.CurrentStock(p, movements, delivered)
			if ledger.Equal(p.Stock) {
				continue
			}
			resp.Updated = append(resp.Updated, inventory.ProductDrift{
				ProductID:   p.ID,
				ProductName: p.Name,
				CachedStock: p.Stock,
				LedgerStock: ledger,
				Difference:  p.Stock.Sub(ledger),
			})
			p.SetCachedStock(ledger)
			if err := repos.Products().Save(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if len(resp.Updated) > 0 {
		s.logger.Info("stock cache rebuilt",
			zap.String("tenant_id", tenantID.String()),
			zap.Int("updated", len(resp.Updated)))
	}
	return resp, nil
}

func (s *StockService) ledgerInputs(ctx context.Context, tenantID, productID uuid.UUID) (*catalog.Product, []inventory.StockMovement, []trade.SalesOrder, error) {
	product, err := s.products.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, nil, nil, shared.NotFoundAs(err, catalog.ErrProductNotFound)
	}
	movements, err := s.movements.FindByProduct(ctx, tenantID, productID)
	if err != nil {
		return nil, nil, nil, err
	}
	orders, err := s.orders.FindDeliveredByProduct(ctx, tenantID, productID)
	if err != nil {
		return nil, nil, nil, err
	}
	return product, movements, orders, nil
}

// tenantLedger loads every product, adjustment and order of a tenant
func (s *StockService) tenantLedger(ctx context.Context, tenantID uuid.UUID) ([]catalog.Product, []inventory.StockMovement, []trade.SalesOrder, error) {
	products, err := s.products.FindAllForTenant(ctx, tenantID, shared.Filter{})
	if err != nil {
		return nil, nil, nil, err
	}
	movements, err := s.movements.FindByTypes(ctx, tenantID, inventory.MovementAdjustment)
	if err != nil {
		return nil, nil, nil, err
	}
	orders, err := s.orders.FindAllForTenant(ctx, tenantID, shared.Filter{})
	if err != nil {
		return nil, nil, nil, err
	}
	return products, movements, orders, nil
}

func (s *StockService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	// the bus logs handler failures; the ledger write is already committed
	_ = s.publisher.Publish(ctx, events...)
}
