package trade

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	inventoryapp "github.com/tijara/backend/internal/application/inventory"
	"github.com/tijara/backend/internal/domain/catalog"
	"github.com/tijara/backend/internal/domain/finance"
	"github.com/tijara/backend/internal/domain/inventory"
	"github.com/tijara/backend/internal/domain/partner"
	"github.com/tijara/backend/internal/domain/shared"
	"github.com/tijara/backend/internal/domain/trade"
	"github.com/tijara/backend/internal/infrastructure/export"
	"github.com/tijara/backend/internal/infrastructure/locale"
	"github.com/tijara/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// InvoiceLookup finds the invoice created from an order
type InvoiceLookup interface {
	FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*finance.Invoice, error)
}

// SalesOrderService handles sales order business operations. Status changes
// run under a per-order lock and a single transaction that also appends the
// stock movements and refreshes the product caches.
type SalesOrderService struct {
	orders    trade.SalesOrderRepository
	products  catalog.ProductRepository
	clients   partner.ClientRepository
	invoices  InvoiceLookup
	txScope   inventoryapp.TransactionScope
	locker    trade.OrderLocker
	publisher shared.EventPublisher
	recorder  inventoryapp.LedgerRecorder
	formatter *locale.Formatter
	logger    *zap.Logger
	now       func() time.Time
}

// NewSalesOrderService creates a new SalesOrderService
func NewSalesOrderService(
	orders trade.SalesOrderRepository,
	products catalog.ProductRepository,
	clients partner.ClientRepository,
	txScope inventoryapp.TransactionScope,
	locker trade.OrderLocker,
	logger *zap.Logger,
) *SalesOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesOrderService{
		orders:    orders,
		products:  products,
		clients:   clients,
		txScope:   txScope,
		locker:    locker,
		recorder:  inventoryapp.NopLedgerRecorder{},
		formatter: locale.French(),
		logger:    logger,
		now:       time.Now,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *SalesOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// SetLedgerRecorder sets the metrics sink for transitions and movements
func (s *SalesOrderService) SetLedgerRecorder(recorder inventoryapp.LedgerRecorder) {
	if recorder != nil {
		s.recorder = recorder
	}
}

// SetInvoiceLookup enables the invoiced-order check on delete
func (s *SalesOrderService) SetInvoiceLookup(invoices InvoiceLookup) {
	s.invoices = invoices
}

// SetFormatter sets the formatter used by exports
func (s *SalesOrderService) SetFormatter(f *locale.Formatter) {
	if f != nil {
		s.formatter = f
	}
}

// Create creates a new sales order in delivery
func (s *SalesOrderService) Create(ctx context.Context, tenantID uuid.UUID, req CreateSalesOrderRequest) (*SalesOrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales_order", "create",
		telemetry.SpanAttrTenantID, tenantID.String())
	defer span.End()

	header := trade.OrderHeader{
		ClientID:     req.ClientID,
		ClientName:   req.ClientName,
		ClientType:   req.ClientType,
		DeliveryDate: req.DeliveryDate,
		ApplyVAT:     req.ApplyVAT,
		Notes:        req.Notes,
	}
	if req.OrderDate != nil {
		header.OrderDate = *req.OrderDate
	}
	if req.ClientID != nil {
		client, err := s.clients.FindByIDForTenant(ctx, tenantID, *req.ClientID)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, shared.NotFoundAs(err, partner.ErrClientNotFound)
		}
		if header.ClientName == "" {
			header.ClientName = client.Name
		}
	}

	lines, err := s.resolveLines(ctx, tenantID, req.Items)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	number, err := s.orders.GenerateOrderNumber(ctx, tenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	order, err := trade.NewSalesOrder(tenantID, number, header, lines)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, order.ID.String(),
		telemetry.SpanAttrOrderNumber, order.Number)

	s.logger.Info("sales order created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_number", order.Number),
		zap.String("total_ttc", order.TotalTTC.String()))
	s.publishAggregate(ctx, order)

	resp := ToSalesOrderResponse(order)
	return &resp, nil
}

// GetByID retrieves a sales order by ID
func (s *SalesOrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*SalesOrderResponse, error) {
	order, err := s.orders.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, shared.NotFoundAs(err, trade.ErrOrderNotFound)
	}
	resp := ToSalesOrderResponse(order)
	return &resp, nil
}

// List retrieves a page of orders with search, status, date and sort options
func (s *SalesOrderService) List(ctx context.Context, tenantID uuid.UUID, filter SalesOrderListFilter) ([]SalesOrderListItemResponse, int64, error) {
	domainFilter := s.listFilter(filter)
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter = domainFilter.Normalize()

	orders, err := s.orders.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orders.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToSalesOrderListItemResponses(orders), total, nil
}

// Export writes every order matching filter as CSV or XLSX, ignoring pagination
func (s *SalesOrderService) Export(ctx context.Context, tenantID uuid.UUID, filter SalesOrderListFilter) (*export.File, error) {
	format, err := export.ParseFormat(filter.Format)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.FindAllForTenant(ctx, tenantID, s.listFilter(filter))
	if err != nil {
		return nil, err
	}
	return export.Render(format,
		export.OrdersTable(orders, s.formatter),
		export.OrdersFilename(s.now(), format))
}

// ReplaceItems swaps the lines of an order whose stock is not debited
func (s *SalesOrderService) ReplaceItems(ctx context.Context, tenantID, orderID uuid.UUID, req ReplaceItemsRequest) (*SalesOrderResponse, error) {
	order, err := s.orders.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, shared.NotFoundAs(err, trade.ErrOrderNotFound)
	}
	lines, err := s.resolveLines(ctx, tenantID, req.Items)
	if err != nil {
		return nil, err
	}
	if err := order.ReplaceItems(lines); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	resp := ToSalesOrderResponse(order)
	return &resp, nil
}

// ChangeStatus applies a status transition and its stock effect atomically.
// Re-applying the current status changes nothing.
func (s *SalesOrderService) ChangeStatus(ctx context.Context, tenantID, orderID uuid.UUID, req ChangeStatusRequest, userName string) (*StatusChangeResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales_order", "change_status",
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrOrderID, orderID.String(),
		telemetry.SpanAttrOrderStatus, string(req.Status),
	)
	defer span.End()

	unlock, err := s.locker.Lock(ctx, tenantID, orderID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("failed to release order lock",
				zap.String("order_id", orderID.String()),
				zap.Error(err))
		}
	}()

	var (
		order     *trade.SalesOrder
		from      trade.OrderStatus
		effect    trade.StockEffect
		movements []*inventory.StockMovement
	)
	err = s.txScope.Execute(ctx, func(repos inventoryapp.TransactionalRepositories) error {
		o, err := repos.SalesOrders().FindByIDForTenant(ctx, tenantID, orderID)
		if err != nil {
			return shared.NotFoundAs(err, trade.ErrOrderNotFound)
		}
		from = o.Status
		effect, err = o.TransitionTo(req.Status)
		if err != nil {
			return err
		}
		order = o
		if from == o.Status {
			return nil
		}
		if effect != trade.EffectNone {
			movements, err = s.applyStockEffect(ctx, repos, o, effect, userName)
			if err != nil {
				return err
			}
		}
		return repos.SalesOrders().Save(ctx, o)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderNumber, order.Number,
		telemetry.SpanAttrStockEffect, string(effect),
		telemetry.SpanAttrMovements, len(movements),
	)

	if from != order.Status {
		s.logger.Info("sales order status changed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("order_number", order.Number),
			zap.String("from", string(from)),
			zap.String("to", string(order.Status)),
			zap.String("effect", string(effect)),
			zap.Int("movements", len(movements)),
		)
		s.recorder.RecordStatusChange(ctx, string(from), string(order.Status), string(effect))
		events := order.GetDomainEvents()
		order.ClearDomainEvents()
		for _, m := range movements {
			s.recorder.RecordMovement(ctx, string(m.Type))
			events = append(events, inventory.NewStockMovementRecordedEvent(m))
		}
		s.publish(ctx, events...)
	}

	return &StatusChangeResponse{
		Order:     ToSalesOrderResponse(order),
		Effect:    effect,
		Movements: len(movements),
	}, nil
}

// applyStockEffect appends one movement per linked product, chained from the
// cached stock, and writes the new stock back to each product cache
func (s *SalesOrderService) applyStockEffect(
	ctx context.Context,
	repos inventoryapp.TransactionalRepositories,
	order *trade.SalesOrder,
	effect trade.StockEffect,
	userName string,
) ([]*inventory.StockMovement, error) {
	products, err := repos.Products().FindByIDs(ctx, order.TenantID, order.ProductIDs())
	if err != nil {
		return nil, err
	}
	stocks := make(map[uuid.UUID]decimal.Decimal, len(products))
	for _, p := range products {
		stocks[p.ID] = p.Stock
	}

	movements, err := inventory.MovementsForEffect(order, effect, stocks, userName, s.now())
	if err != nil {
		return nil, err
	}
	for _, m := range movements {
		if err := repos.Movements().Create(ctx, m); err != nil {
			return nil, err
		}
	}
	for i := range products {
		p := &products[i]
		p.SetCachedStock(stocks[p.ID])
		if err := repos.Products().Save(ctx, p); err != nil {
			return nil, err
		}
	}
	return movements, nil
}

// Delete removes an order. Debited or invoiced orders are kept.
func (s *SalesOrderService) Delete(ctx context.Context, tenantID, orderID uuid.UUID) error {
	order, err := s.orders.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return shared.NotFoundAs(err, trade.ErrOrderNotFound)
	}
	if order.StockDebited {
		return trade.ErrOrderDebited
	}
	if s.invoices != nil {
		_, err := s.invoices.FindByOrder(ctx, tenantID, orderID)
		switch {
		case err == nil:
			return trade.ErrOrderInvoiced
		case !errors.Is(err, shared.ErrNotFound):
			return err
		}
	}
	if err := s.orders.DeleteForTenant(ctx, tenantID, orderID); err != nil {
		return shared.NotFoundAs(err, trade.ErrOrderNotFound)
	}

	s.logger.Info("sales order deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_number", order.Number))
	s.publish(ctx, trade.NewSalesOrderDeletedEvent(order))
	return nil
}

// listFilter converts the query options; pagination is left to the caller
func (s *SalesOrderService) listFilter(filter SalesOrderListFilter) shared.Filter {
	f := shared.Filter{
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if f.OrderBy == "" {
		f.OrderBy = "date"
	}
	if f.OrderDir != "asc" {
		f.OrderDir = "desc"
	}
	if filter.Status != "" && filter.Status != "all" {
		f.Filters[trade.FilterStatus] = trade.OrderStatus(filter.Status)
	}
	if filter.ClientID != nil {
		f.Filters[trade.FilterClientID] = *filter.ClientID
	}

	now := s.now()
	switch filter.Date {
	case "today":
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		f.Filters[trade.FilterDateFrom] = start
		f.Filters[trade.FilterDateTo] = start.AddDate(0, 0, 1)
	case "week":
		f.Filters[trade.FilterDateFrom] = now.Add(-7 * 24 * time.Hour)
	case "month":
		f.Filters[trade.FilterDateFrom] = now.Add(-30 * 24 * time.Hour)
	}
	return f
}

// resolveLines checks linked product ids and fills an empty name or unit
// from the catalog
func (s *SalesOrderService) resolveLines(ctx context.Context, tenantID uuid.UUID, items []OrderLineInput) ([]trade.LineInput, error) {
	return resolveLines(ctx, s.products, tenantID, items)
}

func resolveLines(ctx context.Context, products catalog.ProductRepository, tenantID uuid.UUID, items []OrderLineInput) ([]trade.LineInput, error) {
	lines := make([]trade.LineInput, len(items))
	var ids []uuid.UUID
	for i, item := range items {
		lines[i] = item.toDomain()
		if item.ProductID != nil {
			ids = append(ids, *item.ProductID)
		}
	}
	if len(ids) == 0 {
		return lines, nil
	}

	found, err := products.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}
	for i := range lines {
		if lines[i].ProductID == nil {
			continue
		}
		p, ok := byID[*lines[i].ProductID]
		if !ok {
			return nil, catalog.ErrProductNotFound
		}
		if lines[i].ProductName == "" {
			lines[i].ProductName = p.Name
		}
		if lines[i].Unit == "" {
			lines[i].Unit = p.Unit
		}
	}
	return lines, nil
}

func (s *SalesOrderService) publishAggregate(ctx context.Context, order *trade.SalesOrder) {
	events := order.GetDomainEvents()
	order.ClearDomainEvents()
	s.publish(ctx, events...)
}

func (s *SalesOrderService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	_ = s.publisher.Publish(ctx, events...)
}
