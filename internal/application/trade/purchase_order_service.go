package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tijara/backend/internal/domain/catalog"
	"github.com/tijara/backend/internal/domain/partner"
	"github.com/tijara/backend/internal/domain/shared"
	"github.com/tijara/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// PurchaseOrderService handles supplier orders. Receiving a purchase order
// has no stock effect; supplier deliveries are entered as adjustments.
type PurchaseOrderService struct {
	orders    trade.PurchaseOrderRepository
	suppliers partner.SupplierRepository
	products  catalog.ProductRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	orders trade.PurchaseOrderRepository,
	suppliers partner.SupplierRepository,
	products catalog.ProductRepository,
	logger *zap.Logger,
) *PurchaseOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseOrderService{
		orders:    orders,
		suppliers: suppliers,
		products:  products,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Create creates a draft purchase order
func (s *PurchaseOrderService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	supplier, err := s.suppliers.FindByIDForTenant(ctx, tenantID, req.SupplierID)
	if err != nil {
		return nil, shared.NotFoundAs(err, partner.ErrSupplierNotFound)
	}
	lines, err := resolveLines(ctx, s.products, tenantID, req.Items)
	if err != nil {
		return nil, err
	}
	number, err := s.orders.GenerateOrderNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var orderDate time.Time
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}
	order, err := trade.NewPurchaseOrder(tenantID, number, supplier.ID, orderDate, req.ApplyVAT, lines)
	if err != nil {
		return nil, err
	}
	order.Notes = req.Notes
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("purchase order created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_number", order.Number),
		zap.String("supplier", supplier.Name))
	s.publishAggregate(ctx, order)

	resp := ToPurchaseOrderResponse(order)
	resp.SupplierName = supplier.Name
	return &resp, nil
}

// GetByID retrieves a purchase order with its supplier name
func (s *PurchaseOrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orders.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, shared.NotFoundAs(err, trade.ErrPurchaseOrderNotFound)
	}
	resp := ToPurchaseOrderResponse(order)
	if supplier, err := s.suppliers.FindByIDForTenant(ctx, tenantID, order.SupplierID); err == nil {
		resp.SupplierName = supplier.Name
	}
	return &resp, nil
}

// List retrieves a page of purchase orders
func (s *PurchaseOrderService) List(ctx context.Context, tenantID uuid.UUID, filter PurchaseOrderListFilter) ([]PurchaseOrderResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}.Normalize()
	if filter.OrderBy == "" {
		domainFilter.OrderBy = "date"
	}
	if filter.Status != "" {
		domainFilter.Filters[trade.FilterStatus] = trade.PurchaseOrderStatus(filter.Status)
	}
	if filter.SupplierID != nil {
		domainFilter.Filters[trade.FilterSupplierID] = *filter.SupplierID
	}

	orders, err := s.orders.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orders.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return s.withSupplierNames(ctx, tenantID, ToPurchaseOrderResponses(orders)), total, nil
}

// ListBySupplier returns every purchase order of a supplier, newest first
func (s *PurchaseOrderService) ListBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) ([]PurchaseOrderResponse, error) {
	supplier, err := s.suppliers.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, shared.NotFoundAs(err, partner.ErrSupplierNotFound)
	}
	orders, err := s.orders.FindBySupplier(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	out := ToPurchaseOrderResponses(orders)
	for i := range out {
		out[i].SupplierName = supplier.Name
	}
	return out, nil
}

// ChangeStatus moves a purchase order forward (draft, sent, received, paid)
func (s *PurchaseOrderService) ChangeStatus(ctx context.Context, tenantID, orderID uuid.UUID, req ChangePurchaseOrderStatusRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orders.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, shared.NotFoundAs(err, trade.ErrPurchaseOrderNotFound)
	}
	from := order.Status
	if err := order.ChangeStatus(req.Status); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("purchase order status changed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_number", order.Number),
		zap.String("from", string(from)),
		zap.String("to", string(order.Status)))
	s.publishAggregate(ctx, order)

	return s.GetByID(ctx, tenantID, orderID)
}

func (s *PurchaseOrderService) withSupplierNames(ctx context.Context, tenantID uuid.UUID, orders []PurchaseOrderResponse) []PurchaseOrderResponse {
	names := make(map[uuid.UUID]string)
	for i := range orders {
		id := orders[i].SupplierID
		name, ok := names[id]
		if !ok {
			if supplier, err := s.suppliers.FindByIDForTenant(ctx, tenantID, id); err == nil {
				name = supplier.Name
			}
			names[id] = name
		}
		orders[i].SupplierName = name
	}
	return orders
}

func (s *PurchaseOrderService) publishAggregate(ctx context.Context, order *trade.PurchaseOrder) {
	events := order.GetDomainEvents()
	order.ClearDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	_ = s.publisher.Publish(ctx, events...)
}
