package catalog

import (
	"context"
	"sort"

	"github.com/google/uuid"
	inventoryapp "github.com/tijara/backend/internal/application/inventory"
	"github.com/tijara/backend/internal/domain/catalog"
	"github.com/tijara/backend/internal/domain/inventory"
	"github.com/tijara/backend/internal/domain/shared"
	"github.com/tijara/backend/internal/domain/trade"
	"github.com/tijara/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ProductService handles product-related business operations
type ProductService struct {
	products  catalog.ProductRepository
	movements inventory.StockMovementRepository
	orders    trade.SalesOrderRepository
	txScope   inventoryapp.TransactionScope
	publisher shared.EventPublisher
	recorder  inventoryapp.LedgerRecorder
	logger    *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	products catalog.ProductRepository,
	movements inventory.StockMovementRepository,
	orders trade.SalesOrderRepository,
	txScope inventoryapp.TransactionScope,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		products:  products,
		movements: movements,
		orders:    orders,
		txScope:   txScope,
		recorder:  inventoryapp.NopLedgerRecorder{},
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// SetLedgerRecorder sets the metrics sink for initial movements
func (s *ProductService) SetLedgerRecorder(recorder inventoryapp.LedgerRecorder) {
	if recorder != nil {
		s.recorder = recorder
	}
}

// Create saves a new product. A positive initial stock is also recorded as
// an initial movement in the same transaction.
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest, userName string) (*ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "create",
		telemetry.SpanAttrTenantID, tenantID.String())
	defer span.End()

	product, err := catalog.NewProduct(tenantID, req.input(), req.InitialStock)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var initial *inventory.StockMovement
	err = s.txScope.Execute(ctx, func(repos inventoryapp.TransactionalRepositories) error {
		if err := repos.Products().Save(ctx, product); err != nil {
			return err
		}
		if !product.InitialStock.IsPositive() {
			return nil
		}
		m, err := inventory.NewStockMovement(tenantID, inventory.MovementInput{
			ProductID:  product.ID,
			Type:       inventory.MovementInitial,
			Quantity:   product.InitialStock,
			OccurredAt: product.CreatedAt,
			UserName:   userName,
		})
		if err != nil {
			return err
		}
		initial = m
		return repos.Movements().Create(ctx, m)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrProductID, product.ID.String())

	s.logger.Info("product created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("product_id", product.ID.String()),
		zap.String("initial_stock", product.InitialStock.String()),
	)

	events := product.GetDomainEvents()
	product.ClearDomainEvents()
	if initial != nil {
		s.recorder.RecordMovement(ctx, string(initial.Type))
		events = append(events, inventory.NewStockMovementRecordedEvent(initial))
	}
	s.publish(ctx, events...)

	resp := ToProductResponse(product, product.InitialStock)
	return &resp, nil
}

// GetByID returns a product with its ledger stock
func (s *ProductService) GetByID(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, shared.NotFoundAs(err, catalog.ErrProductNotFound)
	}
	movements, err := s.movements.FindByProduct(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.FindDeliveredByProduct(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product, inventory.CurrentStock(product, movements, orders))
	return &resp, nil
}

// List returns a page of products, each with its ledger stock
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}.Normalize()
	if filter.OrderBy == "" {
		domainFilter.OrderBy = "name"
		domainFilter.OrderDir = "asc"
	}
	if filter.Category != "" {
		domainFilter.Filters[catalog.FilterCategory] = filter.Category
	}

	products, err := s.products.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.products.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	if len(products) == 0 {
		return []ProductResponse{}, total, nil
	}

	movements, delivered, err := s.tenantLedger(ctx, tenantID)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ProductResponse, len(products))
	for i := range products {
		p := &products[i]
		out[i] = ToProductResponse(p, inventory.CurrentStock(p, movements, delivered))
	}
	return out, total, nil
}

// LowStock lists the products whose ledger stock is at or below their
// minimum, lowest first
func (s *ProductService) LowStock(ctx context.Context, tenantID uuid.UUID) ([]ProductResponse, error) {
	products, err := s.products.FindAllForTenant(ctx, tenantID, shared.Filter{OrderBy: "name", OrderDir: "asc"})
	if err != nil {
		return nil, err
	}
	movements, delivered, err := s.tenantLedger(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]ProductResponse, 0)
	for i := range products {
		p := &products[i]
		current := inventory.CurrentStock(p, movements, delivered)
		if p.IsLowStock(current) {
			out = append(out, ToProductResponse(p, current))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CurrentStock.LessThan(out[j].CurrentStock)
	})
	return out, nil
}

// Update replaces the editable attributes of a product
func (s *ProductService) Update(ctx context.Context, tenantID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.products.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, shared.NotFoundAs(err, catalog.ErrProductNotFound)
	}
	if err := product.Update(req.input()); err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	events := product.GetDomainEvents()
	product.ClearDomainEvents()
	s.publish(ctx, events...)

	return s.GetByID(ctx, tenantID, productID)
}

// Delete removes a product that no order line references
func (s *ProductService) Delete(ctx context.Context, tenantID, productID uuid.UUID) error {
	product, err := s.products.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return shared.NotFoundAs(err, catalog.ErrProductNotFound)
	}
	referenced, err := s.products.IsReferenced(ctx, tenantID, productID)
	if err != nil {
		return err
	}
	if referenced {
		return catalog.ErrProductInUse
	}
	if err := s.products.DeleteForTenant(ctx, tenantID, productID); err != nil {
		return shared.NotFoundAs(err, catalog.ErrProductNotFound)
	}

	s.logger.Info("product deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("product_id", productID.String()))
	s.publish(ctx, catalog.NewProductDeletedEvent(product))
	return nil
}

func (s *ProductService) tenantLedger(ctx context.Context, tenantID uuid.UUID) ([]inventory.StockMovement, []trade.SalesOrder, error) {
	movements, err := s.movements.FindByTypes(ctx, tenantID, inventory.MovementAdjustment)
	if err != nil {
		return nil, nil, err
	}
	delivered, err := s.orders.FindByStatus(ctx, tenantID, trade.OrderStatusDelivered)
	if err != nil {
		return nil, nil, err
	}
	return movements, delivered, nil
}

func (s *ProductService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	_ = s.publisher.Publish(ctx, events...)
}

