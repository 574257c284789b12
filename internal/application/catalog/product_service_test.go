package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	inventoryapp "github.com/tijara/backend/internal/application/inventory"
	"github.com/tijara/backend/internal/domain/catalog"
	"github.com/tijara/backend/internal/domain/inventory"
	"github.com/tijara/backend/internal/domain/shared"
	"github.com/tijara/backend/internal/domain/trade"
)

var testTenant = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByName(ctx context.Context, tenantID uuid.UUID, name string) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, name)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockProductRepository) IsReferenced(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, id)
	return args.Bool(0), args.Error(1)
}

// MockMovementRepository is a mock implementation of inventory.StockMovementRepository
type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) Create(ctx context.Context, movement *inventory.StockMovement) error {
	return m.Called(ctx, movement).Error(0)
}

func (m *MockMovementRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, tenantID, productID)
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

func (m *MockMovementRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, tenantID, orderID)
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

func (m *MockMovementRepository) FindByTypes(ctx context.Context, tenantID uuid.UUID, types ...inventory.MovementType) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, tenantID, types)
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

// MockSalesOrderRepository covers the order queries the product service uses
type MockSalesOrderRepository struct {
	mock.Mock
	trade.SalesOrderRepository
}

func (m *MockSalesOrderRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status trade.OrderStatus) ([]trade.SalesOrder, error) {
	args := m.Called(ctx, tenantID, status)
	return args.Get(0).([]trade.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) FindDeliveredByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]trade.SalesOrder, error) {
	args := m.Called(ctx, tenantID, productID)
	return args.Get(0).([]trade.SalesOrder), args.Error(1)
}

type capturePublisher struct {
	events []shared.DomainEvent
}

func (p *capturePublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *capturePublisher) types() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type productFixture struct {
	products  *MockProductRepository
	movements *MockMovementRepository
	orders    *MockSalesOrderRepository
	publisher *capturePublisher
	service   *ProductService
}

func newProductFixture() *productFixture {
	f := &productFixture{
		products:  new(MockProductRepository),
		movements: new(MockMovementRepository),
		orders:    new(MockSalesOrderRepository),
		publisher: &capturePublisher{},
	}
	scope := inventoryapp.NewNoOpTransactionScope(f.products, f.movements, f.orders)
	f.service = NewProductService(f.products, f.movements, f.orders, scope, nil)
	f.service.SetEventPublisher(f.publisher)
	return f
}

func newTestProduct(t *testing.T, name string, initial, minStock int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(testTenant, catalog.ProductInput{
		Name:      name,
		Unit:      "pièce",
		SalePrice: decimal.NewFromInt(10),
		MinStock:  decimal.NewFromInt(minStock),
	}, decimal.NewFromInt(initial))
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func deliveredOrderOf(t *testing.T, p *catalog.Product, qty int64) trade.SalesOrder {
	t.Helper()
	id := p.ID
	o, err := trade.NewSalesOrder(testTenant, "CMD-2025-00001", trade.OrderHeader{ClientType: trade.ClientTypeIndividual},
		[]trade.LineInput{{ProductID: &id, ProductName: p.Name, Quantity: decimal.NewFromInt(qty)}})
	require.NoError(t, err)
	_, err = o.TransitionTo(trade.OrderStatusDelivered)
	require.NoError(t, err)
	return *o
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("records the initial movement", func(t *testing.T) {
		f := newProductFixture()
		f.products.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)
		f.movements.On("Create", mock.Anything, mock.MatchedBy(func(m *inventory.StockMovement) bool {
			return m.Type == inventory.MovementInitial &&
				m.Quantity.Equal(decimal.NewFromInt(40)) &&
				m.NewStock.Equal(decimal.NewFromInt(40)) &&
				m.UserName == "Youssef"
		})).Return(nil)

		resp, err := f.service.Create(ctx, testTenant, CreateProductRequest{
			Name:         "Fer à béton 12",
			Unit:         "kg",
			SalePrice:    decimal.NewFromInt(12),
			InitialStock: decimal.NewFromInt(40),
			MinStock:     decimal.NewFromInt(5),
		}, "Youssef")
		require.NoError(t, err)

		assert.Equal(t, "40", resp.CurrentStock.String())
		assert.Equal(t, int32(3), resp.QuantityScale)
		assert.False(t, resp.IsLowStock)
		assert.Equal(t, []string{catalog.EventTypeProductCreated, inventory.EventTypeStockMovementRecorded}, f.publisher.types())
		f.movements.AssertExpectations(t)
	})

	t.Run("zero initial stock has no movement", func(t *testing.T) {
		f := newProductFixture()
		f.products.On("Save", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.service.Create(ctx, testTenant, CreateProductRequest{Name: "Sable", Unit: "t"}, "")
		require.NoError(t, err)
		assert.True(t, resp.IsLowStock)
		f.movements.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("validation error", func(t *testing.T) {
		f := newProductFixture()
		_, err := f.service.Create(ctx, testTenant, CreateProductRequest{
			Name:         "Gravier",
			Unit:         "t",
			InitialStock: decimal.NewFromInt(-1),
		}, "")
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "INVALID_STOCK", de.Code)
		f.products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestProductService_GetByID(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture()
	p := newTestProduct(t, "Brique", 100, 60)

	f.products.On("FindByIDForTenant", mock.Anything, testTenant, p.ID).Return(p, nil)
	f.movements.On("FindByProduct", mock.Anything, testTenant, p.ID).Return([]inventory.StockMovement{}, nil)
	f.orders.On("FindDeliveredByProduct", mock.Anything, testTenant, p.ID).
		Return([]trade.SalesOrder{deliveredOrderOf(t, p, 45)}, nil)

	resp, err := f.service.GetByID(ctx, testTenant, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "55", resp.CurrentStock.String())
	assert.Equal(t, "100", resp.Stock.String())
	assert.True(t, resp.IsLowStock)

	missing := uuid.New()
	f.products.On("FindByIDForTenant", mock.Anything, testTenant, missing).Return(nil, shared.ErrNotFound)
	_, err = f.service.GetByID(ctx, testTenant, missing)
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture()
	a := newTestProduct(t, "Brique", 100, 10)
	b := newTestProduct(t, "Ciment", 20, 10)

	f.products.On("FindAllForTenant", mock.Anything, testTenant, mock.MatchedBy(func(fl shared.Filter) bool {
		return fl.Page == 1 && fl.PageSize == 20 && fl.OrderBy == "name" && fl.Filters[catalog.FilterCategory] == "Maçonnerie"
	})).Return([]catalog.Product{*a, *b}, nil)
	f.products.On("CountForTenant", mock.Anything, testTenant, mock.Anything).Return(int64(2), nil)
	f.movements.On("FindByTypes", mock.Anything, testTenant, []inventory.MovementType{inventory.MovementAdjustment}).
		Return([]inventory.StockMovement{}, nil)
	f.orders.On("FindByStatus", mock.Anything, testTenant, trade.OrderStatusDelivered).
		Return([]trade.SalesOrder{deliveredOrderOf(t, b, 15)}, nil)

	items, total, err := f.service.List(ctx, testTenant, ProductListFilter{Category: "Maçonnerie"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.Equal(t, "100", items[0].CurrentStock.String())
	assert.Equal(t, "5", items[1].CurrentStock.String())
	assert.True(t, items[1].IsLowStock)
}

func TestProductService_LowStock(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture()
	fine := newTestProduct(t, "Brique", 100, 10)
	low := newTestProduct(t, "Ciment", 20, 10)
	empty := newTestProduct(t, "Chaux", 3, 1)

	f.products.On("FindAllForTenant", mock.Anything, testTenant, mock.Anything).
		Return([]catalog.Product{*fine, *low, *empty}, nil)
	f.movements.On("FindByTypes", mock.Anything, testTenant, mock.Anything).Return([]inventory.StockMovement{}, nil)
	f.orders.On("FindByStatus", mock.Anything, testTenant, trade.OrderStatusDelivered).
		Return([]trade.SalesOrder{deliveredOrderOf(t, low, 12), deliveredOrderOf(t, empty, 3)}, nil)

	items, err := f.service.LowStock(ctx, testTenant)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, empty.ID, items[0].ID)
	assert.Equal(t, low.ID, items[1].ID)
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture()
	p := newTestProduct(t, "Brique", 100, 10)

	f.products.On("FindByIDForTenant", mock.Anything, testTenant, p.ID).Return(p, nil)
	f.products.On("Save", mock.Anything, p).Return(nil)
	f.movements.On("FindByProduct", mock.Anything, testTenant, p.ID).Return([]inventory.StockMovement{}, nil)
	f.orders.On("FindDeliveredByProduct", mock.Anything, testTenant, p.ID).Return([]trade.SalesOrder{}, nil)

	resp, err := f.service.Update(ctx, testTenant, p.ID, UpdateProductRequest{
		Name:     "Brique rouge",
		Unit:     "pièce",
		MinStock: decimal.NewFromInt(150),
	})
	require.NoError(t, err)
	assert.Equal(t, "Brique rouge", resp.Name)
	assert.Equal(t, "100", resp.InitialStock.String())
	assert.True(t, resp.IsLowStock)
	assert.Equal(t, []string{catalog.EventTypeProductUpdated}, f.publisher.types())
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("referenced product is kept", func(t *testing.T) {
		f := newProductFixture()
		p := newTestProduct(t, "Brique", 1, 0)
		f.products.On("FindByIDForTenant", mock.Anything, testTenant, p.ID).Return(p, nil)
		f.products.On("IsReferenced", mock.Anything, testTenant, p.ID).Return(true, nil)

		err := f.service.Delete(ctx, testTenant, p.ID)
		assert.ErrorIs(t, err, catalog.ErrProductInUse)
		f.products.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unreferenced product is removed", func(t *testing.T) {
		f := newProductFixture()
		p := newTestProduct(t, "Brique", 1, 0)
		f.products.On("FindByIDForTenant", mock.Anything, testTenant, p.ID).Return(p, nil)
		f.products.On("IsReferenced", mock.Anything, testTenant, p.ID).Return(false, nil)
		f.products.On("DeleteForTenant", mock.Anything, testTenant, p.ID).Return(nil)

		require.NoError(t, f.service.Delete(ctx, testTenant, p.ID))
		assert.Equal(t, []string{catalog.EventTypeProductDeleted}, f.publisher.types())
	})
}
