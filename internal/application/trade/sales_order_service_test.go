package trade

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	inventoryapp "github.com/tijara/backend/internal/application/inventory"
	"github.com/tijara/backend/internal/domain/catalog"
	"github.com/tijara/backend/internal/domain/finance"
	"github.com/tijara/backend/internal/domain/inventory"
	"github.com/tijara/backend/internal/domain/partner"
	"github.com/tijara/backend/internal/domain/shared"
	"github.com/tijara/backend/internal/domain/trade"
	"github.com/tijara/backend/internal/infrastructure/cache"
)

var testTenant = uuid.MustParse("00000000-0000-0000-0000-000000000001")

var fixedNow = time.Date(2025, 6, 14, 15, 30, 0, 0, time.UTC)

type salesFixture struct {
	orders    *MockSalesOrderRepository
	products  *MockProductRepository
	movements *MockMovementRepository
	clients   *MockClientRepository
	invoices  *MockInvoiceLookup
	locker    *cache.InMemoryOrderLocker
	publisher *MockEventPublisher
	ledger    *recordingLedger
	service   *SalesOrderService
}

func newSalesFixture() *salesFixture {
	f := &salesFixture{
		orders:    new(MockSalesOrderRepository),
		products:  new(MockProductRepository),
		movements: new(MockMovementRepository),
		clients:   new(MockClientRepository),
		invoices:  new(MockInvoiceLookup),
		locker:    cache.NewInMemoryOrderLocker(),
		publisher: &MockEventPublisher{},
		ledger:    &recordingLedger{},
	}
	scope := inventoryapp.NewNoOpTransactionScope(f.products, f.movements, f.orders)
	f.service = NewSalesOrderService(f.orders, f.products, f.clients, scope, f.locker, nil)
	f.service.SetEventPublisher(f.publisher)
	f.service.SetLedgerRecorder(f.ledger)
	f.service.SetInvoiceLookup(f.invoices)
	f.service.now = func() time.Time { return fixedNow }
	return f
}

func testProduct(t *testing.T, name string, stock int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(testTenant, catalog.ProductInput{
		Name:      name,
		Unit:      "sac",
		SalePrice: decimal.NewFromInt(55),
	}, decimal.NewFromInt(stock))
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func testOrder(t *testing.T, lines ...trade.LineInput) *trade.SalesOrder {
	t.Helper()
	o, err := trade.NewSalesOrder(testTenant, "CMD-2025-00007", trade.OrderHeader{
		ClientName: "Hassan",
		ClientType: trade.ClientTypeIndividual,
	}, lines)
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o
}

func lineFor(p *catalog.Product, qty int64) trade.LineInput {
	id := p.ID
	return trade.LineInput{ProductID: &id, ProductName: p.Name, Quantity: decimal.NewFromInt(qty), UnitPrice: p.SalePrice}
}

func TestSalesOrderService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("fills client and product names", func(t *testing.T) {
		f := newSalesFixture()
		p := testProduct(t, "Ciment CPJ 45", 100)
		client, err := partner.NewClient(testTenant, "Bati Sud SARL", "001524563000078", partner.Contact{})
		require.NoError(t, err)

		f.clients.On("FindByIDForTenant", mock.Anything, testTenant, client.ID).Return(client, nil)
		f.products.On("FindByIDs", mock.Anything, testTenant, []uuid.UUID{p.ID}).Return([]catalog.Product{*p}, nil)
		f.orders.On("GenerateOrderNumber", mock.Anything, testTenant).Return("CMD-2025-00012", nil)
		f.orders.On("Save", mock.Anything, mock.AnythingOfType("*trade.SalesOrder")).Return(nil)

		resp, err := f.service.Create(ctx, testTenant, CreateSalesOrderRequest{
			ClientID:   &client.ID,
			ClientType: trade.ClientTypeCompany,
			ApplyVAT:   true,
			Items: []OrderLineInput{{
				ProductID: &p.ID,
				Quantity:  decimal.NewFromInt(10),
				UnitPrice: decimal.NewFromInt(55),
				VATRate:   decimal.NewFromInt(20),
			}},
		})
		require.NoError(t, err)

		assert.Equal(t, "CMD-2025-00012", resp.Number)
		assert.Equal(t, "Bati Sud SARL", resp.ClientName)
		assert.Equal(t, trade.OrderStatusInDelivery, resp.Status)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "Ciment CPJ 45", resp.Items[0].ProductName)
		assert.Equal(t, "sac", resp.Items[0].Unit)
		assert.Equal(t, "550", resp.Subtotal.String())
		assert.Equal(t, "660", resp.TotalTTC.String())
		assert.Equal(t, []string{trade.EventTypeSalesOrderCreated}, f.publisher.Types())
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newSalesFixture()
		id := uuid.New()
		f.products.On("FindByIDs", mock.Anything, testTenant, []uuid.UUID{id}).Return([]catalog.Product{}, nil)

		_, err := f.service.Create(ctx, testTenant, CreateSalesOrderRequest{
			ClientType: trade.ClientTypeIndividual,
			Items:      []OrderLineInput{{ProductID: &id, Quantity: decimal.NewFromInt(1)}},
		})
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
		f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown client", func(t *testing.T) {
		f := newSalesFixture()
		id := uuid.New()
		f.clients.On("FindByIDForTenant", mock.Anything, testTenant, id).Return(nil, shared.ErrNotFound)

		_, err := f.service.Create(ctx, testTenant, CreateSalesOrderRequest{
			ClientID:   &id,
			ClientType: trade.ClientTypeCompany,
			Items:      []OrderLineInput{{ProductName: "Sable", Quantity: decimal.NewFromInt(1)}},
		})
		assert.ErrorIs(t, err, partner.ErrClientNotFound)
	})
}

func TestSalesOrderService_ChangeStatus_Delivered(t *testing.T) {
	ctx := context.Background()
	f := newSalesFixture()
	cement := testProduct(t, "Ciment", 100)
	sand := testProduct(t, "Sable", 40)
	order := testOrder(t, lineFor(cement, 30), lineFor(sand, 5), lineFor(cement, 10))

	f.orders.On("FindByIDForTenant", mock.Anything, testTenant, order.ID).Return(order, nil)
	f.products.On("FindByIDs", mock.Anything, testTenant, mock.Anything).
		Return([]catalog.Product{*cement, *sand}, nil)
	var created []*inventory.StockMovement
	f.movements.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = append(created, args.Get(1).(*inventory.StockMovement))
	}).Return(nil)
	saved := map[uuid.UUID]decimal.Decimal{}
	f.products.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		p := args.Get(1).(*catalog.Product)
		saved[p.ID] = p.Stock
	}).Return(nil)
	f.orders.On("Save", mock.Anything, order).Return(nil)

	resp, err := f.service.ChangeStatus(ctx, testTenant, order.ID, ChangeStatusRequest{Status: trade.OrderStatusDelivered}, "Nadia")
	require.NoError(t, err)

	assert.Equal(t, trade.EffectDebit, resp.Effect)
	assert.Equal(t, 2, resp.Movements)
	assert.True(t, resp.Order.StockDebited)
	assert.NotNil(t, resp.Order.DeliveryDate)

	require.Len(t, created, 2)
	byProduct := map[uuid.UUID]*inventory.StockMovement{}
	for _, m := range created {
		assert.Equal(t, inventory.MovementOrderOut, m.Type)
		assert.Equal(t, "Nadia", m.UserName)
		assert.Equal(t, order.Number, m.Reference)
		require.NotNil(t, m.OrderDetails)
		assert.Equal(t, "Hassan", m.OrderDetails.ClientName)
		byProduct[m.ProductID] = m
	}
	assert.Equal(t, "-40", byProduct[cement.ID].Quantity.String())
	assert.Equal(t, "60", byProduct[cement.ID].NewStock.String())
	assert.Equal(t, "35", byProduct[sand.ID].NewStock.String())
	assert.Equal(t, "60", saved[cement.ID].String())
	assert.Equal(t, "35", saved[sand.ID].String())

	assert.Equal(t, []string{"en_cours_livraison>livre:debit"}, f.ledger.changes)
	assert.Equal(t, []string{"order_out", "order_out"}, f.ledger.movements)
	assert.Equal(t, []string{
		trade.EventTypeSalesOrderStatusChanged,
		inventory.EventTypeStockMovementRecorded,
		inventory.EventTypeStockMovementRecorded,
	}, f.publisher.Types())

	// the lock was released
	unlock, err := f.locker.Lock(ctx, testTenant, order.ID)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
}

func TestSalesOrderService_ChangeStatus_CancelReturnsStock(t *testing.T) {
	ctx := context.Background()
	f := newSalesFixture()
	p := testProduct(t, "Ciment", 100)
	order := testOrder(t, lineFor(p, 30))
	_, err := order.TransitionTo(trade.OrderStatusDelivered)
	require.NoError(t, err)
	order.ClearDomainEvents()
	p.SetCachedStock(decimal.NewFromInt(70))

	f.orders.On("FindByIDForTenant", mock.Anything, testTenant, order.ID).Return(order, nil)
	f.products.On("FindByIDs", mock.Anything, testTenant, []uuid.UUID{p.ID}).Return([]catalog.Product{*p}, nil)
	f.movements.On("Create", mock.Anything, mock.MatchedBy(func(m *inventory.StockMovement) bool {
		return m.Type == inventory.MovementOrderCancelReturn && m.NewStock.Equal(decimal.NewFromInt(100))
	})).Return(nil).Once()
	f.products.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("Save", mock.Anything, order).Return(nil)

	resp, err := f.service.ChangeStatus(ctx, testTenant, order.ID, ChangeStatusRequest{Status: trade.OrderStatusCancelled}, "")
	require.NoError(t, err)
	assert.Equal(t, trade.EffectReturn, resp.Effect)
	assert.False(t, resp.Order.StockDebited)
	f.movements.AssertExpectations(t)
}

func TestSalesOrderService_ChangeStatus_NoEffect(t *testing.T) {
	ctx := context.Background()

	t.Run("same status is a no-op", func(t *testing.T) {
		f := newSalesFixture()
		order := testOrder(t, trade.LineInput{ProductName: "Sable", Quantity: decimal.NewFromInt(1)})
		f.orders.On("FindByIDForTenant", mock.Anything, testTenant, order.ID).Return(order, nil)

		resp, err := f.service.ChangeStatus(ctx, testTenant, order.ID, ChangeStatusRequest{Status: trade.OrderStatusInDelivery}, "")
		require.NoError(t, err)
		assert.Equal(t, trade.EffectNone, resp.Effect)
		f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.Empty(t, f.publisher.Types())
		assert.Empty(t, f.ledger.changes)
	})

	t.Run("cancel before delivery saves without movements", func(t *testing.T) {
		f := newSalesFixture()
		order := testOrder(t, trade.LineInput{ProductName: "Sable", Quantity: decimal.NewFromInt(1)})
		f.orders.On("FindByIDForTenant", mock.Anything, testTenant, order.ID).Return(order, nil)
		f.orders.On("Save", mock.Anything, order).Return(nil)

		resp, err := f.service.ChangeStatus(ctx, testTenant, order.ID, ChangeStatusRequest{Status: trade.OrderStatusCancelled}, "")
		require.NoError(t, err)
		assert.Equal(t, trade.EffectNone, resp.Effect)
		assert.Equal(t, trade.OrderStatusCancelled, resp.Order.Status)
		f.movements.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.Equal(t, []string{"en_cours_livraison>annule:none"}, f.ledger.changes)
	})

	t.Run("pending is not a target", func(t *testing.T) {
		f := newSalesFixture()
		order := testOrder(t, trade.LineInput{ProductName: "Sable", Quantity: decimal.NewFromInt(1)})
		f.orders.On("FindByIDForTenant", mock.Anything, testTenant, order.ID).Return(order, nil)

		_, err := f.service.ChangeStatus(ctx, testTenant, order.ID, ChangeStatusRequest{Status: trade.OrderStatusPending}, "")
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "INVALID_STATUS_TRANSITION", de.Code)
	})
}

func TestSalesOrderService_ChangeStatus_Busy(t *testing.T) {
	ctx := context.Background()
	f := newSalesFixture()
	orderID := uuid.New()

	unlock, err := f.locker.Lock(ctx, testTenant, orderID)
	require.NoError(t, err)
	defer func() { _ = unlock(ctx) }()

	_, err = f.service.ChangeStatus(ctx, testTenant, orderID, ChangeStatusRequest{Status: trade.OrderStatusDelivered}, "")
	assert.ErrorIs(t, err, trade.ErrOrderBusy)
	f.orders.AssertNotCalled(t, "FindByIDForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestSalesOrderService_ChangeStatus_NotFound(t *testing.T) {
	f := newSalesFixture()
	id := uuid.New()
	f.orders.On("FindByIDForTenant", mock.Anything, testTenant, id).Return(nil, shared.ErrNotFound)

	_, err := f.service.ChangeStatus(context.Background(), testTenant, id, ChangeStatusRequest{Status: trade.OrderStatusDelivered}, "")
	assert.ErrorIs(t, err, trade.ErrOrderNotFound)
}

func TestSalesOrderService_ReplaceItems(t *testing.T) {
	ctx := context.Background()
	f := newSalesFixture()
	p := testProduct(t, "Ciment", 100)
	order := testOrder(t, lineFor(p, 3))
	_, err := order.TransitionTo(trade.OrderStatusDelivered)
	require.NoError(t, err)

	f.orders.On("FindByIDForTenant", mock.Anything, testTenant, order.ID).Return(order, nil)

	_, err = f.service.ReplaceItems(ctx, testTenant, order.ID, ReplaceItemsRequest{
		Items: []OrderLineInput{{ProductName: "Sable", Quantity: decimal.NewFromInt(2)}},
	})
	de, ok := shared.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "ORDER_LOCKED", de.Code)
	f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSalesOrderService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("debited order", func(t *testing.T) {
		f := newSalesFixture()
		order := testOrder(t, trade.LineInput{ProductName: "Sable", Quantity: decimal.NewFromInt(1)})
		order.StockDebited = true
		f.orders.On("FindByIDForTenant", mock.Anything, testTenant, order.ID).Return(order, nil)

		assert.ErrorIs(t, f.service.Delete(ctx, testTenant, order.ID), trade.ErrOrderDebited)
	})

	t.Run("invoiced order", func(t *testing.T) {
		f := newSalesFixture()
		order := testOrder(t, trade.LineInput{ProductName: "Sable", Quantity: decimal.NewFromInt(1)})
		f.orders.On("FindByIDForTenant", mock.Anything, testTenant, order.ID).Return(order, nil)
		f.invoices.On("FindByOrder", mock.Anything, testTenant, order.ID).Return(&finance.Invoice{}, nil)

		assert.ErrorIs(t, f.service.Delete(ctx, testTenant, order.ID), trade.ErrOrderInvoiced)
		f.orders.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("removes the order", func(t *testing.T) {
		f := newSalesFixture()
		order := testOrder(t, trade.LineInput{ProductName: "Sable", Quantity: decimal.NewFromInt(1)})
		f.orders.On("FindByIDForTenant", mock.Anything, testTenant, order.ID).Return(order, nil)
		f.invoices.On("FindByOrder", mock.Anything, testTenant, order.ID).Return(nil, shared.ErrNotFound)
		f.orders.On("DeleteForTenant", mock.Anything, testTenant, order.ID).Return(nil)

		require.NoError(t, f.service.Delete(ctx, testTenant, order.ID))
		assert.Equal(t, []string{trade.EventTypeSalesOrderDeleted}, f.publisher.Types())
	})
}

func TestSalesOrderService_List(t *testing.T) {
	ctx := context.Background()
	f := newSalesFixture()
	order := testOrder(t, trade.LineInput{ProductName: "Sable", Quantity: decimal.NewFromInt(4)})

	startOfDay := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	matches := mock.MatchedBy(func(fl shared.Filter) bool {
		from, _ := fl.Filters[trade.FilterDateFrom].(time.Time)
		to, _ := fl.Filters[trade.FilterDateTo].(time.Time)
		return fl.Search == "sable" &&
			fl.OrderBy == "total" && fl.OrderDir == "asc" &&
			fl.Page == 2 && fl.PageSize == 10 &&
			fl.Filters[trade.FilterStatus] == trade.OrderStatusInDelivery &&
			from.Equal(startOfDay) &&
			to.Equal(startOfDay.AddDate(0, 0, 1))
	})
	f.orders.On("FindAllForTenant", mock.Anything, testTenant, matches).Return([]trade.SalesOrder{*order}, nil)
	f.orders.On("CountForTenant", mock.Anything, testTenant, matches).Return(int64(11), nil)

	items, total, err := f.service.List(ctx, testTenant, SalesOrderListFilter{
		Search:   "sable",
		Status:   "en_cours_livraison",
		Date:     "today",
		Page:     2,
		PageSize: 10,
		OrderBy:  "total",
		OrderDir: "asc",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Sable", items[0].Products)
	assert.Equal(t, "4", items[0].TotalQuantity.String())
	assert.Equal(t, "En cours", items[0].StatusLabel)
}

func TestSalesOrderService_Export(t *testing.T) {
	ctx := context.Background()
	f := newSalesFixture()
	order := testOrder(t,
		trade.LineInput{ProductName: "Sable", Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(10)},
		trade.LineInput{ProductName: "Gravier", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(5)},
	)
	order.ClientName = "Smith, Inc."

	f.orders.On("FindAllForTenant", mock.Anything, testTenant, mock.MatchedBy(func(fl shared.Filter) bool {
		return fl.Page == 0 && fl.PageSize == 0 && fl.OrderBy == "date"
	})).Return([]trade.SalesOrder{*order}, nil)

	file, err := f.service.Export(ctx, testTenant, SalesOrderListFilter{})
	require.NoError(t, err)
	assert.Equal(t, "commandes_2025-06-14.csv", file.Name)

	records, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"CMD-2025-00007", records[1][1], "Smith, Inc.", "2 articles", "5", "45.00", "en_cours_livraison"}, records[1])
}
