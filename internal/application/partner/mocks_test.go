package partner

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/tijara/backend/internal/domain/finance"
	"github.com/tijara/backend/internal/domain/partner"
	"github.com/tijara/backend/internal/domain/shared"
	"github.com/tijara/backend/internal/domain/trade"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockClientRepository is a mock implementation of partner.ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Client, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *MockClientRepository) FindByICE(ctx context.Context, tenantID uuid.UUID, ice string) (*partner.Client, error) {
	args := m.Called(ctx, tenantID, ice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *MockClientRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Client, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]partner.Client), args.Error(1)
}

func (m *MockClientRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, client *partner.Client) error {
	return m.Called(ctx, client).Error(0)
}

func (m *MockClientRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockSupplierRepository is a mock implementation of partner.SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Supplier, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	return m.Called(ctx, supplier).Error(0)
}

func (m *MockSupplierRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockSalesOrderRepository implements only the order lookups the client
// service needs; other methods panic through the nil embedded interface.
type MockSalesOrderRepository struct {
	trade.SalesOrderRepository
	mock.Mock
}

func (m *MockSalesOrderRepository) FindByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]trade.SalesOrder, error) {
	args := m.Called(ctx, tenantID, clientID)
	return args.Get(0).([]trade.SalesOrder), args.Error(1)
}

// MockPurchaseOrderRepository implements the supplier lookup only
type MockPurchaseOrderRepository struct {
	trade.PurchaseOrderRepository
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) ([]trade.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, supplierID)
	return args.Get(0).([]trade.PurchaseOrder), args.Error(1)
}

// MockInvoiceRepository implements the client lookup only
type MockInvoiceRepository struct {
	finance.InvoiceRepository
	mock.Mock
}

func (m *MockInvoiceRepository) FindByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]finance.Invoice, error) {
	args := m.Called(ctx, tenantID, clientID)
	return args.Get(0).([]finance.Invoice), args.Error(1)
}

// MockSupplierPaymentRepository is a mock implementation of finance.SupplierPaymentRepository
type MockSupplierPaymentRepository struct {
	mock.Mock
}

func (m *MockSupplierPaymentRepository) FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) ([]finance.SupplierPayment, error) {
	args := m.Called(ctx, tenantID, supplierID)
	return args.Get(0).([]finance.SupplierPayment), args.Error(1)
}

func (m *MockSupplierPaymentRepository) Save(ctx context.Context, payment *finance.SupplierPayment) error {
	return m.Called(ctx, payment).Error(0)
}

// capturePublisher records published event types
type capturePublisher struct {
	mu    sync.Mutex
	types []string
}

func (p *capturePublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range events {
		p.types = append(p.types, e.EventType())
	}
	return nil
}
