package inventory

import (
	"context"

	"github.com/tijara/backend/internal/domain/catalog"
	"github.com/tijara/backend/internal/domain/inventory"
	"github.com/tijara/backend/internal/domain/trade"
)

// TransactionScope runs ledger writes atomically.
// All repository operations inside Execute share one database transaction
// and are committed or rolled back together.
type TransactionScope interface {
	// Execute runs fn within a transaction; an error from fn rolls it back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories touched by a stock change.
//
// Products and SalesOrders lock the rows they read (SELECT ... FOR UPDATE on
// PostgreSQL) so that two transitions of the same order, or two adjustments
// of the same product, serialize on the database.
type TransactionalRepositories interface {
	Products() catalog.ProductRepository
	Movements() inventory.StockMovementRepository
	SalesOrders() trade.SalesOrderRepository
}

// NoOpTransactionScope runs fn against plain repositories without a transaction.
// Used in unit tests.
type NoOpTransactionScope struct {
	products  catalog.ProductRepository
	movements inventory.StockMovementRepository
	orders    trade.SalesOrderRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	products catalog.ProductRepository,
	movements inventory.StockMovementRepository,
	orders trade.SalesOrderRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{products: products, movements: movements, orders: orders}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Products returns the product repository.
func (s *NoOpTransactionScope) Products() catalog.ProductRepository { return s.products }

// Movements returns the stock movement repository.
func (s *NoOpTransactionScope) Movements() inventory.StockMovementRepository { return s.movements }

// SalesOrders returns the sales order repository.
func (s *NoOpTransactionScope) SalesOrders() trade.SalesOrderRepository { return s.orders }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
