package partner

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/tijara/backend/internal/domain/finance"
	"github.com/tijara/backend/internal/domain/partner"
	"github.com/tijara/backend/internal/domain/shared"
	"github.com/tijara/backend/internal/domain/trade"
	"github.com/tijara/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// SupplierService handles suppliers and their running account
type SupplierService struct {
	suppliers partner.SupplierRepository
	orders    trade.PurchaseOrderRepository
	payments  finance.SupplierPaymentRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(
	suppliers partner.SupplierRepository,
	orders trade.PurchaseOrderRepository,
	payments finance.SupplierPaymentRepository,
	logger *zap.Logger,
) *SupplierService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupplierService{
		suppliers: suppliers,
		orders:    orders,
		payments:  payments,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *SupplierService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Create creates an active supplier
func (s *SupplierService) Create(ctx context.Context, tenantID uuid.UUID, req SupplierRequest) (*SupplierResponse, error) {
	supplier, err := partner.NewSupplier(tenantID, req.Name, req.ICE, req.ContactName, req.contact())
	if err != nil {
		return nil, err
	}
	if err := s.suppliers.Save(ctx, supplier); err != nil {
		return nil, err
	}
	s.logger.Info("supplier created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("supplier_id", supplier.ID.String()))
	s.publish(ctx, supplier.GetDomainEvents()...)
	supplier.ClearDomainEvents()

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, tenantID, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.suppliers.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, shared.NotFoundAs(err, partner.ErrSupplierNotFound)
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// List retrieves a page of suppliers
func (s *SupplierService) List(ctx context.Context, tenantID uuid.UUID, filter SupplierListFilter) ([]SupplierResponse, int64, error) {
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
	if filter.Status != "" {
		domainFilter.Filters[partner.FilterSupplierStatus] = partner.SupplierStatus(filter.Status)
	}

	suppliers, err := s.suppliers.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.suppliers.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToSupplierResponses(suppliers), total, nil
}

// Update replaces a supplier's attributes and, when given, its status
func (s *SupplierService) Update(ctx context.Context, tenantID, supplierID uuid.UUID, req SupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.suppliers.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, shared.NotFoundAs(err, partner.ErrSupplierNotFound)
	}
	if err := supplier.Update(req.Name, req.ICE, req.ContactName, req.contact()); err != nil {
		return nil, err
	}
	if req.Status != "" && req.Status != supplier.Status {
		if err := supplier.SetStatus(req.Status); err != nil {
			return nil, err
		}
	}
	if err := s.suppliers.Save(ctx, supplier); err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Delete removes a supplier without purchase orders or payments.
// Suppliers with history are deactivated instead.
func (s *SupplierService) Delete(ctx context.Context, tenantID, supplierID uuid.UUID) error {
	if _, err := s.suppliers.FindByIDForTenant(ctx, tenantID, supplierID); err != nil {
		return shared.NotFoundAs(err, partner.ErrSupplierNotFound)
	}
	orders, payments, err := s.account(ctx, tenantID, supplierID)
	if err != nil {
		return err
	}
	if len(orders) > 0 || len(payments) > 0 {
		return partner.ErrSupplierInUse
	}
	if err := s.suppliers.DeleteForTenant(ctx, tenantID, supplierID); err != nil {
		return shared.NotFoundAs(err, partner.ErrSupplierNotFound)
	}
	s.logger.Info("supplier deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("supplier_id", supplierID.String()))
	return nil
}

// Balance returns Σ purchase order totals − Σ payments for the supplier
func (s *SupplierService) Balance(ctx context.Context, tenantID, supplierID uuid.UUID) (*SupplierBalanceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "supplier", "balance",
		telemetry.SpanAttrTenantID, tenantID.String())
	defer span.End()

	supplier, err := s.suppliers.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, shared.NotFoundAs(err, partner.ErrSupplierNotFound)
	}
	orders, payments, err := s.account(ctx, tenantID, supplierID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	b := finance.ComputeSupplierBalance(orders, payments)
	return &SupplierBalanceResponse{
		SupplierID:     supplier.ID,
		SupplierName:   supplier.Name,
		TotalPurchased: b.TotalPurchased,
		TotalPaid:      b.TotalPaid,
		Balance:        b.Balance,
		OrderCount:     len(orders),
		PaymentCount:   len(payments),
	}, nil
}

// RecordPayment records money paid to a supplier
func (s *SupplierService) RecordPayment(ctx context.Context, tenantID, supplierID uuid.UUID, req RecordPaymentRequest) (*SupplierPaymentResponse, error) {
	if _, err := s.suppliers.FindByIDForTenant(ctx, tenantID, supplierID); err != nil {
		return nil, shared.NotFoundAs(err, partner.ErrSupplierNotFound)
	}
	payment, err := finance.NewSupplierPayment(tenantID, supplierID, req.Amount, dateOrZero(req.Date), req.Method, req.Reference)
	if err != nil {
		return nil, err
	}
	payment.Notes = req.Notes
	if err := s.payments.Save(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.Info("supplier payment recorded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("supplier_id", supplierID.String()),
		zap.String("amount", payment.Amount.String()),
		zap.String("method", string(payment.Method)))
	s.publish(ctx, payment.GetDomainEvents()...)
	payment.ClearDomainEvents()

	resp := ToSupplierPaymentResponse(payment)
	return &resp, nil
}

// ListPayments returns the payments of a supplier, newest first
func (s *SupplierService) ListPayments(ctx context.Context, tenantID, supplierID uuid.UUID) ([]SupplierPaymentResponse, error) {
	if _, err := s.suppliers.FindByIDForTenant(ctx, tenantID, supplierID); err != nil {
		return nil, shared.NotFoundAs(err, partner.ErrSupplierNotFound)
	}
	payments, err := s.payments.FindBySupplier(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(payments, func(i, j int) bool { return payments[i].Date.After(payments[j].Date) })
	out := make([]SupplierPaymentResponse, len(payments))
	for i := range payments {
		out[i] = ToSupplierPaymentResponse(&payments[i])
	}
	return out, nil
}

func (s *SupplierService) account(ctx context.Context, tenantID, supplierID uuid.UUID) ([]trade.PurchaseOrder, []finance.SupplierPayment, error) {
	orders, err := s.orders.FindBySupplier(ctx, tenantID, supplierID)
	if err != nil {
		return nil, nil, err
	}
	payments, err := s.payments.FindBySupplier(ctx, tenantID, supplierID)
	if err != nil {
		return nil, nil, err
	}
	return orders, payments, nil
}

func (s *SupplierService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	_ = s.publisher.Publish(ctx, events...)
}
