package finance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tijara/backend/internal/domain/finance"
	"github.com/tijara/backend/internal/domain/partner"
	"github.com/tijara/backend/internal/domain/settings"
	"github.com/tijara/backend/internal/domain/shared"
	"github.com/tijara/backend/internal/domain/trade"
	"github.com/tijara/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// CompanyProfiles returns the tenant's company profile, defaults included
type CompanyProfiles interface {
	Profile(ctx context.Context, tenantID uuid.UUID) (*settings.CompanyProfile, error)
}

// InvoiceService creates invoices from sales orders and tracks their payment status
type InvoiceService struct {
	invoices  finance.InvoiceRepository
	orders    trade.SalesOrderRepository
	clients   partner.ClientRepository
	company   CompanyProfiles
	publisher shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoices finance.InvoiceRepository,
	orders trade.SalesOrderRepository,
	clients partner.ClientRepository,
	company CompanyProfiles,
	logger *zap.Logger,
) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		invoices: invoices,
		orders:   orders,
		clients:  clients,
		company:  company,
		logger:   logger,
		now:      time.Now,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// CreateFromOrder copies a sales order into a draft invoice numbered with
// the company's format. An order is invoiced at most once.
func (s *InvoiceService) CreateFromOrder(ctx context.Context, tenantID, orderID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "create_from_order",
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrOrderID, orderID.String())
	defer span.End()

	order, err := s.orders.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, shared.NotFoundAs(err, trade.ErrOrderNotFound)
	}
	switch _, err := s.invoices.FindByOrder(ctx, tenantID, orderID); {
	case err == nil:
		return nil, finance.ErrAlreadyInvoiced
	case !errors.Is(err, shared.ErrNotFound):
		telemetry.RecordError(span, err)
		return nil, err
	}

	// Validate before consuming a sequence number.
	if !order.HasClient() {
		return nil, finance.ErrInvoiceNoClient
	}
	if len(order.Items) == 0 {
		return nil, finance.ErrInvoiceNoItems
	}

	profile, err := s.company.Profile(ctx, tenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	date := s.now()
	if req.Date != nil {
		date = *req.Date
	}
	counter, err := s.invoices.NextSequence(ctx, tenantID, date.Year())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	invoice, err := finance.NewInvoiceFromOrder(order, profile.InvoiceNumber(date.Year(), counter), date)
	if err != nil {
		return nil, err
	}
	invoice.DueDate = req.DueDate
	if err := s.invoices.Save(ctx, invoice); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("invoice created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("invoice_number", invoice.Number),
		zap.String("order_number", order.Number),
		zap.String("total_ttc", invoice.TotalTTC.String()))
	s.publishAggregate(ctx, invoice)

	resp := ToInvoiceResponse(invoice)
	resp.ClientName = order.DisplayClientName()
	return &resp, nil
}

// GetByID retrieves an invoice with its client name
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoices.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, shared.NotFoundAs(err, finance.ErrInvoiceNotFound)
	}
	out := s.withClientNames(ctx, tenantID, []finance.Invoice{*invoice})
	return &out[0], nil
}

// List retrieves a page of invoices
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
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
		domainFilter.Filters[finance.FilterStatus] = finance.InvoiceStatus(filter.Status)
	}
	if filter.ClientID != nil {
		domainFilter.Filters[finance.FilterClientID] = *filter.ClientID
	}

	invoices, err := s.invoices.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoices.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return s.withClientNames(ctx, tenantID, invoices), total, nil
}

// ListByClient returns every invoice of a client, newest first
func (s *InvoiceService) ListByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]InvoiceResponse, error) {
	if _, err := s.clients.FindByIDForTenant(ctx, tenantID, clientID); err != nil {
		return nil, shared.NotFoundAs(err, partner.ErrClientNotFound)
	}
	invoices, err := s.invoices.FindByClient(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}
	return s.withClientNames(ctx, tenantID, invoices), nil
}

// ChangeStatus sets the payment status of an invoice
func (s *InvoiceService) ChangeStatus(ctx context.Context, tenantID, invoiceID uuid.UUID, req ChangeInvoiceStatusRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoices.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, shared.NotFoundAs(err, finance.ErrInvoiceNotFound)
	}
	from := invoice.Status
	if err := invoice.ChangeStatus(req.Status); err != nil {
		return nil, err
	}
	if from != invoice.Status {
		if err := s.invoices.Save(ctx, invoice); err != nil {
			return nil, err
		}
		s.logger.Info("invoice status changed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("invoice_number", invoice.Number),
			zap.String("from", string(from)),
			zap.String("to", string(invoice.Status)))
		s.publishAggregate(ctx, invoice)
	}
	out := s.withClientNames(ctx, tenantID, []finance.Invoice{*invoice})
	return &out[0], nil
}

func (s *InvoiceService) withClientNames(ctx context.Context, tenantID uuid.UUID, invoices []finance.Invoice) []InvoiceResponse {
	names := make(map[uuid.UUID]string)
	out := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		out[i] = ToInvoiceResponse(&invoices[i])
		id := invoices[i].ClientID
		name, ok := names[id]
		if !ok {
			if c, err := s.clients.FindByIDForTenant(ctx, tenantID, id); err == nil {
				name = c.Name
			}
			names[id] = name
		}
		out[i].ClientName = name
	}
	return out
}

func (s *InvoiceService) publishAggregate(ctx context.Context, invoice *finance.Invoice) {
	events := invoice.GetDomainEvents()
	invoice.ClearDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	_ = s.publisher.Publish(ctx, events...)
}
