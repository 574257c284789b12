package partner

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/tijara/backend/internal/domain/finance"
	"github.com/tijara/backend/internal/domain/partner"
	"github.com/tijara/backend/internal/domain/shared"
	"github.com/tijara/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// ClientService handles client-related business operations
type ClientService struct {
	clients   partner.ClientRepository
	orders    trade.SalesOrderRepository
	invoices  finance.InvoiceRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewClientService creates a new ClientService
func NewClientService(
	clients partner.ClientRepository,
	orders trade.SalesOrderRepository,
	invoices finance.InvoiceRepository,
	logger *zap.Logger,
) *ClientService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClientService{
		clients:  clients,
		orders:   orders,
		invoices: invoices,
		logger:   logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ClientService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Create creates a new client. The ICE, when given, must be unused.
func (s *ClientService) Create(ctx context.Context, tenantID uuid.UUID, req ClientRequest) (*ClientResponse, error) {
	if err := s.ensureICEAvailable(ctx, tenantID, req.ICE, uuid.Nil); err != nil {
		return nil, err
	}
	client, err := partner.NewClient(tenantID, req.Name, req.ICE, req.contact())
	if err != nil {
		return nil, err
	}
	if err := s.clients.Save(ctx, client); err != nil {
		return nil, err
	}

	s.logger.Info("client created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("client_id", client.ID.String()))

	events := client.GetDomainEvents()
	client.ClearDomainEvents()
	if s.publisher != nil && len(events) > 0 {
		_ = s.publisher.Publish(ctx, events...)
	}

	resp := ToClientResponse(client)
	return &resp, nil
}

// GetByID retrieves a client by ID
func (s *ClientService) GetByID(ctx context.Context, tenantID, clientID uuid.UUID) (*ClientResponse, error) {
	client, err := s.clients.FindByIDForTenant(ctx, tenantID, clientID)
	if err != nil {
		return nil, shared.NotFoundAs(err, partner.ErrClientNotFound)
	}
	resp := ToClientResponse(client)
	return &resp, nil
}

// List retrieves a page of clients
func (s *ClientService) List(ctx context.Context, tenantID uuid.UUID, filter ClientListFilter) ([]ClientResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()
	if filter.OrderBy == "" {
		domainFilter.OrderBy = "name"
		domainFilter.OrderDir = "asc"
	}

	clients, err := s.clients.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.clients.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToClientResponses(clients), total, nil
}

// Update replaces a client's attributes
func (s *ClientService) Update(ctx context.Context, tenantID, clientID uuid.UUID, req ClientRequest) (*ClientResponse, error) {
	client, err := s.clients.FindByIDForTenant(ctx, tenantID, clientID)
	if err != nil {
		return nil, shared.NotFoundAs(err, partner.ErrClientNotFound)
	}
	if err := s.ensureICEAvailable(ctx, tenantID, req.ICE, client.ID); err != nil {
		return nil, err
	}
	if err := client.Update(req.Name, req.ICE, req.contact()); err != nil {
		return nil, err
	}
	if err := s.clients.Save(ctx, client); err != nil {
		return nil, err
	}
	resp := ToClientResponse(client)
	return &resp, nil
}

// Delete removes a client that has no orders and no invoices. Orders keep
// the client name, so history stays readable either way.
func (s *ClientService) Delete(ctx context.Context, tenantID, clientID uuid.UUID) error {
	if _, err := s.clients.FindByIDForTenant(ctx, tenantID, clientID); err != nil {
		return shared.NotFoundAs(err, partner.ErrClientNotFound)
	}
	orders, err := s.orders.FindByClient(ctx, tenantID, clientID)
	if err != nil {
		return err
	}
	invoices, err := s.invoices.FindByClient(ctx, tenantID, clientID)
	if err != nil {
		return err
	}
	if len(orders) > 0 || len(invoices) > 0 {
		return partner.ErrClientInUse
	}
	if err := s.clients.DeleteForTenant(ctx, tenantID, clientID); err != nil {
		return shared.NotFoundAs(err, partner.ErrClientNotFound)
	}
	s.logger.Info("client deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("client_id", clientID.String()))
	return nil
}

// Detail returns a client with its orders, invoices and invoice balance
func (s *ClientService) Detail(ctx context.Context, tenantID, clientID uuid.UUID) (*ClientDetailResponse, error) {
	client, err := s.clients.FindByIDForTenant(ctx, tenantID, clientID)
	if err != nil {
		return nil, shared.NotFoundAs(err, partner.ErrClientNotFound)
	}
	orders, err := s.orders.FindByClient(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoices.FindByClient(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}
	return &ClientDetailResponse{
		Client:   ToClientResponse(client),
		Orders:   toClientOrderSummaries(orders),
		Invoices: toClientInvoiceSummaries(invoices),
		Balance:  finance.ComputeClientBalance(invoices),
	}, nil
}

// ensureICEAvailable fails when another client of the tenant holds ice
func (s *ClientService) ensureICEAvailable(ctx context.Context, tenantID uuid.UUID, ice string, self uuid.UUID) error {
	ice = strings.TrimSpace(ice)
	if ice == "" {
		return nil
	}
	existing, err := s.clients.FindByICE(ctx, tenantID, ice)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return partner.ErrICEAlreadyUsed
	}
	return nil
}
