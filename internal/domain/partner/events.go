package partner

import (
	"github.com/google/uuid"
	"github.com/tijara/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeClient   = "Client"
	AggregateTypeSupplier = "Supplier"
)

// Event type constants
const (
	EventTypeClientCreated   = "ClientCreated"
	EventTypeSupplierCreated = "SupplierCreated"
)

// ClientCreatedEvent is published when a client is registered
type ClientCreatedEvent struct {
	shared.BaseDomainEvent
	ClientID uuid.UUID `json:"client_id"`
	Name     string    `json:"name"`
	ICE      string    `json:"ice,omitempty"`
}

// NewClientCreatedEvent creates a new ClientCreatedEvent
func NewClientCreatedEvent(c *Client) *ClientCreatedEvent {
	return &ClientCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientCreated, AggregateTypeClient, c.ID, c.TenantID),
		ClientID:        c.ID,
		Name:            c.Name,
		ICE:             c.ICE,
	}
}

// SupplierCreatedEvent is published when a supplier is registered
type SupplierCreatedEvent struct {
	shared.BaseDomainEvent
	SupplierID uuid.UUID `json:"supplier_id"`
	Name       string    `json:"name"`
}

// NewSupplierCreatedEvent creates a new SupplierCreatedEvent
func NewSupplierCreatedEvent(s *Supplier) *SupplierCreatedEvent {
	return &SupplierCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierCreated, AggregateTypeSupplier, s.ID, s.TenantID),
		SupplierID:      s.ID,
		Name:            s.Name,
	}
}
