package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tijara/backend/internal/domain/shared"
)

// Client is a customer of the company. A client with an ICE is a company.
type Client struct {
	shared.TenantAggregateRoot
	Name string
	ICE  string
	Contact
}

// NewClient creates a new client
func NewClient(tenantID uuid.UUID, name, ice string, contact Contact) (*Client, error) {
	c := &Client{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
	if err := c.apply(name, ice, contact); err != nil {
		return nil, err
	}
	c.AddDomainEvent(NewClientCreatedEvent(c))
	return c, nil
}

// Update replaces the client's attributes
func (c *Client) Update(name, ice string, contact Contact) error {
	if err := c.apply(name, ice, contact); err != nil {
		return err
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// IsCompany reports whether the client is a registered company
func (c *Client) IsCompany() bool {
	return c.ICE != ""
}

func (c *Client) apply(name, ice string, contact Contact) error {
	name = strings.TrimSpace(name)
	ice = strings.TrimSpace(ice)
	if err := validateName(name); err != nil {
		return err
	}
	if err := validateICE(ice); err != nil {
		return err
	}
	normalized, err := NormalizeContact(contact)
	if err != nil {
		return err
	}
	c.Name = name
	c.ICE = ice
	c.Contact = normalized
	return nil
}
