package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tijara/backend/internal/domain/shared"
)

// SupplierStatus represents whether a supplier is still used
type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "active"
	SupplierStatusInactive SupplierStatus = "inactive"
)

// IsValid checks the status value
func (s SupplierStatus) IsValid() bool {
	return s == SupplierStatusActive || s == SupplierStatusInactive
}

// Supplier is a vendor the company buys from
type Supplier struct {
	shared.TenantAggregateRoot
	Name        string
	ICE         string
	ContactName string
	Contact
	Status SupplierStatus
}

// NewSupplier creates an active supplier
func NewSupplier(tenantID uuid.UUID, name, ice, contactName string, contact Contact) (*Supplier, error) {
	s := &Supplier{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Status:              SupplierStatusActive,
	}
	if err := s.apply(name, ice, contactName, contact); err != nil {
		return nil, err
	}
	s.AddDomainEvent(NewSupplierCreatedEvent(s))
	return s, nil
}

// Update replaces the supplier's attributes
func (s *Supplier) Update(name, ice, contactName string, contact Contact) error {
	if err := s.apply(name, ice, contactName, contact); err != nil {
		return err
	}
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// SetStatus activates or deactivates the supplier
func (s *Supplier) SetStatus(status SupplierStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Supplier status must be active or inactive")
	}
	s.Status = status
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

func (s *Supplier) apply(name, ice, contactName string, contact Contact) error {
	name = strings.TrimSpace(name)
	ice = strings.TrimSpace(ice)
	if err := validateName(name); err != nil {
		return err
	}
	if err := validateICE(ice); err != nil {
		return err
	}
	contactName = strings.TrimSpace(contactName)
	if len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	normalized, err := NormalizeContact(contact)
	if err != nil {
		return err
	}
	s.Name = name
	s.ICE = ice
	s.ContactName = contactName
	s.Contact = normalized
	return nil
}
