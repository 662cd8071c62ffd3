package customer

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Membership is the loyalty tier of a customer
type Membership string

const (
	MembershipBronze Membership = "B"
	MembershipSilver Membership = "S"
	MembershipGold   Membership = "G"
)

// IsValid reports whether m is a known tier
func (m Membership) IsValid() bool {
	switch m {
	case MembershipBronze, MembershipSilver, MembershipGold:
		return true
	}
	return false
}

// Customer is a buyer profile, optionally linked to a login user
type Customer struct {
	shared.BaseAggregateRoot
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	BirthDate  *time.Time
	Membership Membership
	UserID     *uuid.UUID
	Address    *Address
	// OrdersCount is a read-side annotation
	OrdersCount int64
}

// Address is the single postal address of a customer
type Address struct {
	CustomerID uuid.UUID
	Street     string
	City       string
}

// Profile carries the fields a customer may edit
type Profile struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	BirthDate *time.Time
}

// NewCustomer creates a bronze customer
func NewCustomer(p Profile) (*Customer, error) {
	p = p.normalize()
	if err := p.validate(); err != nil {
		return nil, err
	}
	c := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Membership:        MembershipBronze,
	}
	c.apply(p)
	c.AddDomainEvent(NewCustomerCreatedEvent(c))
	return c, nil
}

// NewCustomerForUser creates a profile linked to a login user
func NewCustomerForUser(userID uuid.UUID, p Profile) (*Customer, error) {
	c, err := NewCustomer(p)
	if err != nil {
		return nil, err
	}
	c.UserID = &userID
	return c, nil
}

// LinkUser attaches an unlinked profile to a login user
func (c *Customer) LinkUser(userID uuid.UUID) error {
	if c.UserID != nil && *c.UserID != userID {
		return shared.NewDomainError(shared.ErrAlreadyExists.Code, "Customer is already linked to another user")
	}
	c.UserID = &userID
	c.Touch()
	return nil
}

// UpdateProfile replaces the editable profile fields
func (c *Customer) UpdateProfile(p Profile) error {
	p = p.normalize()
	if err := p.validate(); err != nil {
		return err
	}
	c.apply(p)
	c.Touch()
	return nil
}

// ChangeMembership sets the loyalty tier
func (c *Customer) ChangeMembership(m Membership) error {
	if !m.IsValid() {
		return shared.NewDomainError("INVALID_MEMBERSHIP", "Membership must be one of B, S, G")
	}
	c.Membership = m
	c.Touch()
	return nil
}

// SetAddress creates or replaces the address
func (c *Customer) SetAddress(street, city string) error {
	street, city = strings.TrimSpace(street), strings.TrimSpace(city)
	if street == "" || city == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Street and city are required")
	}
	if utf8.RuneCountInString(street) > 255 || utf8.RuneCountInString(city) > 255 {
		return shared.NewDomainError("INVALID_ADDRESS", "Street and city cannot exceed 255 characters")
	}
	c.Address = &Address{CustomerID: c.ID, Street: street, City: city}
	c.Touch()
	return nil
}

// FullName joins first and last name
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// CanDelete refuses deletion while orders reference the customer
func (c *Customer) CanDelete() error {
	if c.OrdersCount > 0 {
		return shared.NewProtectedError("Customer cannot be deleted because it has an association with orders")
	}
	return nil
}

func (c *Customer) apply(p Profile) {
	c.FirstName = p.FirstName
	c.LastName = p.LastName
	c.Email = p.Email
	c.Phone = p.Phone
	c.BirthDate = p.BirthDate
}

func (p Profile) normalize() Profile {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Phone = strings.TrimSpace(p.Phone)
	return p
}

func (p Profile) validate() error {
	if p.FirstName == "" || p.LastName == "" {
		return shared.NewDomainError("INVALID_NAME", "First name and last name are required")
	}
	if utf8.RuneCountInString(p.FirstName) > 255 || utf8.RuneCountInString(p.LastName) > 255 {
		return shared.NewDomainError("INVALID_NAME", "Names cannot exceed 255 characters")
	}
	if p.Email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email is required")
	}
	if addr, err := mail.ParseAddress(p.Email); err != nil || addr.Address != p.Email {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if utf8.RuneCountInString(p.Phone) > 255 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 255 characters")
	}
	if p.BirthDate != nil && p.BirthDate.After(shared.Now()) {
		return shared.NewDomainError("INVALID_BIRTH_DATE", "Birth date cannot be in the future")
	}
	return nil
}
