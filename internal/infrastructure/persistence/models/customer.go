package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/customer"
)

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	AggregateModel
	FirstName  string              `gorm:"type:varchar(255);not null;index:idx_customers_name,priority:1"`
	LastName   string              `gorm:"type:varchar(255);not null;index:idx_customers_name,priority:2"`
	Email      string              `gorm:"type:varchar(254);not null;uniqueIndex"`
	Phone      string              `gorm:"type:varchar(255);not null;default:''"`
	BirthDate  *time.Time          `gorm:"type:date"`
	Membership customer.Membership `gorm:"type:varchar(1);not null;default:'B'"`
	UserID     *uuid.UUID          `gorm:"type:uuid;uniqueIndex"`
	// OrdersCount is filled by queries that count orders; never stored
	OrdersCount int64 `gorm:"->;-:migration"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer.
func (m *CustomerModel) ToDomain(address *AddressModel) *customer.Customer {
	c := &customer.Customer{
		BaseAggregateRoot: m.ToDomainAggregate(),
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		Email:             m.Email,
		Phone:             m.Phone,
		BirthDate:         m.BirthDate,
		Membership:        m.Membership,
		UserID:            m.UserID,
		OrdersCount:       m.OrdersCount,
	}
	if address != nil {
		c.Address = &customer.Address{CustomerID: m.ID, Street: address.Street, City: address.City}
	}
	return c
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer.
func CustomerModelFromDomain(c *customer.Customer) *CustomerModel {
	m := &CustomerModel{
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Email:      c.Email,
		Phone:      c.Phone,
		BirthDate:  c.BirthDate,
		Membership: c.Membership,
		UserID:     c.UserID,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}

// AddressModel is the one-to-one address of a customer, keyed by customer id
type AddressModel struct {
	CustomerID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Street     string    `gorm:"type:varchar(255);not null"`
	City       string    `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (AddressModel) TableName() string {
	return "addresses"
}
