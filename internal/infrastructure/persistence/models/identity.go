package models

import (
	"strings"
	"time"

	"github.com/storefront/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	AggregateModel
	Username     string `gorm:"type:varchar(150);not null;uniqueIndex"`
	Email        string `gorm:"type:varchar(254);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	FirstName    string `gorm:"type:varchar(150);not null;default:''"`
	LastName     string `gorm:"type:varchar(150);not null;default:''"`
	IsStaff      bool   `gorm:"not null;default:false"`
	IsActive     bool   `gorm:"not null;default:true"`
	Permissions  string `gorm:"type:text;not null;default:''"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User.
func (m *UserModel) ToDomain() *identity.User {
	perms := []string{}
	if m.Permissions != "" {
		perms = strings.Split(m.Permissions, ",")
	}
	return &identity.User{
		BaseAggregateRoot: m.ToDomainAggregate(),
		Username:          m.Username,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		IsStaff:           m.IsStaff,
		IsActive:          m.IsActive,
		Permissions:       perms,
		LastLoginAt:       m.LastLoginAt,
	}
}

// UserModelFromDomain creates a new persistence model from a domain User.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsStaff:      u.IsStaff,
		IsActive:     u.IsActive,
		Permissions:  strings.Join(u.Permissions, ","),
		LastLoginAt:  u.LastLoginAt,
	}
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	return m
}
