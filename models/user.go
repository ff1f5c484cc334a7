package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role is the closed set of account roles. Free-form role strings from the
// request body are parsed exactly once, at the registration boundary.
type Role string

const (
	// RoleMerchant is the brand-side account that creates orders and has
	// broad read/edit rights across the workflow.
	RoleMerchant Role = "merchant"
	// RoleFactory is the production-side account, scoped to orders
	// assigned to it.
	RoleFactory Role = "factory"
)

// ParseRole validates a role string from client input
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleMerchant:
		return RoleMerchant, nil
	case RoleFactory:
		return RoleFactory, nil
	default:
		return "", fmt.Errorf("invalid role %q", s)
	}
}

// User represents a registered account (merchant or factory)
type User struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	FirstName        string         `gorm:"not null" json:"firstName"`
	LastName         string         `json:"lastName"`
	EmailID          string         `gorm:"uniqueIndex;not null" json:"emailId"` // immutable after registration
	PhoneNumber      string         `json:"phoneNumber"`
	OrganisationName string         `gorm:"uniqueIndex;not null" json:"organisationName"`
	Role             Role           `gorm:"not null;default:'factory'" json:"role"`
	PasswordHash     string         `gorm:"not null" json:"-"`
	IsActive         bool           `gorm:"not null;default:true" json:"isActive"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
