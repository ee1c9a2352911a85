package models

import (
	"time"
)

// AppRole is the closed set of roles known to the permission rules.
// Adding a role must be reflected in every switch over AppRole.
type AppRole string

const (
	RoleAdmin    AppRole = "admin"
	RoleStaff    AppRole = "staff"
	RoleCustomer AppRole = "customer"
)

func (r AppRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleCustomer:
		return true
	}
	return false
}

type User struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"uniqueIndex;not null"`
	Password  string    `gorm:"not null;column:password"`
	FullName  string    `gorm:"not null;column:full_name"`
	Role      AppRole   `gorm:"not null;default:customer;column:role"`
	IsActive  bool      `gorm:"default:true;column:is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;column:updated_at"`
}

func (User) TableName() string {
	return "users"
}
