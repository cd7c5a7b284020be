package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// User is the primary account model. A fresh account cannot log in until
// its email is verified.
type User struct {
	gorm.Model
	Email         string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password      string     `gorm:"size:255;not null" json:"-"` // hashed, never serialised
	FirstName     string     `gorm:"size:150" json:"first_name"`
	LastName      string     `gorm:"size:150" json:"last_name"`
	Role          Role       `gorm:"size:50;not null;default:customer" json:"role"`
	EmailVerified bool       `gorm:"not null;default:false" json:"email_verified"`
	CanLogin      bool       `gorm:"not null;default:false" json:"-"`
	IsActive      bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
}

// FullName joins the name parts, tolerating either being empty.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
