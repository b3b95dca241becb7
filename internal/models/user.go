package models

import (
	"strings"
	"time"
)

// Role is the single role enumeration shared by the user schema and access control.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
	RoleOwner    Role = "owner"
)

// Staff reports whether the role may use the back office.
func (r Role) Staff() bool {
	return r == RoleAdmin || r == RoleOwner
}

// User represents a customer or back-office account.
type User struct {
	ID        string    `json:"_id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" bson:"name" gorm:"type:varchar(50);not null" validate:"required,max=50"`
	Email     string    `json:"email" bson:"email" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,looseemail"`
	Password  string    `json:"password,omitempty" bson:"password" gorm:"type:varchar(255);not null" validate:"required,min=6"` // bcrypt hash once stored
	Role      Role      `json:"role" bson:"role" gorm:"type:varchar(20);not null" validate:"required,oneof=customer admin owner"`
	Phone     string    `json:"phone" bson:"phone"`
	Avatar    string    `json:"avatar" bson:"avatar"`
	IsActive  bool      `json:"isActive" bson:"isActive"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// NewUser returns a user carrying the schema defaults.
func NewUser() *User {
	return &User{
		Role:     RoleCustomer,
		IsActive: true,
	}
}

// Normalize trims fields and lowercases the email.
func (u *User) Normalize() {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = NormalizeEmail(u.Email)
	u.Phone = strings.TrimSpace(u.Phone)
}

// NormalizeEmail is the canonical stored form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Public returns a copy safe to serialise: the password hash is dropped.
func (u User) Public() User {
	u.Password = ""
	return u
}

func (User) TableName() string { return "users" }

func (u *User) GetID() string { return u.ID }
func (u *User) SetID(id string) { u.ID = id }
func (u *User) GetCreatedAt() time.Time { return u.CreatedAt }
func (u *User) SetTimestamps(created, updated time.Time) {
	u.CreatedAt, u.UpdatedAt = created, updated
}
