package models

import (
	"time"

	"github.com/google/uuid"
)

// Role names seeded by schema.sql.
const (
	RoleFarmer       = "farmer"
	RoleFieldOfficer = "fieldofficer"
	RoleManager      = "manager"
	RoleOwner        = "owner"
)

type Role struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	DisplayName string `json:"display_name" db:"display_name"`
}

// User covers the whole owner -> manager -> fieldofficer -> farmer hierarchy.
// RoleName is denormalized onto the row by the repository join.
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	PhoneNumber  string     `json:"phone_number" db:"phone_number"`
	Address      string     `json:"address" db:"address"`
	Village      string     `json:"village" db:"village"`
	Taluka       string     `json:"taluka" db:"taluka"`
	District     string     `json:"district" db:"district"`
	State        string     `json:"state" db:"state"`
	RoleID       *int64     `json:"role_id,omitempty" db:"role_id"`
	RoleName     *string    `json:"role,omitempty" db:"role_name"`
	CreatedBy    *uuid.UUID `json:"created_by,omitempty" db:"created_by"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

func (u *User) HasRole(roleName string) bool {
	return u.RoleName != nil && *u.RoleName == roleName
}
