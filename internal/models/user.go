package models

import (
	"slices"
	"time"
)

// Roles a user can hold.
const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleSuperUser = "super-user"
)

// User represents a user of the store.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"`
	FullName  string    `json:"full_name" gorm:"type:varchar(255);not null"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	Roles     []string  `json:"roles" gorm:"type:text;serializer:json"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasAnyRole reports whether the user holds at least one of roles.
// An empty roles list is satisfied by any user.
func (u *User) HasAnyRole(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if slices.Contains(u.Roles, r) {
			return true
		}
	}
	return false
}
