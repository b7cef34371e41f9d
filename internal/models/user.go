// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// Role is the account privilege level.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// User represents a registered account.
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Username      string    `gorm:"size:30;not null" json:"username"`
	UsernameLower string    `gorm:"size:30;not null;uniqueIndex:idx_users_username_lower" json:"-"`
	Email         string    `gorm:"size:255;not null;uniqueIndex:idx_users_email" json:"email,omitempty"`
	Password      string    `gorm:"not null" json:"-"`
	Role          Role      `gorm:"size:20;not null;default:user;index" json:"role"`
	Bio           string    `gorm:"size:500" json:"bio"`
	ProfilePhoto  string    `json:"profilePhoto"`
	IsActive      bool      `gorm:"not null;default:true;index" json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CanonicalUsername is the form used for uniqueness checks.
func CanonicalUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// AuthorProfile is the public projection of a user embedded in shayari
// responses. It maps onto the users table without the credential columns.
type AuthorProfile struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `json:"username"`
	Bio          string    `json:"bio"`
	ProfilePhoto string    `json:"profilePhoto"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TableName binds AuthorProfile to the users table.
func (AuthorProfile) TableName() string { return "users" }

// UserWithStats is a user row enriched for the admin listing.
type UserWithStats struct {
	User
	ShayariCount int64 `json:"shayariCount"`
	LikesCount   int64 `json:"likesCount"`
}
