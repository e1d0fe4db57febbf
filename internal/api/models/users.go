package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles assignable to a user. Self-registration always yields RoleUser;
// only admin-privileged actors may change a role afterwards.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type User struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null;size:150" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null;size:254" json:"email"`
	FirstName string    `gorm:"size:150" json:"first_name"`
	LastName  string    `gorm:"size:150" json:"last_name"`
	Bio       string    `gorm:"type:text" json:"bio"`
	Role      string    `gorm:"default:'user';not null" json:"role"`
	Staff     bool      `gorm:"default:false" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

// IsAdmin reports whether the user carries admin capabilities,
// either through the admin role or the staff flag.
func (user *User) IsAdmin() bool {
	return user.Role == RoleAdmin || user.Staff
}

func (user *User) IsModerator() bool {
	return user.Role == RoleModerator
}

// ValidRole reports whether r is one of the assignable roles.
func ValidRole(r string) bool {
	return r == RoleUser || r == RoleModerator || r == RoleAdmin
}

func (User) TableName() string {
	return "users"
}
