package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID          string     `gorm:"primaryKey;type:uuid" json:"id"`
	Username    *string    `gorm:"uniqueIndex;size:30" json:"username"` // null until the user picks one
	Email       string     `gorm:"uniqueIndex;not null;size:254" json:"email"`
	Role        Role       `gorm:"type:varchar(30);default:'user';not null" json:"role"`
	Bio         *string    `gorm:"type:text" json:"bio"`
	FirstName   string     `gorm:"size:50" json:"first_name"`
	LastName    string     `gorm:"size:50" json:"last_name"`
	IsStaff     bool       `gorm:"default:false;not null" json:"-"`
	IsSuperuser bool       `gorm:"default:false;not null" json:"-"`
	IsActive    bool       `gorm:"default:true;not null" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

// BeforeCreate hook to set UUID and default role before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = RoleUser
	}
	return
}

func (User) TableName() string {
	return "users"
}

// EffectiveRole is the role used for authorization; superusers act as admins.
func (user *User) EffectiveRole() Role {
	if user.IsSuperuser {
		return RoleAdmin
	}
	return user.Role
}

func (user *User) IsAdmin() bool {
	return user.EffectiveRole() == RoleAdmin
}

// DisplayName returns the username, or nil for users that never set one.
func (user *User) DisplayName() *string {
	if user == nil {
		return nil
	}
	return user.Username
}
