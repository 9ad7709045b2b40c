package dbmysql

import (
	"time"
)

const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

type User struct {
	UserID       uint64     `gorm:"primaryKey;column:user_id;autoIncrement" json:"id"`
	Name         string     `gorm:"column:name;size:100;not null" json:"name"`
	Email        string     `gorm:"column:email;uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;size:255;not null" json:"-"`
	Role         string     `gorm:"column:role;type:enum('ADMIN','MEMBER');default:'MEMBER'" json:"role"`
	AvatarURL    *string    `gorm:"column:avatar_url;size:500" json:"avatar_url,omitempty"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
