package dbmysql

import (
	"time"
)

// Invitation is single-use: AcceptedUserID flips from NULL exactly once,
// inside the same transaction that creates the accepting user.
type Invitation struct {
	InvitationID   uint64     `gorm:"primaryKey;autoIncrement;column:invitation_id" json:"id"`
	Code           string     `gorm:"column:code;uniqueIndex;size:16;not null" json:"code"`
	Email          *string    `gorm:"column:email;size:255" json:"email,omitempty"`
	Role           string     `gorm:"column:role;type:enum('ADMIN','MEMBER');default:'MEMBER'" json:"role"`
	ExpiresAt      *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
	CreatedByID    uint64     `gorm:"column:created_by_id;not null" json:"created_by_id"`
	AcceptedUserID *uint64    `gorm:"column:accepted_user_id" json:"accepted_user_id,omitempty"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// IsExpired reports whether the invitation has an expiry in the past.
func (i *Invitation) IsExpired(now time.Time) bool {
	return i.ExpiresAt != nil && i.ExpiresAt.Before(now)
}

// IsAccepted reports whether the invitation has already been used.
func (i *Invitation) IsAccepted() bool {
	return i.AcceptedUserID != nil
}
