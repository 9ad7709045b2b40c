package dbmysql

import "time"

// Like existence is the signal, there is no per-row state. The unique index
// on (post_id, user_id) is the backstop for two concurrent creates racing
// past the existence check.
type Like struct {
	LikeID    int64     `gorm:"primaryKey;autoIncrement;column:like_id" json:"id"`
	PostID    int64     `gorm:"column:post_id;uniqueIndex:idx_post_user;not null" json:"post_id"`
	UserID    uint64    `gorm:"column:user_id;uniqueIndex:idx_post_user;not null" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
