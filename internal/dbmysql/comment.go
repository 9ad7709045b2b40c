package dbmysql

import (
	"time"
)

// Comment rows are tombstoned, never physically removed, so the comment
// cursor (ascending CommentID) stays stable across deletions.
type Comment struct {
	CommentID int64      `gorm:"primaryKey;autoIncrement;column:comment_id" json:"id"`
	PostID    int64      `gorm:"column:post_id;index;not null" json:"post_id"`
	AuthorID  uint64     `gorm:"column:author_id;index;not null" json:"author_id"`
	Content   string     `gorm:"column:content;type:text;not null" json:"content"`
	EditedAt  *time.Time `gorm:"column:edited_at" json:"edited_at,omitempty"`
	DeletedAt *time.Time `gorm:"column:deleted_at;index" json:"-"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Author User `gorm:"foreignKey:AuthorID" json:"author"`
}
