package dbmysql

import (
	"time"
)

const (
	PostTypeImage = "IMAGE"
	PostTypeVideo = "VIDEO"
)

// Post is the feed entry. PostID doubles as the pagination cursor: it is
// auto-incremented and never mutated, so descending id order matches
// newest-first creation order. LikeCount/CommentCount are denormalized and
// only ever written inside the same transaction as the child row change.
type Post struct {
	PostID       int64      `gorm:"primaryKey;autoIncrement;column:post_id" json:"id"`
	AuthorID     uint64     `gorm:"column:author_id;index;not null" json:"author_id"`
	MediaID      uint64     `gorm:"column:media_id;not null" json:"media_id"`
	Type         string     `gorm:"type:ENUM('IMAGE','VIDEO');column:type" json:"type"`
	Caption      string     `gorm:"column:caption;type:text" json:"caption"`
	IsPublished  bool       `gorm:"column:is_published;default:true" json:"is_published"`
	LikeCount    int64      `gorm:"column:like_count;default:0" json:"like_count"`
	CommentCount int64      `gorm:"column:comment_count;default:0" json:"comment_count"`
	DeletedAt    *time.Time `gorm:"column:deleted_at;index" json:"-"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Author User       `gorm:"foreignKey:AuthorID" json:"author"`
	Media  MediaAsset `gorm:"foreignKey:MediaID" json:"media"`
}

// IsDeleted reports whether the post has been tombstoned.
func (p *Post) IsDeleted() bool {
	return p.DeletedAt != nil
}
