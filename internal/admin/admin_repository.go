package admin

import (
	"context"
	"time"

	"gorm.io/gorm"

	"famshare/internal/dbmysql"
)

// UserSummary is a user row enriched with activity counts for the admin
// dashboard.
type UserSummary struct {
	UserID       uint64     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	PostCount    int64      `json:"post_count"`
	CommentCount int64      `json:"comment_count"`
	LikeCount    int64      `json:"like_count"`
}

type AdminRepository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountPosts(ctx context.Context, postType string) (int64, error)
	CountComments(ctx context.Context) (int64, error)
	CountLikes(ctx context.Context) (int64, error)
	ListUsers(ctx context.Context) ([]UserSummary, error)
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmysql.User{}).Count(&count).Error
	return count, err
}

// CountPosts counts live posts, optionally narrowed to one type.
func (r *adminRepository) CountPosts(ctx context.Context, postType string) (int64, error) {
	q := r.db.WithContext(ctx).
		Model(&dbmysql.Post{}).
		Where("deleted_at IS NULL")
	if postType != "" {
		q = q.Where("type = ?", postType)
	}

	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (r *adminRepository) CountComments(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Comment{}).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count, err
}

func (r *adminRepository) CountLikes(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmysql.Like{}).Count(&count).Error
	return count, err
}

// ListUsers returns every user newest-first with per-user activity counts
// computed as correlated subqueries, one round trip.
func (r *adminRepository) ListUsers(ctx context.Context) ([]UserSummary, error) {
	var users []UserSummary
	err := r.db.WithContext(ctx).
		Model(&dbmysql.User{}).
		Select(`users.user_id, users.name, users.email, users.role, users.created_at, users.last_login_at,
			(SELECT COUNT(*) FROM posts WHERE posts.author_id = users.user_id AND posts.deleted_at IS NULL) AS post_count,
			(SELECT COUNT(*) FROM comments WHERE comments.author_id = users.user_id AND comments.deleted_at IS NULL) AS comment_count,
			(SELECT COUNT(*) FROM likes WHERE likes.user_id = users.user_id) AS like_count`).
		Order("users.created_at DESC").
		Scan(&users).Error
	return users, err
}
