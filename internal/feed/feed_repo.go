package feed

import (
	"context"
	"time"

	"gorm.io/gorm"

	"famshare/internal/dbmysql"
)

type FeedRepository struct {
	db *gorm.DB
}

func NewFeedRepository(db *gorm.DB) *FeedRepository {
	return &FeedRepository{db: db}
}

// --------- POSTS ---------

// PostFilter narrows the feed listing. Zero values mean "no filter".
type PostFilter struct {
	Type   string // IMAGE or VIDEO
	Year   int    // calendar year, half-open range [Jan 1, Jan 1 of year+1)
	Cursor int64  // post id of the last item on the previous page
}

type Posts interface {
	CreatePostWithMedia(ctx context.Context, post *dbmysql.Post, media *dbmysql.MediaAsset) error
	GetPostByID(ctx context.Context, id int64) (*dbmysql.Post, error)
	ListPosts(ctx context.Context, filter PostFilter, limit int) ([]dbmysql.Post, error)
	UpdatePost(ctx context.Context, post *dbmysql.Post) error
	SoftDeletePost(ctx context.Context, id int64) error
}

// CreatePostWithMedia inserts the media asset row and the post row in one
// transaction so a half-created post can never reference a missing asset.
func (r *FeedRepository) CreatePostWithMedia(ctx context.Context, post *dbmysql.Post, media *dbmysql.MediaAsset) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(media).Error; err != nil {
			return err
		}
		post.MediaID = media.MediaID
		return tx.Create(post).Error
	})
}

// GetPostByID returns a live (non-tombstoned) post with author and media
// preloaded. Soft-deleted posts are indistinguishable from absent ones.
func (r *FeedRepository) GetPostByID(ctx context.Context, id int64) (*dbmysql.Post, error) {
	var post dbmysql.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Media").
		Where("post_id = ? AND deleted_at IS NULL", id).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPosts returns up to limit published, live posts in descending id
// order. The caller overfetches by one to detect the next page.
func (r *FeedRepository) ListPosts(ctx context.Context, filter PostFilter, limit int) ([]dbmysql.Post, error) {
	q := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Media").
		Where("is_published = ? AND deleted_at IS NULL", true)

	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Year != 0 {
		start := time.Date(filter.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(1, 0, 0)
		q = q.Where("created_at >= ? AND created_at < ?", start, end)
	}
	if filter.Cursor != 0 {
		q = q.Where("post_id < ?", filter.Cursor)
	}

	var posts []dbmysql.Post
	err := q.Order("post_id DESC").Limit(limit).Find(&posts).Error
	return posts, err
}

func (r *FeedRepository) UpdatePost(ctx context.Context, post *dbmysql.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *FeedRepository) SoftDeletePost(ctx context.Context, id int64) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&dbmysql.Post{}).
		Where("post_id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", &now).Error
}

// --------- LIKES ---------

type Likes interface {
	HasLike(ctx context.Context, postID int64, userID uint64) (bool, error)
	LikedPostIDs(ctx context.Context, userID uint64, postIDs []int64) (map[int64]bool, error)
	CreateLikeAndIncrement(ctx context.Context, like *dbmysql.Like) error
	DeleteLikeAndDecrement(ctx context.Context, postID int64, userID uint64) (bool, error)
}

func (r *FeedRepository) HasLike(ctx context.Context, postID int64, userID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}

// LikedPostIDs answers "which of these posts does userID like" with a single
// membership query over the page's ids, never a scan of all likes.
func (r *FeedRepository) LikedPostIDs(ctx context.Context, userID uint64, postIDs []int64) (map[int64]bool, error) {
	liked := make(map[int64]bool, len(postIDs))
	if len(postIDs) == 0 {
		return liked, nil
	}

	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// CreateLikeAndIncrement inserts the like row and bumps the post counter as
// one atomic unit. A duplicate (post,user) pair fails the unique index and
// rolls back, leaving the counter untouched.
func (r *FeedRepository) CreateLikeAndIncrement(ctx context.Context, like *dbmysql.Like) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(like).Error; err != nil {
			return err
		}
		return tx.Model(&dbmysql.Post{}).
			Where("post_id = ?", like.PostID).
			Update("like_count", gorm.Expr("like_count + ?", 1)).Error
	})
}

// DeleteLikeAndDecrement removes the like row and drops the counter in one
// transaction. Returns false without touching the counter when no row exists.
func (r *FeedRepository) DeleteLikeAndDecrement(ctx context.Context, postID int64, userID uint64) (bool, error) {
	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&dbmysql.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		return tx.Model(&dbmysql.Post{}).
			Where("post_id = ?", postID).
			Update("like_count", gorm.Expr("like_count - ?", 1)).Error
	})
	return removed, err
}

// --------- COMMENTS ---------

type Comments interface {
	GetCommentByID(ctx context.Context, id int64) (*dbmysql.Comment, error)
	ListComments(ctx context.Context, postID, cursor int64, limit int) ([]dbmysql.Comment, error)
	CreateCommentAndIncrement(ctx context.Context, comment *dbmysql.Comment) error
	UpdateComment(ctx context.Context, comment *dbmysql.Comment) error
	SoftDeleteCommentAndDecrement(ctx context.Context, comment *dbmysql.Comment) error
}

func (r *FeedRepository) GetCommentByID(ctx context.Context, id int64) (*dbmysql.Comment, error) {
	var comment dbmysql.Comment
	err := r.db.WithContext(ctx).
		Where("comment_id = ? AND deleted_at IS NULL", id).
		First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListComments returns live comments oldest-first; cursor semantics are the
// mirror of the post feed (id > cursor, ascending).
func (r *FeedRepository) ListComments(ctx context.Context, postID, cursor int64, limit int) ([]dbmysql.Comment, error) {
	q := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ? AND deleted_at IS NULL", postID)

	if cursor != 0 {
		q = q.Where("comment_id > ?", cursor)
	}

	var comments []dbmysql.Comment
	err := q.Order("comment_id ASC").Limit(limit).Find(&comments).Error
	return comments, err
}

// CreateCommentAndIncrement inserts the comment row and bumps commentCount
// atomically, either both land or neither does.
func (r *FeedRepository) CreateCommentAndIncrement(ctx context.Context, comment *dbmysql.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&dbmysql.Post{}).
			Where("post_id = ?", comment.PostID).
			Update("comment_count", gorm.Expr("comment_count + ?", 1)).Error
	})
}

func (r *FeedRepository) UpdateComment(ctx context.Context, comment *dbmysql.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

// SoftDeleteCommentAndDecrement tombstones the comment and drops
// commentCount in one transaction.
func (r *FeedRepository) SoftDeleteCommentAndDecrement(ctx context.Context, comment *dbmysql.Comment) error {
	now := time.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&dbmysql.Comment{}).
			Where("comment_id = ? AND deleted_at IS NULL", comment.CommentID).
			Update("deleted_at", &now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// already gone, keep the counter honest
			return nil
		}
		return tx.Model(&dbmysql.Post{}).
			Where("post_id = ?", comment.PostID).
			Update("comment_count", gorm.Expr("comment_count - ?", 1)).Error
	})
}
