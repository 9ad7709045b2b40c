package feed

import (
	"bytes"
	"context"
	"errors"
	"image"
	"time"

	// register decoders for image.DecodeConfig
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"famshare/internal/common"
	"famshare/internal/dbmysql"
	"famshare/internal/storage"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// PostView is a post as returned to clients, annotated with whether the
// requesting identity currently likes it.
type PostView struct {
	dbmysql.Post
	IsLikedByMe bool `json:"is_liked_by_me"`
}

// PostPage is one page of the feed plus the continuation cursor. A nil
// NextCursor signals end of stream.
type PostPage struct {
	Data       []PostView `json:"data"`
	NextCursor *int64     `json:"nextCursor"`
}

type FeedService struct {
	posts    Posts
	likes    Likes
	comments Comments
	blobs    storage.BlobStorage

	mediaBase string
}

func NewFeedService(p Posts, l Likes, c Comments, blobs storage.BlobStorage, mediaBase string) *FeedService {
	return &FeedService{
		posts:     p,
		likes:     l,
		comments:  c,
		blobs:     blobs,
		mediaBase: mediaBase,
	}
}

// CreatePost stores the media blob, then creates the asset row and the post
// row in one transaction.
func (s *FeedService) CreatePost(ctx context.Context, authorID uint64, postType, caption, fileName, contentType string, fileData []byte) (*PostView, error) {
	if postType != dbmysql.PostTypeImage && postType != dbmysql.PostTypeVideo {
		return nil, common.BadRequest("type must be IMAGE or VIDEO")
	}
	if len(fileData) == 0 {
		return nil, common.BadRequest("file is required")
	}

	// the uploaded file's class must agree with the declared post type
	wantVideo := postType == dbmysql.PostTypeVideo
	if (common.DetectFileType(contentType) == common.MediaFileTypeVideo) != wantVideo {
		return nil, common.BadRequest("file content type does not match the post type")
	}

	stored, err := s.blobs.Save(ctx, fileName, contentType, bytes.NewReader(fileData))
	if err != nil {
		return nil, common.Internal("failed to store media", err)
	}

	media := &dbmysql.MediaAsset{
		FileID:          stored.ID,
		OriginalURL:     s.mediaBase + stored.ID,
		ThumbnailURL:    s.mediaBase + stored.ID,
		ByteSize:        stored.Size,
		Status:          "READY",
		StorageProvider: s.blobs.Provider(),
		UploadedBy:      authorID,
	}

	if postType == dbmysql.PostTypeImage {
		if cfg, _, derr := image.DecodeConfig(bytes.NewReader(fileData)); derr == nil {
			media.Width = cfg.Width
			media.Height = cfg.Height
		}
	}

	post := &dbmysql.Post{
		AuthorID:    authorID,
		Type:        postType,
		Caption:     caption,
		IsPublished: true,
	}

	if err := s.posts.CreatePostWithMedia(ctx, post, media); err != nil {
		// don't leave an orphaned blob behind
		if derr := s.blobs.Delete(ctx, stored.ID); derr != nil {
			common.Logger.Warn("failed to clean up orphaned blob",
				zap.String("file_id", stored.ID), zap.Error(derr))
		}
		return nil, common.Internal("failed to create post", err)
	}

	created, err := s.posts.GetPostByID(ctx, post.PostID)
	if err != nil {
		return nil, common.Internal("failed to load created post", err)
	}
	return &PostView{Post: *created}, nil
}

// GetPost returns one live post. Unpublished posts are visible only to
// their author via this direct lookup, never through ListPosts.
func (s *FeedService) GetPost(ctx context.Context, id int64, viewer *common.Claims) (*PostView, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFound("post not found")
		}
		return nil, common.Internal("failed to load post", err)
	}

	if !post.IsPublished && (viewer == nil || viewer.UserID != post.AuthorID) {
		return nil, common.Forbidden("you cannot access this post")
	}

	view := &PostView{Post: *post}
	if viewer != nil {
		liked, err := s.likes.HasLike(ctx, post.PostID, viewer.UserID)
		if err != nil {
			return nil, common.Internal("failed to check like state", err)
		}
		view.IsLikedByMe = liked
	}
	return view, nil
}

// ListPosts returns one feed page, newest-first. It overfetches by one row:
// a full limit+1 result means another page exists and the extra row is
// dropped, with the last kept id becoming the continuation cursor.
func (s *FeedService) ListPosts(ctx context.Context, filter PostFilter, limit int, viewer *common.Claims) (*PostPage, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	posts, err := s.posts.ListPosts(ctx, filter, limit+1)
	if err != nil {
		return nil, common.Internal("failed to list posts", err)
	}

	hasNext := len(posts) > limit
	if hasNext {
		posts = posts[:limit]
	}

	var liked map[int64]bool
	if viewer != nil && len(posts) > 0 {
		ids := make([]int64, 0, len(posts))
		for _, p := range posts {
			ids = append(ids, p.PostID)
		}
		liked, err = s.likes.LikedPostIDs(ctx, viewer.UserID, ids)
		if err != nil {
			return nil, common.Internal("failed to check like state", err)
		}
	}

	page := &PostPage{Data: make([]PostView, 0, len(posts))}
	for _, p := range posts {
		page.Data = append(page.Data, PostView{Post: p, IsLikedByMe: liked[p.PostID]})
	}
	if hasNext {
		cursor := posts[len(posts)-1].PostID
		page.NextCursor = &cursor
	}
	return page, nil
}

// UpdatePost edits caption/publication state. Author or an ADMIN only.
func (s *FeedService) UpdatePost(ctx context.Context, id int64, requester *common.Claims, caption *string, isPublished *bool) (*PostView, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFound("post not found")
		}
		return nil, common.Internal("failed to load post", err)
	}

	if post.AuthorID != requester.UserID && requester.Role != dbmysql.RoleAdmin {
		return nil, common.Forbidden("you cannot edit this post")
	}

	if caption != nil {
		post.Caption = *caption
	}
	if isPublished != nil {
		post.IsPublished = *isPublished
	}
	post.UpdatedAt = time.Now()

	if err := s.posts.UpdatePost(ctx, post); err != nil {
		return nil, common.Internal("failed to update post", err)
	}
	return &PostView{Post: *post}, nil
}

// DeletePost tombstones the post. The media blob stays; every read path
// filters on deleted_at.
func (s *FeedService) DeletePost(ctx context.Context, id int64, requester *common.Claims) error {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.NotFound("post not found")
		}
		return common.Internal("failed to load post", err)
	}

	if post.AuthorID != requester.UserID && requester.Role != dbmysql.RoleAdmin {
		return common.Forbidden("you cannot delete this post")
	}

	if err := s.posts.SoftDeletePost(ctx, id); err != nil {
		return common.Internal("failed to delete post", err)
	}
	return nil
}

// livePost loads a post that exists and is not soft-deleted, the shared
// precondition for every like/comment mutation.
func (s *FeedService) livePost(ctx context.Context, postID int64) (*dbmysql.Post, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFound("post not found")
		}
		return nil, common.Internal("failed to load post", err)
	}
	return post, nil
}
