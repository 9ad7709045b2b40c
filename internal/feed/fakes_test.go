package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"gorm.io/gorm"

	"famshare/internal/dbmysql"
	"famshare/internal/storage"
)

// ---- In-memory fake for the feed repository ----
//
// The fake mirrors the transactional contract of the real repository: a
// child-row change and its counter update always land together.

type fakeFeedRepo struct {
	posts    map[int64]*dbmysql.Post
	likes    map[string]*dbmysql.Like
	comments map[int64]*dbmysql.Comment

	nextPost    int64
	nextMedia   uint64
	nextLike    int64
	nextComment int64
}

func newFakeFeedRepo() *fakeFeedRepo {
	return &fakeFeedRepo{
		posts:       map[int64]*dbmysql.Post{},
		likes:       map[string]*dbmysql.Like{},
		comments:    map[int64]*dbmysql.Comment{},
		nextPost:    1,
		nextMedia:   1,
		nextLike:    1,
		nextComment: 1,
	}
}

func likeKey(postID int64, userID uint64) string {
	return fmt.Sprintf("%d:%d", postID, userID)
}

// --------- POSTS ---------

func (f *fakeFeedRepo) CreatePostWithMedia(ctx context.Context, post *dbmysql.Post, media *dbmysql.MediaAsset) error {
	media.MediaID = f.nextMedia
	f.nextMedia++

	post.PostID = f.nextPost
	f.nextPost++
	post.MediaID = media.MediaID
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	post.Media = *media

	cp := *post
	f.posts[post.PostID] = &cp
	return nil
}

func (f *fakeFeedRepo) GetPostByID(ctx context.Context, id int64) (*dbmysql.Post, error) {
	p, ok := f.posts[id]
	if !ok || p.DeletedAt != nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeFeedRepo) ListPosts(ctx context.Context, filter PostFilter, limit int) ([]dbmysql.Post, error) {
	var out []dbmysql.Post
	for _, p := range f.posts {
		if !p.IsPublished || p.DeletedAt != nil {
			continue
		}
		if filter.Type != "" && p.Type != filter.Type {
			continue
		}
		if filter.Year != 0 {
			start := time.Date(filter.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
			end := start.AddDate(1, 0, 0)
			if p.CreatedAt.Before(start) || !p.CreatedAt.Before(end) {
				continue
			}
		}
		if filter.Cursor != 0 && p.PostID >= filter.Cursor {
			continue
		}
		out = append(out, *p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].PostID > out[j].PostID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeFeedRepo) UpdatePost(ctx context.Context, post *dbmysql.Post) error {
	cp := *post
	f.posts[post.PostID] = &cp
	return nil
}

func (f *fakeFeedRepo) SoftDeletePost(ctx context.Context, id int64) error {
	if p, ok := f.posts[id]; ok && p.DeletedAt == nil {
		now := time.Now()
		p.DeletedAt = &now
	}
	return nil
}

// --------- LIKES ---------

func (f *fakeFeedRepo) HasLike(ctx context.Context, postID int64, userID uint64) (bool, error) {
	_, ok := f.likes[likeKey(postID, userID)]
	return ok, nil
}

func (f *fakeFeedRepo) LikedPostIDs(ctx context.Context, userID uint64, postIDs []int64) (map[int64]bool, error) {
	liked := map[int64]bool{}
	for _, id := range postIDs {
		if _, ok := f.likes[likeKey(id, userID)]; ok {
			liked[id] = true
		}
	}
	return liked, nil
}

func (f *fakeFeedRepo) CreateLikeAndIncrement(ctx context.Context, like *dbmysql.Like) error {
	key := likeKey(like.PostID, like.UserID)
	if _, ok := f.likes[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	like.LikeID = f.nextLike
	f.nextLike++
	like.CreatedAt = time.Now()

	cp := *like
	f.likes[key] = &cp
	f.posts[like.PostID].LikeCount++
	return nil
}

func (f *fakeFeedRepo) DeleteLikeAndDecrement(ctx context.Context, postID int64, userID uint64) (bool, error) {
	key := likeKey(postID, userID)
	if _, ok := f.likes[key]; !ok {
		return false, nil
	}
	delete(f.likes, key)
	f.posts[postID].LikeCount--
	return true, nil
}

// likeRows counts live like rows for a post, the ground truth the
// denormalized counter must match.
func (f *fakeFeedRepo) likeRows(postID int64) int64 {
	var n int64
	for _, l := range f.likes {
		if l.PostID == postID {
			n++
		}
	}
	return n
}

// --------- COMMENTS ---------

func (f *fakeFeedRepo) GetCommentByID(ctx context.Context, id int64) (*dbmysql.Comment, error) {
	c, ok := f.comments[id]
	if !ok || c.DeletedAt != nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeFeedRepo) ListComments(ctx context.Context, postID, cursor int64, limit int) ([]dbmysql.Comment, error) {
	var out []dbmysql.Comment
	for _, c := range f.comments {
		if c.PostID != postID || c.DeletedAt != nil {
			continue
		}
		if cursor != 0 && c.CommentID <= cursor {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CommentID < out[j].CommentID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeFeedRepo) CreateCommentAndIncrement(ctx context.Context, comment *dbmysql.Comment) error {
	comment.CommentID = f.nextComment
	f.nextComment++
	comment.CreatedAt = time.Now()

	cp := *comment
	f.comments[comment.CommentID] = &cp
	f.posts[comment.PostID].CommentCount++
	return nil
}

func (f *fakeFeedRepo) UpdateComment(ctx context.Context, comment *dbmysql.Comment) error {
	cp := *comment
	f.comments[comment.CommentID] = &cp
	return nil
}

func (f *fakeFeedRepo) SoftDeleteCommentAndDecrement(ctx context.Context, comment *dbmysql.Comment) error {
	c, ok := f.comments[comment.CommentID]
	if !ok || c.DeletedAt != nil {
		return nil
	}
	now := time.Now()
	c.DeletedAt = &now
	f.posts[c.PostID].CommentCount--
	return nil
}

func (f *fakeFeedRepo) commentRows(postID int64) int64 {
	var n int64
	for _, c := range f.comments {
		if c.PostID == postID && c.DeletedAt == nil {
			n++
		}
	}
	return n
}

// ---- In-memory blob storage fake ----

type fakeBlobStorage struct {
	files map[string][]byte
	next  int
}

func newFakeBlobStorage() *fakeBlobStorage {
	return &fakeBlobStorage{files: map[string][]byte{}}
}

func (f *fakeBlobStorage) Save(ctx context.Context, filename, contentType string, content io.Reader) (*storage.MediaFile, error) {
	f.next++
	id := fmt.Sprintf("blob-%d", f.next)
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	f.files[id] = data
	return &storage.MediaFile{
		ID:          id,
		Filename:    filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		UploadedAt:  time.Now(),
	}, nil
}

func (f *fakeBlobStorage) Open(ctx context.Context, fileID string) (io.ReadCloser, *storage.MediaFile, error) {
	data, ok := f.files[fileID]
	if !ok {
		return nil, nil, fmt.Errorf("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), &storage.MediaFile{ID: fileID, Size: int64(len(data))}, nil
}

func (f *fakeBlobStorage) Delete(ctx context.Context, fileID string) error {
	delete(f.files, fileID)
	return nil
}

func (f *fakeBlobStorage) Provider() string {
	return "fake"
}

// newTestService builds a FeedService over fresh fakes.
func newTestService() (*FeedService, *fakeFeedRepo, *fakeBlobStorage) {
	repo := newFakeFeedRepo()
	blobs := newFakeBlobStorage()
	svc := NewFeedService(repo, repo, repo, blobs, "/media/")
	return svc, repo, blobs
}

// seedPost inserts a published image post directly into the fake store.
func seedPost(repo *fakeFeedRepo, authorID uint64) *dbmysql.Post {
	post := &dbmysql.Post{
		AuthorID:    authorID,
		Type:        dbmysql.PostTypeImage,
		Caption:     "seeded",
		IsPublished: true,
	}
	media := &dbmysql.MediaAsset{FileID: "seed", Status: "READY"}
	_ = repo.CreatePostWithMedia(context.Background(), post, media)
	return post
}
