package feed

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"famshare/internal/common"
	"famshare/internal/dbmysql"
)

const commentPageSize = 20

// CommentPage is one page of comments in creation order plus the
// continuation cursor.
type CommentPage struct {
	Data       []dbmysql.Comment `json:"data"`
	NextCursor *int64            `json:"nextCursor"`
}

// AddComment attaches a comment to a live post; the row insert and the
// commentCount bump land in one transaction.
func (s *FeedService) AddComment(ctx context.Context, postID int64, authorID uint64, content string) (*dbmysql.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, common.BadRequest("content is required")
	}

	if _, err := s.livePost(ctx, postID); err != nil {
		return nil, err
	}

	comment := &dbmysql.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
	}
	if err := s.comments.CreateCommentAndIncrement(ctx, comment); err != nil {
		return nil, common.Internal("failed to create comment", err)
	}
	return comment, nil
}

// ListComments pages through a post's live comments oldest-first, using the
// same overfetch-by-one scheme as the post feed with a mirrored cursor
// (id > cursor, ascending).
func (s *FeedService) ListComments(ctx context.Context, postID, cursor int64) (*CommentPage, error) {
	comments, err := s.comments.ListComments(ctx, postID, cursor, commentPageSize+1)
	if err != nil {
		return nil, common.Internal("failed to list comments", err)
	}

	hasNext := len(comments) > commentPageSize
	if hasNext {
		comments = comments[:commentPageSize]
	}

	page := &CommentPage{Data: comments}
	if page.Data == nil {
		page.Data = []dbmysql.Comment{}
	}
	if hasNext {
		next := comments[len(comments)-1].CommentID
		page.NextCursor = &next
	}
	return page, nil
}

// UpdateComment edits the content. Only the comment's author may mutate it.
func (s *FeedService) UpdateComment(ctx context.Context, commentID int64, requesterID uint64, content string) (*dbmysql.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, common.BadRequest("content is required")
	}

	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFound("comment not found")
		}
		return nil, common.Internal("failed to load comment", err)
	}

	if comment.AuthorID != requesterID {
		return nil, common.Forbidden("you cannot edit this comment")
	}

	now := time.Now()
	comment.Content = content
	comment.EditedAt = &now
	if err := s.comments.UpdateComment(ctx, comment); err != nil {
		return nil, common.Internal("failed to update comment", err)
	}
	return comment, nil
}

// RemoveComment tombstones the comment and decrements the parent's
// commentCount atomically. Author-only.
func (s *FeedService) RemoveComment(ctx context.Context, commentID int64, requesterID uint64) error {
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.NotFound("comment not found")
		}
		return common.Internal("failed to load comment", err)
	}

	if comment.AuthorID != requesterID {
		return common.Forbidden("you cannot delete this comment")
	}

	if err := s.comments.SoftDeleteCommentAndDecrement(ctx, comment); err != nil {
		return common.Internal("failed to delete comment", err)
	}
	return nil
}
