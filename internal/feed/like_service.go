package feed

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"famshare/internal/common"
	"famshare/internal/dbmysql"
)

// ToggleLike flips the like state for (post,user): an existing like is
// removed (count -1), a missing one created (count +1). Calling it twice
// returns the post to its original state.
//
// Two toggles racing past the existence check may both attempt creation;
// the unique (post,user) index makes one fail and roll back, so the counter
// never drifts.
func (s *FeedService) ToggleLike(ctx context.Context, postID int64, userID uint64) (bool, error) {
	if _, err := s.livePost(ctx, postID); err != nil {
		return false, err
	}

	exists, err := s.likes.HasLike(ctx, postID, userID)
	if err != nil {
		return false, common.Internal("failed to check like state", err)
	}

	if exists {
		if _, err := s.likes.DeleteLikeAndDecrement(ctx, postID, userID); err != nil {
			return false, common.Internal("failed to remove like", err)
		}
		return false, nil
	}

	like := &dbmysql.Like{PostID: postID, UserID: userID}
	if err := s.likes.CreateLikeAndIncrement(ctx, like); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, common.Conflict("like already exists")
		}
		return false, common.Internal("failed to add like", err)
	}
	return true, nil
}

// AddLike is the idempotent variant: an existing like is a no-op and never
// double-increments the counter.
func (s *FeedService) AddLike(ctx context.Context, postID int64, userID uint64) error {
	if _, err := s.livePost(ctx, postID); err != nil {
		return err
	}

	exists, err := s.likes.HasLike(ctx, postID, userID)
	if err != nil {
		return common.Internal("failed to check like state", err)
	}
	if exists {
		return nil
	}

	like := &dbmysql.Like{PostID: postID, UserID: userID}
	if err := s.likes.CreateLikeAndIncrement(ctx, like); err != nil {
		// lost the race to a concurrent add, the like exists either way
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return common.Internal("failed to add like", err)
	}
	return nil
}

// RemoveLike is idempotent: removing an absent like is a no-op.
func (s *FeedService) RemoveLike(ctx context.Context, postID int64, userID uint64) error {
	if _, err := s.livePost(ctx, postID); err != nil {
		return err
	}

	if _, err := s.likes.DeleteLikeAndDecrement(ctx, postID, userID); err != nil {
		return common.Internal("failed to remove like", err)
	}
	return nil
}
