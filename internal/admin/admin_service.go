package admin

import (
	"context"

	"famshare/internal/common"
	"famshare/internal/dbmysql"
)

// Stats is the admin dashboard summary. Soft-deleted posts and comments are
// excluded; likes have no tombstone so the raw count stands.
type Stats struct {
	TotalUsers    int64 `json:"total_users"`
	TotalPosts    int64 `json:"total_posts"`
	ImagePosts    int64 `json:"image_posts"`
	VideoPosts    int64 `json:"video_posts"`
	TotalComments int64 `json:"total_comments"`
	TotalLikes    int64 `json:"total_likes"`
}

type AdminService interface {
	GetStats(ctx context.Context) (*Stats, error)
	ListUsers(ctx context.Context) ([]UserSummary, error)
}

type adminService struct {
	repo AdminRepository
}

func NewAdminService(repo AdminRepository) AdminService {
	return &adminService{repo: repo}
}

func (s *adminService) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	var err error

	if stats.TotalUsers, err = s.repo.CountUsers(ctx); err != nil {
		return nil, common.Internal("failed to count users", err)
	}
	if stats.TotalPosts, err = s.repo.CountPosts(ctx, ""); err != nil {
		return nil, common.Internal("failed to count posts", err)
	}
	if stats.ImagePosts, err = s.repo.CountPosts(ctx, dbmysql.PostTypeImage); err != nil {
		return nil, common.Internal("failed to count image posts", err)
	}
	if stats.VideoPosts, err = s.repo.CountPosts(ctx, dbmysql.PostTypeVideo); err != nil {
		return nil, common.Internal("failed to count video posts", err)
	}
	if stats.TotalComments, err = s.repo.CountComments(ctx); err != nil {
		return nil, common.Internal("failed to count comments", err)
	}
	if stats.TotalLikes, err = s.repo.CountLikes(ctx); err != nil {
		return nil, common.Internal("failed to count likes", err)
	}

	return stats, nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]UserSummary, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, common.Internal("failed to list users", err)
	}
	if users == nil {
		users = []UserSummary{}
	}
	return users, nil
}
