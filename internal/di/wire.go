//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"famshare/internal/admin"
	"famshare/internal/common"
	"famshare/internal/config"
	"famshare/internal/dbmysql"
	"famshare/internal/feed"
	"famshare/internal/invite"
	"famshare/internal/media"
	"famshare/internal/user"
)

// This is just a declaration — wire generates the real body
func InitializeApp() (*App, func(), error) {
	wire.Build(
		config.LoadConfig,
		dbmysql.NewMySQL,
		newBlobStorage,
		common.NewTokenManager,
		common.NewAuthMiddleware,
		newFeedService,
		feed.NewFeedHandler,
		user.NewUserRepository,
		user.NewAuthService,
		user.NewAuthHandler,
		invite.NewInvitationRepository,
		invite.NewInvitationService,
		invite.NewInvitationHandler,
		admin.NewAdminRepository,
		admin.NewAdminService,
		admin.NewAdminHandler,
		media.NewHandler,
		newApp,
	)
	return nil, nil, nil // dummy for compilation
}
