package di

import (
	"context"
	"time"

	"gorm.io/gorm"

	"famshare/internal/admin"
	"famshare/internal/common"
	"famshare/internal/config"
	"famshare/internal/dbmongo"
	"famshare/internal/feed"
	"famshare/internal/invite"
	"famshare/internal/media"
	"famshare/internal/storage"
	"famshare/internal/user"
)

// App bundles everything the server binary needs.
type App struct {
	Config *config.Config
	DB     *gorm.DB
	Auth   *common.AuthMiddleware

	Feed        *feed.FeedHandler
	AuthAPI     *user.AuthHandler
	Invitations *invite.InvitationHandler
	Admin       *admin.AdminHandler
	Media       *media.Handler
}

func newApp(
	cfg *config.Config,
	db *gorm.DB,
	auth *common.AuthMiddleware,
	feedHandler *feed.FeedHandler,
	authHandler *user.AuthHandler,
	invitationHandler *invite.InvitationHandler,
	adminHandler *admin.AdminHandler,
	mediaHandler *media.Handler,
) *App {
	return &App{
		Config:      cfg,
		DB:          db,
		Auth:        auth,
		Feed:        feedHandler,
		AuthAPI:     authHandler,
		Invitations: invitationHandler,
		Admin:       adminHandler,
		Media:       mediaHandler,
	}
}

// newBlobStorage opens the configured blob backend. Mongo is only dialed
// when GridFS is actually selected; the cleanup disconnects it.
func newBlobStorage(cfg *config.Config) (storage.BlobStorage, func(), error) {
	if cfg.Storage.Provider != "" && cfg.Storage.Provider != "gridfs" {
		blobs, err := storage.New(cfg, nil)
		if err != nil {
			return nil, nil, err
		}
		return blobs, func() {}, nil
	}

	mongoClient, err := dbmongo.NewMongoConnection(cfg)
	if err != nil {
		return nil, nil, err
	}
	blobs, err := storage.New(cfg, mongoClient)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Close(ctx)
	}
	return blobs, cleanup, nil
}

// newFeedService wires the feed repository into the service under all three
// of its repository roles.
func newFeedService(cfg *config.Config, db *gorm.DB, blobs storage.BlobStorage) *feed.FeedService {
	repo := feed.NewFeedRepository(db)
	return feed.NewFeedService(repo, repo, repo, blobs, cfg.Storage.MediaBase)
}
