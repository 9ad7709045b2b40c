// Package storage abstracts where media bytes live. The metadata row in
// MySQL (dbmysql.MediaAsset) always exists; only the blob backend varies.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"famshare/internal/config"
	"famshare/internal/dbmongo"
)

// MediaFile describes a stored blob.
type MediaFile struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// BlobStorage is the media blob backend.
type BlobStorage interface {
	Save(ctx context.Context, filename, contentType string, content io.Reader) (*MediaFile, error)
	Open(ctx context.Context, fileID string) (io.ReadCloser, *MediaFile, error)
	Delete(ctx context.Context, fileID string) error
	Provider() string
}

// New selects the backend from config. GridFS is the default; the Mongo
// client may be nil for the local and s3 providers.
func New(cfg *config.Config, mongoClient *dbmongo.MongoClient) (BlobStorage, error) {
	switch cfg.Storage.Provider {
	case "", "gridfs":
		if mongoClient == nil {
			return nil, fmt.Errorf("gridfs storage requires a mongo connection")
		}
		return NewGridFSStorage(mongoClient), nil
	case "local":
		return NewLocalStorage(cfg.Storage.LocalDir)
	case "s3":
		return NewS3Storage(cfg.Storage.S3Region, cfg.Storage.S3Bucket)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Storage.Provider)
	}
}
