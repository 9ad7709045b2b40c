package storage

import (
	"context"
	"io"

	"famshare/internal/dbmongo"
)

// GridFSStorage stores blobs in MongoDB GridFS.
type GridFSStorage struct {
	media *dbmongo.MediaStorage
}

func NewGridFSStorage(mongoClient *dbmongo.MongoClient) *GridFSStorage {
	return &GridFSStorage{media: dbmongo.NewMediaStorage(mongoClient)}
}

func (s *GridFSStorage) Save(ctx context.Context, filename, contentType string, content io.Reader) (*MediaFile, error) {
	stored, err := s.media.UploadFile(ctx, filename, contentType, content)
	if err != nil {
		return nil, err
	}
	return fromStored(stored), nil
}

func (s *GridFSStorage) Open(ctx context.Context, fileID string) (io.ReadCloser, *MediaFile, error) {
	stream, stored, err := s.media.DownloadFile(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}
	return stream, fromStored(stored), nil
}

func (s *GridFSStorage) Delete(ctx context.Context, fileID string) error {
	return s.media.DeleteFile(ctx, fileID)
}

func (s *GridFSStorage) Provider() string {
	return "gridfs"
}

func fromStored(f *dbmongo.StoredFile) *MediaFile {
	return &MediaFile{
		ID:          f.ID,
		Filename:    f.Filename,
		ContentType: f.ContentType,
		Size:        f.Size,
		UploadedAt:  f.UploadedAt,
	}
}
