package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStorage writes blobs to a directory on disk. The file id keeps the
// original extension so the content type can be recovered on Open.
type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

func (s *LocalStorage) Save(ctx context.Context, filename, contentType string, content io.Reader) (*MediaFile, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	fileID := hex.EncodeToString(buf) + strings.ToLower(filepath.Ext(filename))

	path := filepath.Join(s.dir, fileID)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, content)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write file: %w", err)
	}

	return &MediaFile{
		ID:          fileID,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		UploadedAt:  time.Now(),
	}, nil
}

func (s *LocalStorage) Open(ctx context.Context, fileID string) (io.ReadCloser, *MediaFile, error) {
	// fileID comes from the URL path, keep it inside the storage dir
	if strings.ContainsAny(fileID, "/\\") || strings.Contains(fileID, "..") {
		return nil, nil, fmt.Errorf("invalid file ID")
	}

	path := filepath.Join(s.dir, fileID)
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	contentType := mime.TypeByExtension(filepath.Ext(fileID))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return f, &MediaFile{
		ID:          fileID,
		Filename:    fileID,
		ContentType: contentType,
		Size:        info.Size(),
		UploadedAt:  info.ModTime(),
	}, nil
}

func (s *LocalStorage) Delete(ctx context.Context, fileID string) error {
	if strings.ContainsAny(fileID, "/\\") || strings.Contains(fileID, "..") {
		return fmt.Errorf("invalid file ID")
	}
	return os.Remove(filepath.Join(s.dir, fileID))
}

func (s *LocalStorage) Provider() string {
	return "local"
}
