package storage

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Storage stores blobs in an S3 bucket.
type S3Storage struct {
	s3     *s3.S3
	bucket string
}

func NewS3Storage(region, bucket string) (*S3Storage, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 storage requires STORAGE_S3_BUCKET")
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, err
	}

	return &S3Storage{
		s3:     s3.New(sess),
		bucket: bucket,
	}, nil
}

func (s *S3Storage) Save(ctx context.Context, filename, contentType string, content io.Reader) (*MediaFile, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	fileID := hex.EncodeToString(buf) + strings.ToLower(filepath.Ext(filename))

	// PutObject needs a ReadSeeker, buffer the upload
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}

	_, err = s.s3.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(fileID),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return nil, err
	}

	return &MediaFile{
		ID:          fileID,
		Filename:    filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		UploadedAt:  time.Now(),
	}, nil
}

func (s *S3Storage) Open(ctx context.Context, fileID string) (io.ReadCloser, *MediaFile, error) {
	out, err := s.s3.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fileID),
	})
	if err != nil {
		return nil, nil, err
	}

	media := &MediaFile{
		ID:          fileID,
		Filename:    fileID,
		ContentType: aws.StringValue(out.ContentType),
		Size:        aws.Int64Value(out.ContentLength),
	}
	if out.LastModified != nil {
		media.UploadedAt = *out.LastModified
	}

	return out.Body, media, nil
}

func (s *S3Storage) Delete(ctx context.Context, fileID string) error {
	_, err := s.s3.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fileID),
	})
	return err
}

func (s *S3Storage) Provider() string {
	return "s3"
}
