package dbmysql

import (
	"time"
)

type MediaAsset struct {
	MediaID         uint64    `gorm:"primaryKey;autoIncrement;column:media_id" json:"id"`
	FileID          string    `gorm:"column:file_id;size:64;uniqueIndex" json:"file_id"` // blob storage key
	OriginalURL     string    `gorm:"column:original_url;size:500" json:"original_url"`
	ThumbnailURL    string    `gorm:"column:thumbnail_url;size:500" json:"thumbnail_url"`
	Width           int       `gorm:"column:width" json:"width"`
	Height          int       `gorm:"column:height" json:"height"`
	ByteSize        int64     `gorm:"column:byte_size" json:"byte_size"`
	Status          string    `gorm:"column:status;size:20;default:'READY'" json:"status"`
	StorageProvider string    `gorm:"column:storage_provider;size:20" json:"storage_provider"` // gridfs, local, s3
	UploadedBy      uint64    `gorm:"column:uploaded_by;index" json:"uploaded_by"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (MediaAsset) TableName() string {
	return "media_assets"
}
