package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig `json:"server"`

	// Database Configuration
	Database DatabaseConfig `json:"database"`

	// MongoDB Configuration (GridFS media storage)
	MongoDB MongoConfig `json:"mongodb"`

	// Storage Configuration
	Storage StorageConfig `json:"storage"`

	// Auth Configuration
	Auth AuthConfig `json:"auth"`

	// Logging Configuration
	Logging LoggingConfig `json:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port         string `json:"port"`
	Host         string `json:"host"`
	ReadTimeout  int    `json:"read_timeout"`
	WriteTimeout int    `json:"write_timeout"`
	Environment  string `json:"environment"` // development, staging, production
}

// DatabaseConfig contains MySQL connection configuration
type DatabaseConfig struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	DatabaseName string `json:"database_name"`
	MaxOpenConns int    `json:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns"`
}

// MongoConfig contains MongoDB connection configuration
type MongoConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Database string `json:"database"`
}

// StorageConfig selects the media blob backend
type StorageConfig struct {
	Provider  string `json:"provider"` // gridfs, local, s3
	LocalDir  string `json:"local_dir"`
	S3Region  string `json:"s3_region"`
	S3Bucket  string `json:"s3_bucket"`
	MediaBase string `json:"media_base"` // public URL prefix for media files
}

// AuthConfig contains JWT signing configuration
type AuthConfig struct {
	AccessSecret   string `json:"-"`
	RefreshSecret  string `json:"-"`
	AccessTTLMins  int    `json:"access_ttl_mins"`
	RefreshTTLDays int    `json:"refresh_ttl_days"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
}

// LoadConfig reads .env (if present) and builds the config from environment
// variables with development defaults.
func LoadConfig() *Config {
	_ = godotenv.Load() // missing .env is fine, env vars still apply

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", ""),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 30),
			Environment:  getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("MYSQL_HOST", "localhost"),
			Port:         getEnv("MYSQL_PORT", "3306"),
			Username:     getEnv("MYSQL_USER", "famshare"),
			Password:     getEnv("MYSQL_PASSWORD", "famshare123"),
			DatabaseName: getEnv("MYSQL_DATABASE", "famshare"),
			MaxOpenConns: getEnvInt("MYSQL_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("MYSQL_MAX_IDLE_CONNS", 5),
		},
		MongoDB: MongoConfig{
			Host:     getEnv("MONGO_HOST", "localhost"),
			Port:     getEnv("MONGO_PORT", "27017"),
			Username: getEnv("MONGO_USER", "admin"),
			Password: getEnv("MONGO_PASSWORD", "admin123"),
			Database: getEnv("MONGO_DATABASE", "famshare"),
		},
		Storage: StorageConfig{
			Provider:  getEnv("STORAGE_PROVIDER", "gridfs"),
			LocalDir:  getEnv("STORAGE_LOCAL_DIR", "uploads"),
			S3Region:  getEnv("STORAGE_S3_REGION", "us-east-1"),
			S3Bucket:  getEnv("STORAGE_S3_BUCKET", ""),
			MediaBase: getEnv("MEDIA_BASE_URL", "/media/"),
		},
		Auth: AuthConfig{
			AccessSecret:   getEnv("JWT_ACCESS_SECRET", "dev-access-secret"),
			RefreshSecret:  getEnv("JWT_REFRESH_SECRET", "dev-refresh-secret"),
			AccessTTLMins:  getEnvInt("JWT_ACCESS_TTL_MINS", 15),
			RefreshTTLDays: getEnvInt("JWT_REFRESH_TTL_DAYS", 7),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

// DSN builds the MySQL connection string
func (cfg *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

// GetMongoURI builds the MongoDB connection string
func (cfg *Config) GetMongoURI() string {
	if cfg.MongoDB.Username == "" {
		return fmt.Sprintf("mongodb://%s:%s", cfg.MongoDB.Host, cfg.MongoDB.Port)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%s",
		cfg.MongoDB.Username,
		cfg.MongoDB.Password,
		cfg.MongoDB.Host,
		cfg.MongoDB.Port,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
