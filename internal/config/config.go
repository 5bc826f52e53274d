package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	StorageLocal = "local"
	StorageMinIO = "minio"
)

// DatabaseConfig holds relational store settings. Connection fields are only
// required for the driver that uses them.
type DatabaseConfig struct {
	Driver             string `validate:"oneof=postgres sqlite"`
	Host               string `validate:"required_if=Driver postgres"`
	Port               string `validate:"required_if=Driver postgres"`
	User               string `validate:"required_if=Driver postgres"`
	Password           string
	Name               string `validate:"required_if=Driver postgres"`
	SSLMode            string
	SQLitePath         string `validate:"required_if=Driver sqlite"`
	MaxOpenConns       int    `validate:"gte=0"`
	MaxIdleConns       int    `validate:"gte=0"`
	ConnMaxLifetimeSec int    `validate:"gte=0"`
	AutoMigrate        bool
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string `validate:"required"`
	AccessKey string `validate:"required"`
	SecretKey string `validate:"required"`
	Bucket    string `validate:"required"`
	UseSSL    bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port               string `validate:"required"`
	UploadDir          string `validate:"required"`
	MaxUploadBytes     int64  `validate:"gt=0"`
	StorageBackend     string `validate:"oneof=local minio"`
	StrictErrors       bool
	LogLevel           string
	ShutdownTimeoutSec int `validate:"gt=0"`
	Database           DatabaseConfig
	MinIO              MinIOConfig `validate:"-"`
}

var validate = validator.New()

var defaults = map[string]any{
	"PORT":                     "3000",
	"UPLOAD_PATH":              "uploads",
	"UPLOAD_MAX_BYTES":         5000000,
	"STORAGE_BACKEND":          StorageLocal,
	"HTTP_STRICT_ERRORS":       false,
	"LOG_LEVEL":                "info",
	"SHUTDOWN_TIMEOUT_SEC":     10,
	"DB_DRIVER":                DriverPostgres,
	"DB_PORT":                  "5432",
	"DB_SSLMODE":               "disable",
	"DB_SQLITE_PATH":           "textapi.db",
	"DB_MAX_OPEN_CONNS":        10,
	"DB_MAX_IDLE_CONNS":        5,
	"DB_CONN_MAX_LIFETIME_SEC": 300,
	"DB_AUTO_MIGRATE":          true,
	"MINIO_USE_SSL":            false,
}

// Load reads configuration from environment variables and validates it.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Empty variables are treated as unset and fall back to their defaults.
func Load() (*AppConfig, error) {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	cfg := &AppConfig{
		Port:               v.GetString("PORT"),
		UploadDir:          v.GetString("UPLOAD_PATH"),
		MaxUploadBytes:     v.GetInt64("UPLOAD_MAX_BYTES"),
		StorageBackend:     v.GetString("STORAGE_BACKEND"),
		StrictErrors:       v.GetBool("HTTP_STRICT_ERRORS"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		ShutdownTimeoutSec: v.GetInt("SHUTDOWN_TIMEOUT_SEC"),
		Database: DatabaseConfig{
			Driver:             v.GetString("DB_DRIVER"),
			Host:               v.GetString("DB_HOST"),
			Port:               v.GetString("DB_PORT"),
			User:               v.GetString("DB_USER"),
			Password:           v.GetString("DB_PASSWORD"),
			Name:               v.GetString("DB_NAME"),
			SSLMode:            v.GetString("DB_SSLMODE"),
			SQLitePath:         v.GetString("DB_SQLITE_PATH"),
			MaxOpenConns:       v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:       v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetimeSec: v.GetInt("DB_CONN_MAX_LIFETIME_SEC"),
			AutoMigrate:        v.GetBool("DB_AUTO_MIGRATE"),
		},
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
		},
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cfg for missing or out-of-range values. MinIO settings are
// only checked when MinIO is the selected storage backend.
func Validate(cfg *AppConfig) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.StorageBackend == StorageMinIO {
		if err := validate.Struct(cfg.MinIO); err != nil {
			return fmt.Errorf("invalid minio configuration: %w", err)
		}
	}
	return nil
}
