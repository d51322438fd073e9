package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the service configuration read from the environment.
type Config struct {
	Port        string
	Environment string
	ServiceName string

	Database DatabaseConfig
	Storage  StorageConfig
	Audit    AuditConfig

	PasswordHasher string
	OTLPEndpoint   string
}

// DatabaseConfig configures the shared relational store.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

// StorageConfig configures the S3-compatible object store used for uploads.
type StorageConfig struct {
	Endpoint       string
	Region         string
	Bucket         string
	AccessKey      string
	SecretKey      string
	KeyPrefix      string
	PublicBase     string
	MaxUploadBytes int64
}

// AuditConfig configures the audit event publisher.
type AuditConfig struct {
	AMQPURL    string
	Exchange   string
	RoutingKey string
}

// Load reads the configuration, loading a .env file first when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	dsn := getEnv("DATABASE_URL", getEnv("DB_DSN", ""))
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	accessKey := getEnv("AWS_ACCESS_KEY_ID", "")
	publicBase := getEnv("S3_PUBLIC_BASE", "")
	if publicBase == "" {
		publicBase = fmt.Sprintf("https://cdn.poehali.dev/projects/%s/bucket", accessKey)
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("APP_ENV", "development"),
		ServiceName: getEnv("SERVICE_NAME", "messenger-service"),
		Database: DatabaseConfig{
			URL:             dsn,
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: time.Duration(getEnvAsInt("DB_CONN_MAX_LIFETIME_MIN", 60)) * time.Minute,
			AutoMigrate:     getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Storage: StorageConfig{
			Endpoint:       getEnv("S3_ENDPOINT", "https://bucket.poehali.dev"),
			Region:         getEnv("S3_REGION", "us-east-1"),
			Bucket:         getEnv("S3_BUCKET", "files"),
			AccessKey:      accessKey,
			SecretKey:      getEnv("AWS_SECRET_ACCESS_KEY", ""),
			KeyPrefix:      getEnv("S3_KEY_PREFIX", "moonly"),
			PublicBase:     strings.TrimRight(publicBase, "/"),
			MaxUploadBytes: int64(getEnvAsInt("MAX_UPLOAD_BYTES", 20<<20)),
		},
		Audit: AuditConfig{
			AMQPURL:    getEnv("AMQP_URL", ""),
			Exchange:   getEnv("AMQP_EXCHANGE", "audit"),
			RoutingKey: getEnv("AUDIT_ROUTING_KEY", "audit.messenger"),
		},
		PasswordHasher: getEnv("PASSWORD_HASHER", "bcrypt"),
		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}, nil
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
