package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/resource-hub/pkg/resourcehub"
	repomemory "github.com/tendant/resource-hub/pkg/resourcehub/repo/memory"
	repopg "github.com/tendant/resource-hub/pkg/resourcehub/repo/postgres"
	vaultmemory "github.com/tendant/resource-hub/pkg/resourcehub/vault/memory"
	vaults3 "github.com/tendant/resource-hub/pkg/resourcehub/vault/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:              "8080",
		Environment:       "development",
		DatabaseType:      "memory",
		DBSchema:          "resourcehub",
		VaultBackend:      "memory",
		MaxAttachmentSize: resourcehub.DefaultMaxAttachmentSize,
		SignedURLTTL:      15 * time.Minute,
		FeedWorkers:       resourcehub.DefaultFeedWorkers,
		JWTSecret:         "dev-secret",
		LogLevel:          "info",
		LogFormat:         "console",
	}
}

// ServerConfig represents server configuration for the resource hub service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"
	DBSchema     string // Postgres schema to use (default: resourcehub)

	// Vault configuration
	VaultBackend string // "memory", "s3"
	S3           S3Config

	// Service options
	MaxAttachmentSize int64
	SignedURLTTL      time.Duration
	FeedWorkers       int

	// Auth
	JWTSecret string

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // console, json
}

// S3Config holds the S3-compatible vault backend settings
type S3Config struct {
	Region                 string
	Bucket                 string
	AccessKeyID            string
	SecretAccessKey        string
	Endpoint               string
	UsePathStyle           bool
	CreateBucketIfNotExist bool
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}

	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	if c.VaultBackend != "memory" && c.VaultBackend != "s3" {
		return errors.New("vault_backend must be 'memory' or 's3'")
	}

	if c.VaultBackend == "s3" && c.S3.Bucket == "" {
		return errors.New("s3 bucket is required when using the s3 vault")
	}

	if c.MaxAttachmentSize <= 0 {
		return errors.New("max_attachment_size must be positive")
	}

	if c.Environment == "production" && (c.JWTSecret == "" || c.JWTSecret == "dev-secret") {
		return errors.New("a real jwt_secret is required in production")
	}

	return nil
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService() (resourcehub.Service, error) {
	repo, err := c.buildRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	vault, err := c.buildVault()
	if err != nil {
		return nil, fmt.Errorf("failed to build vault: %w", err)
	}

	return resourcehub.New(
		resourcehub.WithRepository(repo),
		resourcehub.WithVault(vault),
		resourcehub.WithMaxAttachmentSize(c.MaxAttachmentSize),
		resourcehub.WithFeedWorkers(c.FeedWorkers),
	)
}

// buildRepository creates a Repository based on the configuration
func (c *ServerConfig) buildRepository() (resourcehub.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		return repomemory.New(), nil
	case "postgres":
		if c.DatabaseURL == "" {
			return nil, errors.New("database_url is required for postgres")
		}
		cfg, err := pgxpool.ParseConfig(c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
		}
		// Optionally set search_path for the connection
		schema := c.DBSchema
		cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			if schema == "" {
				return nil
			}
			_, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s", schema))
			return err
		}
		pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		return repopg.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// buildVault creates a Vault based on the configuration
func (c *ServerConfig) buildVault() (resourcehub.Vault, error) {
	switch c.VaultBackend {
	case "memory":
		return vaultmemory.NewWithTTL(c.SignedURLTTL), nil
	case "s3":
		return vaults3.New(vaults3.Config{
			Region:                 c.S3.Region,
			Bucket:                 c.S3.Bucket,
			AccessKeyID:            c.S3.AccessKeyID,
			SecretAccessKey:        c.S3.SecretAccessKey,
			Endpoint:               c.S3.Endpoint,
			UsePathStyle:           c.S3.UsePathStyle,
			PresignDuration:        int(c.SignedURLTTL / time.Second),
			CreateBucketIfNotExist: c.S3.CreateBucketIfNotExist,
		})
	default:
		return nil, fmt.Errorf("unsupported vault backend: %s", c.VaultBackend)
	}
}

// PingPostgres verifies connectivity to Postgres and optionally sets search_path for the session.
// It fails if the schema (when provided) does not exist.
func PingPostgres(databaseURL, schema string) error {
	if databaseURL == "" {
		return errors.New("database_url is required")
	}
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}
	if schema != "" {
		cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			_, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s", schema))
			return err
		}
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool: %w", err)
	}
	defer pool.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
