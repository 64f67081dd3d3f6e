package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// envConfig is the flat environment surface read by cleanenv.
type envConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	DatabaseURL string `env:"DATABASE_URL" env-default:""`
	DBSchema    string `env:"DB_SCHEMA" env-default:"resourcehub"`

	MaxAttachmentSize int64  `env:"MAX_ATTACHMENT_SIZE" env-default:"5000000"`
	SignedURLTTL      string `env:"SIGNED_URL_TTL" env-default:"15m"`
	FeedWorkers       int    `env:"FEED_WORKERS" env-default:"8"`

	JWTSecret string `env:"JWT_SECRET" env-default:""`

	S3Bucket          string `env:"S3_BUCKET" env-default:""`
	S3Region          string `env:"S3_REGION" env-default:"us-east-1"`
	S3Endpoint        string `env:"S3_ENDPOINT" env-default:""`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`
	S3UsePathStyle    bool   `env:"S3_USE_PATH_STYLE" env-default:"false"`
	S3CreateBucket    bool   `env:"S3_CREATE_BUCKET" env-default:"false"`

	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `env:"LOG_FORMAT" env-default:"console"`
}

// WithEnv applies environment variable overrides.
//
// DATABASE_URL selects the repository: empty or "memory" keeps the
// in-memory store, a postgres:// or postgresql:// URL switches to
// Postgres. S3_BUCKET likewise switches the vault from memory to S3.
func WithEnv() Option {
	return func(c *ServerConfig) error {
		var env envConfig
		if err := cleanenv.ReadEnv(&env); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}

		c.Port = env.Port
		c.Environment = env.Environment
		c.DBSchema = env.DBSchema
		c.MaxAttachmentSize = env.MaxAttachmentSize
		c.FeedWorkers = env.FeedWorkers
		c.LogLevel = env.LogLevel
		c.LogFormat = env.LogFormat

		if env.JWTSecret != "" {
			c.JWTSecret = env.JWTSecret
		}

		ttl, err := time.ParseDuration(env.SignedURLTTL)
		if err != nil {
			return fmt.Errorf("invalid SIGNED_URL_TTL: %w", err)
		}
		c.SignedURLTTL = ttl

		if err := applyDatabaseEnv(env, c); err != nil {
			return err
		}
		applyVaultEnv(env, c)

		return nil
	}
}

// applyDatabaseEnv auto-detects the database type from DATABASE_URL
func applyDatabaseEnv(env envConfig, c *ServerConfig) error {
	dbURL := env.DatabaseURL

	if dbURL == "" || dbURL == "memory" {
		c.DatabaseType = "memory"
		c.DatabaseURL = ""
		return nil
	}

	if strings.HasPrefix(dbURL, "postgresql://") || strings.HasPrefix(dbURL, "postgres://") {
		c.DatabaseType = "postgres"
		c.DatabaseURL = dbURL
		return nil
	}

	return fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory' or 'postgresql://...')", dbURL)
}

// applyVaultEnv switches the vault to S3 when a bucket is configured
func applyVaultEnv(env envConfig, c *ServerConfig) {
	if env.S3Bucket == "" {
		c.VaultBackend = "memory"
		return
	}

	c.VaultBackend = "s3"
	c.S3 = S3Config{
		Region:                 env.S3Region,
		Bucket:                 env.S3Bucket,
		AccessKeyID:            env.S3AccessKeyID,
		SecretAccessKey:        env.S3SecretAccessKey,
		Endpoint:               env.S3Endpoint,
		UsePathStyle:           env.S3UsePathStyle,
		CreateBucketIfNotExist: env.S3CreateBucket,
	}
}
