package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corpsite/sitecontent/pkg/sitecontent"
	"github.com/corpsite/sitecontent/pkg/sitecontent/notify/mailgun"
	repomem "github.com/corpsite/sitecontent/pkg/sitecontent/repo/memory"
	repopg "github.com/corpsite/sitecontent/pkg/sitecontent/repo/postgres"
	fsstorage "github.com/corpsite/sitecontent/pkg/sitecontent/storage/fs"
	memorystorage "github.com/corpsite/sitecontent/pkg/sitecontent/storage/memory"
	s3storage "github.com/corpsite/sitecontent/pkg/sitecontent/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults.
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
		Port:            "8080",
		Environment:     "development",
		DatabaseType:    "memory",
		StorageType:     "memory",
		FSBaseDir:       "./data/uploads",
		UploadURLPrefix: "/uploads",
		S3Region:        "us-east-1",
	}
}

// ServerConfig represents server configuration for the site content service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"

	// Storage configuration
	StorageType     string // "memory", "fs", "s3"
	FSBaseDir       string
	UploadURLPrefix string
	S3Region        string
	S3Bucket        string
	S3AccessKeyID   string
	S3SecretKey     string
	S3Endpoint      string
	S3UsePathStyle  bool
	S3CreateBucket  bool

	// Contact notification (noop when APIKey is empty)
	MailgunAPIKey  string
	MailgunDomain  string
	MailgunBaseURL string
	ContactFrom    string
	ContactTo      string

	// HTTP surface
	JWTSecret      string
	AllowedOrigins []string
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

	switch c.StorageType {
	case "memory":
	case "fs":
		if c.FSBaseDir == "" {
			return errors.New("fs_base_dir is required when using fs storage")
		}
	case "s3":
		if c.S3Bucket == "" {
			return errors.New("s3_bucket is required when using s3 storage")
		}
	default:
		return errors.New("storage_type must be 'memory', 'fs' or 's3'")
	}

	if c.MailgunAPIKey != "" {
		if c.MailgunDomain == "" {
			return errors.New("mailgun_domain is required when mailgun is enabled")
		}
		if c.ContactTo == "" {
			return errors.New("contact_to is required when mailgun is enabled")
		}
	}

	return nil
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService() (sitecontent.Service, error) {
	repo, err := c.buildRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	blobs, err := c.buildBlobStore()
	if err != nil {
		return nil, fmt.Errorf("failed to build blob store: %w", err)
	}
	assets := sitecontent.NewAssetStore(blobs, sitecontent.AssetStoreConfig{
		URLPrefix: c.UploadURLPrefix,
	})

	notifier, err := c.buildNotifier()
	if err != nil {
		return nil, fmt.Errorf("failed to build notifier: %w", err)
	}

	return sitecontent.New(
		sitecontent.WithRepository(repo),
		sitecontent.WithAssetStore(assets),
		sitecontent.WithNotifier(notifier),
	)
}

// buildRepository creates a Repository based on the configuration
func (c *ServerConfig) buildRepository() (sitecontent.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		return repomem.New(), nil
	case "postgres":
		pool, err := newPool(c.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return repopg.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// buildBlobStore creates a BlobStore based on the configuration
func (c *ServerConfig) buildBlobStore() (sitecontent.BlobStore, error) {
	switch c.StorageType {
	case "memory":
		return memorystorage.New(), nil
	case "fs":
		return fsstorage.New(fsstorage.Config{BaseDir: c.FSBaseDir})
	case "s3":
		return s3storage.New(s3storage.Config{
			Region:                 c.S3Region,
			Bucket:                 c.S3Bucket,
			AccessKeyID:            c.S3AccessKeyID,
			SecretAccessKey:        c.S3SecretKey,
			Endpoint:               c.S3Endpoint,
			UsePathStyle:           c.S3UsePathStyle,
			CreateBucketIfNotExist: c.S3CreateBucket,
		})
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", c.StorageType)
	}
}

// buildNotifier creates the contact notifier. Without Mailgun credentials
// submissions are logged and dropped.
func (c *ServerConfig) buildNotifier() (sitecontent.Notifier, error) {
	if c.MailgunAPIKey == "" {
		return sitecontent.NewNoopNotifier(), nil
	}
	return mailgun.New(mailgun.Config{
		APIKey:  c.MailgunAPIKey,
		Domain:  c.MailgunDomain,
		BaseURL: c.MailgunBaseURL,
		From:    c.ContactFrom,
		To:      c.ContactTo,
	})
}

func newPool(databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	return pool, nil
}

// PingPostgres verifies connectivity to Postgres before the server starts
func PingPostgres(databaseURL string) error {
	if databaseURL == "" {
		return errors.New("database_url is required")
	}
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse DATABASE_URL: %w", err)
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
