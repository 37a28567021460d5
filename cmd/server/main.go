package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/corpsite/sitecontent/pkg/sitecontent/api"
	"github.com/corpsite/sitecontent/pkg/sitecontent/config"
)

type envConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	DatabaseURL string `env:"DATABASE_URL" env-default:""`

	StorageType     string `env:"STORAGE_TYPE" env-default:"fs"`
	FSBaseDir       string `env:"FS_BASE_DIR" env-default:"./data/uploads"`
	UploadURLPrefix string `env:"UPLOAD_URL_PREFIX" env-default:"/uploads"`

	S3Region       string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	S3Bucket       string `env:"AWS_S3_BUCKET" env-default:""`
	S3AccessKeyID  string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	S3SecretKey    string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`
	S3Endpoint     string `env:"AWS_S3_ENDPOINT" env-default:""`
	S3UsePathStyle bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"false"`

	MailgunAPIKey  string `env:"MAILGUN_API_KEY" env-default:""`
	MailgunDomain  string `env:"MAILGUN_DOMAIN" env-default:""`
	MailgunBaseURL string `env:"MAILGUN_BASE_URL" env-default:""`
	ContactFrom    string `env:"CONTACT_FROM" env-default:""`
	ContactTo      string `env:"CONTACT_TO" env-default:""`

	JWTSecret      string `env:"JWT_SECRET" env-default:""`
	AllowedOrigins string `env:"ALLOWED_ORIGINS" env-default:""`
}

func (e envConfig) options() []config.Option {
	opts := []config.Option{
		config.WithPort(e.Port),
		config.WithEnvironment(e.Environment),
	}

	if e.DatabaseURL != "" {
		opts = append(opts, config.WithDatabase("postgres", e.DatabaseURL))
	}

	switch e.StorageType {
	case "memory":
		opts = append(opts, config.WithMemoryStorage())
	case "s3":
		opts = append(opts,
			config.WithS3Storage(e.S3Bucket, e.S3Region),
			config.WithS3Credentials(e.S3AccessKeyID, e.S3SecretKey),
			config.WithS3Endpoint(e.S3Endpoint, e.S3UsePathStyle),
		)
	default:
		opts = append(opts, config.WithFilesystemStorage(e.FSBaseDir, e.UploadURLPrefix))
	}

	if e.MailgunAPIKey != "" {
		opts = append(opts, config.WithMailgun(e.MailgunAPIKey, e.MailgunDomain, e.ContactFrom, e.ContactTo))
		if e.MailgunBaseURL != "" {
			opts = append(opts, config.WithMailgunBaseURL(e.MailgunBaseURL))
		}
	}

	if e.JWTSecret != "" {
		opts = append(opts, config.WithJWTSecret(e.JWTSecret))
	}
	if e.AllowedOrigins != "" {
		opts = append(opts, config.WithAllowedOrigins(strings.Split(e.AllowedOrigins, ",")...))
	}

	return opts
}

func main() {
	var env envConfig
	if err := cleanenv.ReadEnv(&env); err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}

	cfg, err := config.Load(env.options()...)
	if err != nil {
		slog.Error("Invalid configuration", "err", err)
		os.Exit(1)
	}

	if cfg.DatabaseType == "postgres" {
		if err := config.PingPostgres(cfg.DatabaseURL); err != nil {
			slog.Error("Failed to connect to database", "err", err)
			os.Exit(1)
		}
	}

	svc, err := cfg.BuildService()
	if err != nil {
		slog.Error("Failed to build service", "err", err)
		os.Exit(1)
	}

	routerCfg := api.RouterConfig{
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.AllowedOrigins,
	}
	if cfg.StorageType == "fs" {
		routerCfg.UploadsDir = cfg.FSBaseDir
	}
	handler := api.NewRouter(svc, routerCfg)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", "err", err)
	}
}
