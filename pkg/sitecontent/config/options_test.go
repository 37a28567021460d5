package config

import (
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got: %s", cfg.Port)
	}
	if cfg.DatabaseType != "memory" {
		t.Errorf("expected memory database, got: %s", cfg.DatabaseType)
	}
	if cfg.StorageType != "memory" {
		t.Errorf("expected memory storage, got: %s", cfg.StorageType)
	}
	if cfg.UploadURLPrefix != "/uploads" {
		t.Errorf("expected /uploads prefix, got: %s", cfg.UploadURLPrefix)
	}
}

func TestWithPort(t *testing.T) {
	cfg, err := Load(WithPort("9090"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got: %s", cfg.Port)
	}
}

func TestWithPortEmpty(t *testing.T) {
	_, err := Load(WithPort(""))
	if err == nil {
		t.Error("expected error for empty port, got nil")
	}
}

func TestWithEnvironment(t *testing.T) {
	cfg, err := Load(WithEnvironment("production"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.Environment != "production" {
		t.Errorf("expected environment production, got: %s", cfg.Environment)
	}

	if _, err := Load(WithEnvironment("staging")); err == nil {
		t.Error("expected error for unknown environment, got nil")
	}
}

func TestWithDatabase(t *testing.T) {
	tests := []struct {
		name      string
		dbType    string
		url       string
		wantError bool
	}{
		{"memory valid", "memory", "", false},
		{"postgres valid", "postgres", "postgresql://localhost/test", false},
		{"postgres missing url", "postgres", "", true},
		{"invalid type", "mysql", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(WithDatabase(tt.dbType, tt.url))
			if tt.wantError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if cfg.DatabaseType != tt.dbType {
				t.Errorf("expected database type %s, got: %s", tt.dbType, cfg.DatabaseType)
			}
		})
	}
}

func TestWithFilesystemStorage(t *testing.T) {
	cfg, err := Load(WithFilesystemStorage("/var/data/uploads", "/media"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.StorageType != "fs" {
		t.Errorf("expected fs storage, got: %s", cfg.StorageType)
	}
	if cfg.FSBaseDir != "/var/data/uploads" {
		t.Errorf("unexpected base dir: %s", cfg.FSBaseDir)
	}
	if cfg.UploadURLPrefix != "/media" {
		t.Errorf("unexpected url prefix: %s", cfg.UploadURLPrefix)
	}

	if _, err := Load(WithFilesystemStorage("", "")); err == nil {
		t.Error("expected error for empty base dir, got nil")
	}
}

func TestWithS3Storage(t *testing.T) {
	cfg, err := Load(
		WithS3Storage("site-assets", "eu-west-1"),
		WithS3Credentials("AKIA123", "secret"),
		WithS3Endpoint("http://localhost:9000", true),
	)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.StorageType != "s3" {
		t.Errorf("expected s3 storage, got: %s", cfg.StorageType)
	}
	if cfg.S3Bucket != "site-assets" || cfg.S3Region != "eu-west-1" {
		t.Errorf("unexpected bucket config: %s/%s", cfg.S3Bucket, cfg.S3Region)
	}
	if !cfg.S3UsePathStyle {
		t.Error("expected path-style addressing")
	}

	if _, err := Load(WithS3Storage("", "")); err == nil {
		t.Error("expected error for empty bucket, got nil")
	}
}

func TestWithMailgun(t *testing.T) {
	cfg, err := Load(WithMailgun("key-123", "mg.example.com", "noreply@example.com", "hello@example.com"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.MailgunAPIKey != "key-123" {
		t.Errorf("unexpected api key: %s", cfg.MailgunAPIKey)
	}

	// Incomplete mailgun config fails validation
	if _, err := Load(WithMailgun("key-123", "", "", "")); err == nil {
		t.Error("expected error for missing domain, got nil")
	}
}

func TestBuildServiceMemory(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	svc, err := cfg.BuildService()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if svc == nil {
		t.Fatal("expected a service instance")
	}
}

func TestBuildNotifierNoop(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	notifier, err := cfg.buildNotifier()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if notifier == nil {
		t.Fatal("expected a notifier instance")
	}
}
