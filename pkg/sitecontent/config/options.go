package config

import "errors"

// WithPort sets the HTTP listen port.
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return errors.New("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the runtime environment.
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		if env != "development" && env != "production" && env != "testing" {
			return errors.New("environment must be development, production or testing")
		}
		c.Environment = env
		return nil
	}
}

// WithDatabase configures the repository backend.
func WithDatabase(dbType, url string) Option {
	return func(c *ServerConfig) error {
		if dbType != "memory" && dbType != "postgres" {
			return errors.New("database type must be 'memory' or 'postgres'")
		}
		c.DatabaseType = dbType
		c.DatabaseURL = url
		return nil
	}
}

// WithMemoryStorage keeps uploaded assets in process memory.
func WithMemoryStorage() Option {
	return func(c *ServerConfig) error {
		c.StorageType = "memory"
		return nil
	}
}

// WithFilesystemStorage stores uploaded assets under baseDir and serves
// them under urlPrefix.
func WithFilesystemStorage(baseDir, urlPrefix string) Option {
	return func(c *ServerConfig) error {
		if baseDir == "" {
			return errors.New("base dir cannot be empty")
		}
		c.StorageType = "fs"
		c.FSBaseDir = baseDir
		if urlPrefix != "" {
			c.UploadURLPrefix = urlPrefix
		}
		return nil
	}
}

// WithS3Storage stores uploaded assets in an S3 bucket.
func WithS3Storage(bucket, region string) Option {
	return func(c *ServerConfig) error {
		if bucket == "" {
			return errors.New("bucket cannot be empty")
		}
		c.StorageType = "s3"
		c.S3Bucket = bucket
		if region != "" {
			c.S3Region = region
		}
		return nil
	}
}

// WithS3Credentials sets static S3 credentials.
func WithS3Credentials(accessKeyID, secretAccessKey string) Option {
	return func(c *ServerConfig) error {
		c.S3AccessKeyID = accessKeyID
		c.S3SecretKey = secretAccessKey
		return nil
	}
}

// WithS3Endpoint points the S3 client at a custom endpoint, e.g. MinIO.
func WithS3Endpoint(endpoint string, usePathStyle bool) Option {
	return func(c *ServerConfig) error {
		c.S3Endpoint = endpoint
		c.S3UsePathStyle = usePathStyle
		return nil
	}
}

// WithMailgun enables contact delivery through Mailgun.
func WithMailgun(apiKey, domain, from, to string) Option {
	return func(c *ServerConfig) error {
		if apiKey == "" {
			return errors.New("api key cannot be empty")
		}
		c.MailgunAPIKey = apiKey
		c.MailgunDomain = domain
		c.ContactFrom = from
		c.ContactTo = to
		return nil
	}
}

// WithMailgunBaseURL overrides the Mailgun API base URL, e.g. for the
// US region endpoint.
func WithMailgunBaseURL(baseURL string) Option {
	return func(c *ServerConfig) error {
		c.MailgunBaseURL = baseURL
		return nil
	}
}

// WithJWTSecret enables the admin API behind JWT auth.
func WithJWTSecret(secret string) Option {
	return func(c *ServerConfig) error {
		c.JWTSecret = secret
		return nil
	}
}

// WithAllowedOrigins restricts CORS to the given origins.
func WithAllowedOrigins(origins ...string) Option {
	return func(c *ServerConfig) error {
		c.AllowedOrigins = origins
		return nil
	}
}
