package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"

	BackendGitHub = "github"
	BackendS3     = "s3"
)

type Config struct {
	// Application
	AppEnv    string
	Port      string
	LogLevel  string
	LogFormat string
	SentryDSN string

	// Database
	DBDriver      string
	DatabaseURL   string
	MongoDatabase string
	DBMigrate     bool

	// Remote content store
	StorageBackend string
	StorageStrict  bool
	MediaFolder    string

	GitHubToken         string
	GitHubOwner         string
	GitHubRepo          string
	GitHubBranch        string
	GitHubCommitMessage string
	GitHubAPIURL        string

	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string
	S3PublicURL string

	// HTTP
	MaxUploadBytes     int64
	MaxUploadFiles     int
	CORSAllowedOrigins []string

	// Outbox relay
	KafkaBrokers    []string
	KafkaTopic      string
	OutboxInterval  time.Duration
	OutboxBatchSize int
}

// Load reads .env when present, then the process environment. Malformed values are
// reported rather than replaced by defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var errs []error
	cfg := &Config{
		AppEnv:    envString("APP_ENV", "development"),
		Port:      envString("PORT", "3000"),
		LogLevel:  envString("LOG_LEVEL", "info"),
		LogFormat: envString("LOG_FORMAT", "json"),
		SentryDSN: envString("SENTRY_DSN", ""),

		DBDriver:      strings.ToLower(envString("DB_DRIVER", DriverPostgres)),
		DatabaseURL:   envString("DATABASE_URL", ""),
		MongoDatabase: envString("MONGO_DATABASE", "athletes"),
		DBMigrate:     envBool("DB_MIGRATE", true, &errs),

		StorageBackend: strings.ToLower(envString("STORAGE_BACKEND", BackendGitHub)),
		StorageStrict:  envBool("STORAGE_STRICT", false, &errs),
		MediaFolder:    envString("MEDIA_FOLDER", "postMedia"),

		GitHubToken:         envString("GITHUB_TOKEN", ""),
		GitHubOwner:         envString("GITHUB_OWNER", "Volt-25"),
		GitHubRepo:          envString("GITHUB_REPO", "cdn"),
		GitHubBranch:        envString("GITHUB_BRANCH", "main"),
		GitHubCommitMessage: envString("GITHUB_COMMIT_MESSAGE", "Uploaded by server"),
		GitHubAPIURL:        envString("GITHUB_API_URL", ""),

		S3Region:    envString("S3_REGION", "us-east-1"),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""),
		S3PublicURL: envString("S3_PUBLIC_URL", ""),

		MaxUploadBytes:     envInt64("MAX_UPLOAD_BYTES", 50<<20, &errs),
		MaxUploadFiles:     int(envInt64("MAX_UPLOAD_FILES", 3, &errs)),
		CORSAllowedOrigins: envList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		KafkaBrokers:    envList("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaTopic:      envString("KAFKA_TOPIC", "athlete-posts"),
		OutboxInterval:  envDuration("OUTBOX_INTERVAL", time.Second, &errs),
		OutboxBatchSize: int(envInt64("OUTBOX_BATCH_SIZE", 100, &errs)),
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate checks settings the posts service needs before it accepts traffic.
func (c *Config) Validate() error {
	var errs []error

	switch c.DBDriver {
	case DriverPostgres, DriverSQLite, DriverMongo:
		if c.DatabaseURL == "" {
			errs = append(errs, fmt.Errorf("DATABASE_URL is empty (DB_DRIVER=%s)", c.DBDriver))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver))
	}

	switch c.StorageBackend {
	case BackendGitHub:
		if c.StorageStrict && c.GitHubToken == "" {
			errs = append(errs, errors.New("GITHUB_TOKEN is empty and STORAGE_STRICT is set"))
		}
	case BackendS3:
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is empty"))
		}
		if c.StorageStrict && (c.S3AccessKey == "" || c.S3SecretKey == "") {
			errs = append(errs, errors.New("S3 credentials are empty and STORAGE_STRICT is set"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend))
	}

	if c.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes))
	}
	if c.MaxUploadFiles <= 0 {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_FILES must be positive, got %d", c.MaxUploadFiles))
	}
	if strings.Trim(c.MediaFolder, "/") == "" {
		errs = append(errs, errors.New("MEDIA_FOLDER is empty"))
	}

	return errors.Join(errs...)
}

// ValidateRelay checks settings the outbox relay needs.
func (c *Config) ValidateRelay() error {
	var errs []error
	if c.DBDriver != DriverPostgres && c.DBDriver != DriverSQLite {
		errs = append(errs, fmt.Errorf("outbox relay needs a SQL DB_DRIVER, got %q", c.DBDriver))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is empty"))
	}
	if len(c.KafkaBrokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS is empty"))
	}
	if c.KafkaTopic == "" {
		errs = append(errs, errors.New("KAFKA_TOPIC is empty"))
	}
	if c.OutboxInterval <= 0 {
		errs = append(errs, fmt.Errorf("OUTBOX_INTERVAL must be positive, got %v", c.OutboxInterval))
	}
	if c.OutboxBatchSize <= 0 {
		errs = append(errs, fmt.Errorf("OUTBOX_BATCH_SIZE must be positive, got %d", c.OutboxBatchSize))
	}
	return errors.Join(errs...)
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool, errs *[]error) bool {
	v := envString(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid bool %q", key, v))
		return def
	}
	return b
}

func envInt64(key string, def int64, errs *[]error) int64 {
	v := envString(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid integer %q", key, v))
		return def
	}
	return n
}

func envDuration(key string, def time.Duration, errs *[]error) time.Duration {
	v := envString(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid duration %q", key, v))
		return def
	}
	return d
}

// envList splits a comma separated value, dropping blanks.
func envList(key string, def []string) []string {
	v := envString(key, "")
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
