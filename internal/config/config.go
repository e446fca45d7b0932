package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	GRPC      GRPCConfig
	Auth      AuthConfig
	Retry     RetryConfig
	Blob      BlobConfig
	Import    ImportConfig
	Reconcile ReconcileConfig
}

// AppConfig selects the runtime environment ("production" or "development").
type AppConfig struct {
	Env string
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Path      string        // SQLite database file path
	OpTimeout time.Duration // bound on every store call
}

// GRPCConfig contains gRPC server settings.
type GRPCConfig struct {
	Address        string  // gRPC server listen address (e.g., ":50051")
	RateLimitRPS   float64 // per-principal request rate; 0 disables limiting
	RateLimitBurst int
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret string // JWT signing secret
}

// RetryConfig bounds retries of transient store failures.
type RetryConfig struct {
	MaxAttempts int
}

// BlobConfig selects where proof-of-delivery images are stored.
type BlobConfig struct {
	Backend         string // "s3" or "local"
	S3Bucket        string
	AWSRegion       string
	S3Endpoint      string // optional, e.g. LocalStack
	S3PublicBaseURL string
	LocalDir        string
	LocalBaseURL    string
}

// ImportConfig controls spreadsheet import.
type ImportConfig struct {
	Strict bool
}

// ReconcileConfig controls the orphaned asset collector.
type ReconcileConfig struct {
	Interval time.Duration // 0 disables the background loop
	Grace    time.Duration // minimum age of an unlinked asset before it is collected
}

// LoadDotEnv loads variables from the given .env files (default ".env") without
// overriding the environment. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load loads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg, err := load("")
	if err != nil {
		return nil, err
	}
	// Validate critical settings
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set; required for production")
	}
	return cfg, nil
}

// LoadWithDefaults is like Load but uses a safe default for JWT_SECRET in development.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults() (*Config, error) {
	return load("dev-secret-change-me")
}

func load(defaultSecret string) (*Config, error) {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	opTimeout, err := getEnvDuration("DB_OP_TIMEOUT", 3*time.Second)
	collect(err)
	attempts, err := getEnvInt("RETRY_MAX_ATTEMPTS", 3)
	collect(err)
	rps, err := getEnvFloat("RATE_LIMIT_RPS", 20)
	collect(err)
	burst, err := getEnvInt("RATE_LIMIT_BURST", 40)
	collect(err)
	strict, err := getEnvBool("IMPORT_STRICT", false)
	collect(err)
	interval, err := getEnvDuration("RECONCILE_INTERVAL", 15*time.Minute)
	collect(err)
	grace, err := getEnvDuration("RECONCILE_GRACE", time.Hour)
	collect(err)

	cfg := &Config{
		App: AppConfig{
			Env: getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Path:      getEnv("DB_PATH", "app.db"),
			OpTimeout: opTimeout,
		},
		GRPC: GRPCConfig{
			Address:        getEnv("GRPC_ADDRESS", ":50051"),
			RateLimitRPS:   rps,
			RateLimitBurst: burst,
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", defaultSecret),
		},
		Retry: RetryConfig{
			MaxAttempts: attempts,
		},
		Blob: BlobConfig{
			Backend:         getEnv("BLOB_BACKEND", "local"),
			S3Bucket:        getEnv("S3_BUCKET", ""),
			AWSRegion:       getEnv("AWS_REGION", "ap-south-1"),
			S3Endpoint:      getEnv("AWS_S3_ENDPOINT", ""),
			S3PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),
			LocalDir:        getEnv("LOCAL_BLOB_DIR", "blobs"),
			LocalBaseURL:    getEnv("LOCAL_BLOB_BASE_URL", "http://localhost:8081/blobs"),
		},
		Import: ImportConfig{
			Strict: strict,
		},
		Reconcile: ReconcileConfig{
			Interval: interval,
			Grace:    grace,
		},
	}

	switch cfg.Blob.Backend {
	case "local":
	case "s3":
		if cfg.Blob.S3Bucket == "" {
			errs = append(errs, fmt.Errorf("S3_BUCKET is required when BLOB_BACKEND=s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid BLOB_BACKEND %q: want s3 or local", cfg.Blob.Backend))
	}
	if cfg.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("RETRY_MAX_ATTEMPTS must be at least 1"))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// getEnvInt retrieves an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	if value, exists := os.LookupEnv(key); exists {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number for %s: %w", key, err)
		}
		return v, nil
	}
	return defaultVal, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	if value, exists := os.LookupEnv(key); exists {
		v, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid boolean for %s: %w", key, err)
		}
		return v, nil
	}
	return defaultVal, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	if value, exists := os.LookupEnv(key); exists {
		v, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		return v, nil
	}
	return defaultVal, nil
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{Env: %s, DB: %s, gRPC: %s, Blob: %s, Auth: *** (masked) ***}",
		c.App.Env, c.Database.Path, c.GRPC.Address, c.Blob.Backend)
}
