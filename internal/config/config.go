package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config aggregates application settings that may be sourced from a .env file or environment variables.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Clamd    ClamdConfig    `mapstructure:"clamd"`
	Worker   WorkerConfig   `mapstructure:"worker"`
}

// AppConfig holds process-wide settings.
type AppConfig struct {
	Env string `mapstructure:"env"`
}

// IsProduction reports whether the process runs with production defaults.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(a.Env), "production")
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port           int    `mapstructure:"port"`
	CookieDomain   string `mapstructure:"cookie_domain"`
	InternalSecret string `mapstructure:"internal_secret"`
}

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig contains connection options for the relational store.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
	// Path is the SQLite database file (or DSN) when Driver is sqlite.
	Path     string `mapstructure:"path"`
	LogLevel string `mapstructure:"log_level"`
}

// RedisConfig contains the Redis connection used for sessions, throttling and the task queue.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint         string `mapstructure:"endpoint"`
	PublicEndpoint   string `mapstructure:"public_endpoint"`
	AccessKeyID      string `mapstructure:"access_key_id"`
	SecretAccessKey  string `mapstructure:"secret_access_key"`
	UseSSL           bool   `mapstructure:"use_ssl"`
	Region           string `mapstructure:"region"`
	Bucket           string `mapstructure:"bucket"`
	BucketLookup     string `mapstructure:"bucket_lookup"`
	AutoCreateBucket bool   `mapstructure:"auto_create_bucket"`
}

// AuthConfig contains session signing and login throttling options.
type AuthConfig struct {
	PrivateKeyPath        string        `mapstructure:"private_key_path"`
	PublicKeyPath         string        `mapstructure:"public_key_path"`
	SessionTTL            time.Duration `mapstructure:"session_ttl"`
	LoginRateLimitPerHour int           `mapstructure:"login_rate_limit_per_hour"`
	LoginLockThreshold    int           `mapstructure:"login_lock_threshold"`
	LoginLockTTL          time.Duration `mapstructure:"login_lock_ttl"`
}

// UploadConfig limits resume uploads.
type UploadConfig struct {
	MaxResumeBytes int64         `mapstructure:"max_resume_bytes"`
	ResumeURLTTL   time.Duration `mapstructure:"resume_url_ttl"`
}

// ClamdConfig points at a clamd daemon. An empty address disables scanning.
type ClamdConfig struct {
	Addr string `mapstructure:"addr"`
}

// WorkerConfig tunes the asynq server.
type WorkerConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// DSN builds a driver specific connection string.
func (d DatabaseConfig) DSN() string {
	switch d.Driver {
	case DriverMySQL:
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			d.User,
			d.Password,
			d.Host,
			d.Port,
			d.Name,
		)
	case DriverSQLite:
		return d.Path
	default:
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			d.Host,
			d.Port,
			d.User,
			d.Password,
			d.Name,
			d.SSLMode,
		)
	}
}

// Load reads configuration from an optional .env file and environment variables (with defaults).
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	if cfg.MinIO.PublicEndpoint == "" {
		scheme := "http"
		if cfg.MinIO.UseSSL {
			scheme = "https"
		}
		cfg.MinIO.PublicEndpoint = scheme + "://" + cfg.MinIO.Endpoint
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("api.port", 8080)
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "jobportal")
	v.SetDefault("database.user", "jobportal")
	v.SetDefault("database.password", "jobportal")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "jobportal.db")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "resumes")
	v.SetDefault("minio.bucket_lookup", "auto")
	v.SetDefault("minio.auto_create_bucket", true)
	v.SetDefault("auth.private_key_path", "keys/session.pem")
	v.SetDefault("auth.public_key_path", "keys/session.pub.pem")
	v.SetDefault("auth.session_ttl", 24*time.Hour)
	v.SetDefault("auth.login_rate_limit_per_hour", 10)
	v.SetDefault("auth.login_lock_threshold", 5)
	v.SetDefault("auth.login_lock_ttl", 15*time.Minute)
	v.SetDefault("upload.max_resume_bytes", 5*1024*1024)
	v.SetDefault("upload.resume_url_ttl", 5*time.Minute)
	v.SetDefault("worker.concurrency", 5)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"app.env":                        "APP_ENV",
		"api.port":                       "API_PORT",
		"api.cookie_domain":              "COOKIE_DOMAIN",
		"api.internal_secret":            "INTERNAL_API_SECRET",
		"database.driver":                "DATABASE_DRIVER",
		"database.host":                  "DATABASE_HOST",
		"database.port":                  "DATABASE_PORT",
		"database.name":                  "POSTGRES_DB",
		"database.user":                  "POSTGRES_USER",
		"database.password":              "POSTGRES_PASSWORD",
		"database.sslmode":               "DATABASE_SSLMODE",
		"database.path":                  "DATABASE_PATH",
		"database.log_level":             "DATABASE_LOG_LEVEL",
		"redis.host":                     "REDIS_HOST",
		"redis.port":                     "REDIS_PORT",
		"redis.password":                 "REDIS_PASSWORD",
		"redis.db":                       "REDIS_DB",
		"minio.endpoint":                 "MINIO_ENDPOINT",
		"minio.public_endpoint":          "MINIO_PUBLIC_ENDPOINT",
		"minio.access_key_id":            "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":        "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":                  "MINIO_USE_SSL",
		"minio.region":                   "MINIO_REGION",
		"minio.bucket":                   "MINIO_BUCKET",
		"minio.bucket_lookup":            "MINIO_BUCKET_LOOKUP",
		"minio.auto_create_bucket":       "MINIO_AUTO_CREATE_BUCKET",
		"auth.private_key_path":          "AUTH_PRIVATE_KEY_PATH",
		"auth.public_key_path":           "AUTH_PUBLIC_KEY_PATH",
		"auth.session_ttl":               "AUTH_SESSION_TTL",
		"auth.login_rate_limit_per_hour": "AUTH_LOGIN_RATE_LIMIT_PER_HOUR",
		"auth.login_lock_threshold":      "AUTH_LOGIN_LOCK_THRESHOLD",
		"auth.login_lock_ttl":            "AUTH_LOGIN_LOCK_TTL",
		"upload.max_resume_bytes":        "UPLOAD_MAX_RESUME_BYTES",
		"upload.resume_url_ttl":          "UPLOAD_RESUME_URL_TTL",
		"clamd.addr":                     "CLAMD_ADDR",
		"worker.concurrency":             "WORKER_CONCURRENCY",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if err := validateDatabase(cfg.Database); err != nil {
		return err
	}
	if cfg.Redis.Host == "" {
		return errors.New("redis host is required")
	}
	if cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	if cfg.MinIO.Endpoint == "" {
		return errors.New("minio endpoint is required")
	}
	if cfg.MinIO.AccessKeyID == "" {
		return errors.New("minio access key id is required")
	}
	if cfg.MinIO.SecretAccessKey == "" {
		return errors.New("minio secret access key is required")
	}
	if cfg.MinIO.Bucket == "" {
		return errors.New("minio bucket is required")
	}
	if cfg.Auth.PrivateKeyPath == "" || cfg.Auth.PublicKeyPath == "" {
		return errors.New("auth key paths are required")
	}
	if cfg.Auth.SessionTTL <= 0 {
		return errors.New("auth session ttl must be positive")
	}
	if cfg.Auth.LoginRateLimitPerHour <= 0 {
		return errors.New("auth login rate limit must be positive")
	}
	if cfg.Auth.LoginLockThreshold <= 0 {
		return errors.New("auth login lock threshold must be positive")
	}
	if cfg.Upload.MaxResumeBytes <= 0 {
		return errors.New("upload max resume bytes must be positive")
	}
	if cfg.Upload.ResumeURLTTL <= 0 {
		return errors.New("upload resume url ttl must be positive")
	}
	if cfg.Worker.Concurrency <= 0 {
		return errors.New("worker concurrency must be positive")
	}
	return nil
}

// ValidateDatabase checks a standalone database section, e.g. one assembled from CLI flags.
func ValidateDatabase(d DatabaseConfig) error {
	return validateDatabase(d)
}

func validateDatabase(d DatabaseConfig) error {
	switch d.Driver {
	case DriverSQLite:
		if d.Path == "" {
			return errors.New("database path is required for sqlite")
		}
		return nil
	case DriverPostgres, DriverMySQL:
	default:
		return fmt.Errorf("unsupported database driver %q", d.Driver)
	}
	if d.Host == "" {
		return errors.New("database host is required")
	}
	if d.Port <= 0 {
		return errors.New("database port must be positive")
	}
	if d.Name == "" {
		return errors.New("database name is required")
	}
	if d.User == "" {
		return errors.New("database user is required")
	}
	if d.Password == "" {
		return errors.New("database password is required")
	}
	if d.Driver == DriverPostgres && d.SSLMode == "" {
		return errors.New("database sslmode is required")
	}
	return nil
}
