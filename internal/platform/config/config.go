// Package config loads process-wide settings from the environment (and an optional .env file).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full application configuration.
type Config struct {
	ServerAddr       string
	CORSAllowOrigins []string
	LogLevel         string
	LogFormat        string

	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Upload   UploadConfig
	Push     PushConfig
	Users    UserStoreConfig
	CacheTTL time.Duration
}

// DBConfig selects the SQL driver and holds its connection settings.
type DBConfig struct {
	Driver        string // mysql | postgres | sqlite
	User          string
	Password      string
	Name          string
	Host          string
	Port          string
	SSLMode       string
	InstanceName  string // Cloud SQL unix socket (mysql only)
	SQLitePath    string
	RunMigrations bool
}

// RedisConfig is optional; an empty Host disables Redis.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// Enabled reports whether a Redis host is configured.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// Addr returns host:port.
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// JWTConfig holds the signing secret and per-purpose token lifetimes.
type JWTConfig struct {
	Secret       string
	SessionTTL   time.Duration
	BiometricTTL time.Duration
}

// UploadConfig configures image uploads.
type UploadConfig struct {
	Backend  string // local | minio
	Dir      string
	MaxBytes int64

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioPublicURL string
}

// PushConfig configures the push-notification provider.
type PushConfig struct {
	Provider        string // log | fcm
	CredentialsFile string
	RateLimit       int // sends per minute, 0 = unlimited
}

// UserStoreConfig selects where user rows live.
type UserStoreConfig struct {
	Store string // db | file
	File  string
}

// Load reads .env (if present) and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env not found; using system environment variables")
	}

	return Config{
		ServerAddr:       getEnv("SERVER_ADDR", ":8080"),
		CORSAllowOrigins: splitList(getEnv("CORS_ALLOW_ORIGINS", "*")),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
		DB: DBConfig{
			Driver:        strings.ToLower(getEnv("DB_DRIVER", "mysql")),
			User:          getEnv("DB_USER", ""),
			Password:      getEnv("DB_PASSWORD", ""),
			Name:          getEnv("DB_NAME", "lab_backend"),
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnv("DB_PORT", "3306"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			InstanceName:  getEnv("INSTANCE_CONNECTION_NAME", ""),
			SQLitePath:    getEnv("SQLITE_PATH", "./lab.db"),
			RunMigrations: getEnvBool("RUN_MIGRATIONS", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:       getEnv("JWT_SECRET", ""),
			SessionTTL:   getEnvDuration("JWT_SESSION_TTL", 24*time.Hour),
			BiometricTTL: getEnvDuration("JWT_BIOMETRIC_TTL", 90*24*time.Hour),
		},
		Upload: UploadConfig{
			Backend:        strings.ToLower(getEnv("UPLOAD_BACKEND", "local")),
			Dir:            getEnv("UPLOAD_DIR", "uploads"),
			MaxBytes:       int64(getEnvInt("UPLOAD_MAX_BYTES", 5*1024*1024)),
			MinioEndpoint:  getEnv("MINIO_ENDPOINT", ""),
			MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
			MinioBucket:    getEnv("MINIO_BUCKET", "profile-photos"),
			MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),
			MinioPublicURL: getEnv("MINIO_PUBLIC_URL", ""),
		},
		Push: PushConfig{
			Provider:        strings.ToLower(getEnv("PUSH_PROVIDER", "log")),
			CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
			RateLimit:       getEnvInt("PUSH_RATE_LIMIT", 600),
		},
		Users: UserStoreConfig{
			Store: strings.ToLower(getEnv("USER_STORE", "db")),
			File:  getEnv("USERS_FILE", "users.json"),
		},
		CacheTTL: getEnvDuration("ARTICLE_CACHE_TTL", 5*time.Minute),
	}
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.JWT.Secret) == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWT.SessionTTL <= 0 || c.JWT.BiometricTTL <= 0 {
		errs = append(errs, errors.New("token lifetimes must be positive"))
	}
	switch c.DB.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver))
	}
	switch c.Users.Store {
	case "db", "file":
	default:
		errs = append(errs, fmt.Errorf("unsupported USER_STORE %q", c.Users.Store))
	}
	switch c.Upload.Backend {
	case "local", "minio":
	default:
		errs = append(errs, fmt.Errorf("unsupported UPLOAD_BACKEND %q", c.Upload.Backend))
	}
	switch c.Push.Provider {
	case "log":
	case "fcm":
		if c.Push.CredentialsFile == "" {
			errs = append(errs, errors.New("FIREBASE_CREDENTIALS_FILE is required for PUSH_PROVIDER=fcm"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported PUSH_PROVIDER %q", c.Push.Provider))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", value)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", value)
		return defaultValue
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
