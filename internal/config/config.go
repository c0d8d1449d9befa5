package config

import (
	"BlogAPI/database"
	"BlogAPI/internal/middleware"
	"BlogAPI/pkg/log"
	"BlogAPI/pkg/media"
	"BlogAPI/pkg/redis"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	Name    string
	Env     string
	Port    string
	APIPath string
}

type UploadConfig struct {
	MaxBytes int64
	TmpDir   string
}

type CacheConfig struct {
	Redis redis.Config
	TTL   time.Duration
}

type AuthConfig struct {
	Enabled   bool
	JWTSecret string
}

type Config struct {
	App            AppConfig
	Log            log.Config
	DB             database.Config
	Media          media.Config
	Upload         UploadConfig
	Cache          CacheConfig
	Auth           AuthConfig
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	RequestTimeout time.Duration
}

func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:    "Blog API",
			Env:     "development",
			Port:    "3000",
			APIPath: "/api",
		},
		Log: log.Config{
			Level: "info",
		},
		DB: database.Config{
			Driver:          database.DriverMySQL,
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Media: media.Config{
			Provider: media.ProviderCloudinary,
			Folder:   "blog_images",
		},
		Upload: UploadConfig{
			MaxBytes: 10 * 1024 * 1024,
			TmpDir:   os.TempDir(),
		},
		Cache: CacheConfig{
			TTL: 10 * time.Minute,
		},
		CORSOrigins:    middleware.DefaultAllowedOrigins,
		RateLimitRPS:   50,
		RateLimitBurst: 100,
		RequestTimeout: 30 * time.Second,
	}
}

// Load reads the process environment on top of Default.
func Load() *Config {
	d := Default()

	return &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", d.App.Name),
			Env:     getEnv("APP_ENV", d.App.Env),
			Port:    getEnv("APP_PORT", d.App.Port),
			APIPath: normalizeAPIPath(getEnv("API_PATH", d.App.APIPath)),
		},
		Log: log.Config{
			Level:  getEnv("LOG_LEVEL", d.Log.Level),
			Env:    getEnv("APP_ENV", d.App.Env),
			LogDir: getEnv("LOG_DIR", d.Log.LogDir),
		},
		DB: database.Config{
			Driver:          getEnv("DB_DRIVER", d.DB.Driver),
			DSN:             getEnv("DB_DSN", d.DB.DSN),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", d.DB.MaxOpenConns),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", d.DB.MaxIdleConns),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", d.DB.ConnMaxLifetime),
			AutoMigrate:     getEnvAsBool("DB_AUTO_MIGRATE", d.DB.AutoMigrate),
		},
		Media: media.Config{
			Provider:      getEnv("MEDIA_PROVIDER", d.Media.Provider),
			Folder:        getEnv("MEDIA_FOLDER", d.Media.Folder),
			PublicBaseURL: getEnv("MEDIA_PUBLIC_BASE_URL", d.Media.PublicBaseURL),
			Cloudinary: media.CloudinaryConfig{
				CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
				APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
				APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
			},
			S3: media.S3Config{
				Region:    getEnv("AWS_REGION", ""),
				Bucket:    getEnv("AWS_BUCKET_NAME", ""),
				AccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
				SecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
				Endpoint:  getEnv("AWS_ENDPOINT", ""),
			},
		},
		Upload: UploadConfig{
			MaxBytes: int64(getEnvAsInt("UPLOAD_MAX_BYTES", int(d.Upload.MaxBytes))),
			TmpDir:   getEnv("UPLOAD_TMP_DIR", d.Upload.TmpDir),
		},
		Cache: CacheConfig{
			Redis: redis.Config{
				Address:  getEnv("REDIS_ADDRESS", ""),
				Password: getEnv("REDIS_PASSWORD", ""),
				DB:       getEnvAsInt("REDIS_DB", 0),
			},
			TTL: getEnvAsDuration("CACHE_TTL", d.Cache.TTL),
		},
		Auth: AuthConfig{
			Enabled:   getEnvAsBool("AUTH_ENABLED", d.Auth.Enabled),
			JWTSecret: getEnv("JWT_ACCESS_TOKEN_SECRET", ""),
		},
		CORSOrigins:    getEnvAsList("CORS_ALLOWED_ORIGINS", d.CORSOrigins),
		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", d.RateLimitRPS),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", d.RateLimitBurst),
		RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", d.RequestTimeout),
	}
}

func (c *Config) Validate() error {
	if c.App.Port == "" {
		return fmt.Errorf("APP_PORT must not be empty")
	}
	if c.DB.DSN == "" {
		return fmt.Errorf("DB_DSN must not be empty")
	}
	switch c.DB.Driver {
	case database.DriverPostgres, database.DriverMySQL, database.DriverSQLite:
	default:
		return fmt.Errorf(`DB_DRIVER must be one of "postgres", "mysql", "sqlite", got %q`, c.DB.Driver)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive, got %d", c.Upload.MaxBytes)
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive, got %v", c.RateLimitRPS)
	}
	if c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive, got %d", c.RateLimitBurst)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive (e.g., 30s), got %s", c.RequestTimeout)
	}
	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_ACCESS_TOKEN_SECRET must be set when AUTH_ENABLED is true")
	}
	return nil
}

// "api/v1/" and "/api/v1" both become "/api/v1"; "/" becomes "".
func normalizeAPIPath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) int {
	valueStr, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsList(key string, fallback []string) []string {
	valueStr, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(valueStr) == "" {
		return fallback
	}

	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
