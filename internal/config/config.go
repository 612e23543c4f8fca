package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
	// ApplicationName tags this service's sessions in pg_stat_activity.
	ApplicationName   string
	ConnectTimeoutSec int
}

// StoreConfig holds settings for the remote object store.
// It is passed explicitly to the store client; nothing reads it from globals.
type StoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	// BucketPrefix is combined with each resource type, e.g. "attachments-image".
	BucketPrefix string
	UseSSL       bool
	// PublicURL is the base used to build download URLs. Defaults to the endpoint.
	PublicURL  string
	TimeoutSec int
}

// Timeout returns the per-call deadline applied by the store transport.
func (c StoreConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// PolicyConfig carries the attachment limits for one call site.
type PolicyConfig struct {
	MaxCount          int
	MaxSizePerFile    int64
	MaxTotalSize      int64
	AllowedExtensions []string
	// AllowedMIMETypes only applies together with AllowedExtensions; an extension override
	// without it drops the declared MIME check.
	AllowedMIMETypes []string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost     string
	Port        string
	LogLevel    string
	TimeZone    string
	Database    DatabaseConfig
	Store       StoreConfig
	Review      PolicyConfig
	Application PolicyConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Policy values left unset fall back to the defaults of the policy package.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:  getEnv("APP_HOST", "localhost:8080"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		TimeZone: getEnv("APP_TIMEZONE", "UTC"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
			ApplicationName:    getEnv("DB_APPLICATION_NAME", "attachapi"),
			ConnectTimeoutSec:  getEnvInt("DB_CONNECT_TIMEOUT_SEC", 5),
		},
		Store: StoreConfig{
			Endpoint:     getEnv("STORE_ENDPOINT", ""),
			AccessKey:    getEnv("STORE_ACCESS_KEY", ""),
			SecretKey:    getEnv("STORE_SECRET_KEY", ""),
			BucketPrefix: getEnv("STORE_BUCKET_PREFIX", "attachments"),
			UseSSL:       getEnvBool("STORE_USE_SSL", false),
			PublicURL:    getEnv("STORE_PUBLIC_URL", ""),
			TimeoutSec:   getEnvInt("STORE_TIMEOUT_SEC", 30),
		},
		Review: PolicyConfig{
			MaxCount:          getEnvInt("REVIEW_MAX_FILES", 0),
			MaxSizePerFile:    getEnvInt64("REVIEW_MAX_FILE_BYTES", 0),
			MaxTotalSize:      getEnvInt64("REVIEW_MAX_TOTAL_BYTES", 0),
			AllowedExtensions: getEnvList("REVIEW_ALLOWED_EXTENSIONS"),
			AllowedMIMETypes:  getEnvCSV("REVIEW_ALLOWED_MIME_TYPES"),
		},
		Application: PolicyConfig{
			MaxCount:          getEnvInt("APPLICATION_MAX_FILES", 0),
			MaxSizePerFile:    getEnvInt64("APPLICATION_MAX_FILE_BYTES", 0),
			MaxTotalSize:      getEnvInt64("APPLICATION_MAX_TOTAL_BYTES", 0),
			AllowedExtensions: getEnvList("APPLICATION_ALLOWED_EXTENSIONS"),
			AllowedMIMETypes:  getEnvCSV("APPLICATION_ALLOWED_MIME_TYPES"),
		},
	}
}

// Location resolves TimeZone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvCSV splits a comma separated value into trimmed, lower-cased items.
func getEnvCSV(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnvList reads a comma separated list of extensions, dot-prefixing each one.
func getEnvList(key string) []string {
	out := getEnvCSV(key)
	for i, part := range out {
		if !strings.HasPrefix(part, ".") {
			out[i] = "." + part
		}
	}
	return out
}
