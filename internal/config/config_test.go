package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	// Save current env and restore later
	origHost := os.Getenv("DB_HOST")
	defer os.Setenv("DB_HOST", origHost)

	os.Setenv("DB_HOST", "test-host")
	os.Setenv("DB_MAX_OPEN_CONNS", "20")
	os.Setenv("STORE_USE_SSL", "true")
	os.Setenv("REVIEW_MAX_FILES", "3")
	os.Setenv("APPLICATION_MAX_TOTAL_BYTES", "1048576")
	defer func() {
		os.Unsetenv("DB_MAX_OPEN_CONNS")
		os.Unsetenv("STORE_USE_SSL")
		os.Unsetenv("REVIEW_MAX_FILES")
		os.Unsetenv("APPLICATION_MAX_TOTAL_BYTES")
	}()

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Store.UseSSL)
	assert.Equal(t, "attachments", cfg.Store.BucketPrefix)
	assert.Equal(t, 30*time.Second, cfg.Store.Timeout())
	assert.Equal(t, 3, cfg.Review.MaxCount)
	assert.Equal(t, int64(1048576), cfg.Application.MaxTotalSize)
	assert.Nil(t, cfg.Review.AllowedExtensions)
	assert.Nil(t, cfg.Review.AllowedMIMETypes)
}

func TestLoad_PolicyLists(t *testing.T) {
	t.Setenv("REVIEW_ALLOWED_EXTENSIONS", "jpg, .HEIC,,")
	t.Setenv("REVIEW_ALLOWED_MIME_TYPES", "image/jpeg, Image/HEIC")

	cfg := Load()

	assert.Equal(t, []string{".jpg", ".heic"}, cfg.Review.AllowedExtensions)
	assert.Equal(t, []string{"image/jpeg", "image/heic"}, cfg.Review.AllowedMIMETypes)
	assert.Nil(t, cfg.Application.AllowedMIMETypes)
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvInt64(t *testing.T) {
	key := "TEST_INT64_VAR"

	os.Setenv(key, "5368709120")
	assert.Equal(t, int64(5368709120), getEnvInt64(key, 0))

	os.Setenv(key, "nope")
	assert.Equal(t, int64(7), getEnvInt64(key, 7))

	os.Unsetenv(key)
}

func TestGetEnvList(t *testing.T) {
	key := "TEST_LIST_VAR"

	os.Setenv(key, "JPG, .png,,pdf ")
	assert.Equal(t, []string{".jpg", ".png", ".pdf"}, getEnvList(key))

	os.Unsetenv(key)
	assert.Nil(t, getEnvList(key))
}

func TestLocation(t *testing.T) {
	cfg := &AppConfig{TimeZone: "UTC"}
	assert.Equal(t, "UTC", cfg.Location().String())

	cfg.TimeZone = "Not/AZone"
	assert.Equal(t, time.UTC, cfg.Location())
}
