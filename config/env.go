package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

const (
	defaultAPIBaseURL = "http://localhost:8080"
	defaultAppPort    = "3000"
	defaultAppEnv     = "local"
	tokenFileName     = "token"
)

var (
	loadOnce sync.Once
	loadErr  error
)

// Load reads the optional .env file into the process environment.
// Real environment variables always win over .env entries.
func Load() error {
	loadOnce.Do(func() {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			loadErr = err
		}
	})
	return loadErr
}

// APIBaseURL returns the backend base address. An explicitly empty value
// ("API_BASE_URL=") means requests are issued with relative paths.
func APIBaseURL() string {
	_ = Load()
	if v, ok := os.LookupEnv("API_BASE_URL"); ok {
		return strings.TrimSpace(v)
	}
	return defaultAPIBaseURL
}

// AppPort is the port the HTML frontend listens on.
func AppPort() string {
	_ = Load()
	return get("APP_PORT", defaultAppPort)
}

func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

// TokenPath returns the file holding the session token. Defaults to
// <user config dir>/partsdesk/token; an empty return means the current
// environment has no usable persistent storage.
func TokenPath() string {
	_ = Load()
	if v := get("TOKEN_PATH", ""); v != "" {
		return v
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "partsdesk", tokenFileName)
}

// Get reads any config key by name with an optional fallback.
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}

func get(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
