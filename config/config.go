package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Configuration keys read by the application. Everything comes from the
// process environment (optionally seeded from a .env file in main).
const (
	KeyPort            = "PORT"
	KeyPageSize        = "PAGE_SIZE"
	KeyMediaRoot       = "MEDIA_ROOT"
	KeyJWTSecret       = "JWT_SECRET"
	KeyCacheDir        = "CACHE_DIR"
	KeyCacheTTLSeconds = "CACHE_TTL_SECONDS"
)

// DefaultPageSize matches the page size the feed views were designed
// around; override with PAGE_SIZE.
const DefaultPageSize = 10

func New() map[string]string {
	environ := os.Environ()
	envAsMap := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry != "" {
			key, value := split(entry)
			envAsMap[key] = value
		}
	}
	return envAsMap
}

// assumes entry is not the empty string
func split(entry string) (key, value string) {
	parts := strings.SplitN(entry, "=", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func GetString(config map[string]string, key string, defaultValue string) string {
	if config == nil {
		return defaultValue
	}

	if val, ok := config[key]; ok {
		return val
	}
	return defaultValue
}

func GetInt(config map[string]string, key string, defaultValue int) int {
	if config == nil {
		return defaultValue
	}

	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asInt, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}

	return asInt
}

func GetDuration(config map[string]string, key string, defaultSeconds int) time.Duration {
	return time.Duration(GetInt(config, key, defaultSeconds)) * time.Second
}

// PageSize returns the configured feed page size, falling back to the
// default when the value is absent or not a positive integer.
func PageSize(config map[string]string) int {
	size := GetInt(config, KeyPageSize, DefaultPageSize)
	if size <= 0 {
		return DefaultPageSize
	}
	return size
}
