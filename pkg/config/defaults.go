// Package config provides centralized default values for the featured image service
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, redact(key, val), redact(key, defaultValue))
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

// redact hides secrets in override logs
func redact(key, value string) string {
	upper := strings.ToUpper(key)
	if value == "" {
		return value
	}
	for _, marker := range []string{"SECRET", "PASSWORD", "TOKEN", "DSN", "URL"} {
		if strings.Contains(upper, marker) {
			return "****"
		}
	}
	return value
}

// Database drivers understood by the persistence layer
const (
	DriverSQLite   = "sqlite3"
	DriverLibSQL   = "libsql"
	DriverPostgres = "pgx"
)

var (
	// Server Configuration
	BindHost                string
	Port                    string
	ServerReadTimeout       time.Duration
	ServerReadHeaderTimeout time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	ServerShutdownTimeout   time.Duration
	ServerMaxHeaderBytes    int
	AllowedOrigins          []string

	// Database
	DBDriver                 string
	DBDSN                    string
	TursoDatabaseURL         string
	TursoAuthToken           string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	SlowQueryThreshold       time.Duration

	// Media library
	MediaDir       string
	MediaURLPrefix string
	ThumbnailSize  int
	MaxUploadBytes int

	// Admin authentication
	JWTSecret     string
	AdminPassword string
	AdminTokenTTL time.Duration
	NonceTTL      time.Duration
	SecureCookies bool

	// Option cache
	OptionCacheTTL       time.Duration
	CacheCleanupInterval time.Duration
	CacheCleanupVerbose  bool

	// Messaging
	AMQPURL      string
	AMQPExchange string

	// Logging
	LogDirectory string
	LogToFile    bool
	LogJSON      bool
	LogLevel     string
)

func init() {
	Load()
}

// Load reads every setting from the environment. It runs once from init and
// may be called again by tests after changing the environment.
func Load() {
	loadEnvFile()

	// Server Configuration
	BindHost = getEnvString("BIND_HOST", "")
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerReadHeaderTimeout = getEnvDuration("SERVER_READ_HEADER_TIMEOUT", 5*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	ServerShutdownTimeout = getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second)
	ServerMaxHeaderBytes = getEnvInt("SERVER_MAX_HEADER_BYTES", 1<<20)
	AllowedOrigins = strings.Split(getEnvString("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:4321,http://127.0.0.1:4321"), ",")

	// Database
	DBDriver = getEnvString("DB_DRIVER", DriverSQLite)
	DBDSN = getEnvString("DB_DSN", "data/featured.db?_foreign_keys=on")
	TursoDatabaseURL = getEnvString("TURSO_DATABASE_URL", "")
	TursoAuthToken = getEnvString("TURSO_AUTH_TOKEN", "")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 500*time.Millisecond)

	// Media library
	MediaDir = getEnvString("MEDIA_DIR", "media")
	MediaURLPrefix = getEnvString("MEDIA_URL_PREFIX", "/media")
	ThumbnailSize = getEnvInt("THUMBNAIL_SIZE", 150)
	MaxUploadBytes = getEnvInt("MAX_UPLOAD_BYTES", 10<<20)

	// Admin authentication
	JWTSecret = getEnvString("JWT_SECRET", "")
	AdminPassword = getEnvString("ADMIN_PASSWORD", "")
	AdminTokenTTL = time.Duration(getEnvInt("ADMIN_TOKEN_TTL_HOURS", 24)) * time.Hour
	NonceTTL = time.Duration(getEnvInt("NONCE_TTL_HOURS", 12)) * time.Hour
	SecureCookies = getEnvBool("SECURE_COOKIES", false)

	// Option cache
	OptionCacheTTL = time.Duration(getEnvInt("OPTION_CACHE_TTL_MINUTES", 10)) * time.Minute
	CacheCleanupInterval = time.Duration(getEnvInt("CACHE_CLEANUP_INTERVAL_MINUTES", 5)) * time.Minute
	CacheCleanupVerbose = getEnvBool("CACHE_CLEANUP_VERBOSE", false)

	// Messaging
	AMQPURL = getEnvString("AMQP_URL", "")
	AMQPExchange = getEnvString("AMQP_EXCHANGE", "featured.settings")

	// Logging
	LogDirectory = getEnvString("LOG_DIRECTORY", "logs")
	LogToFile = getEnvBool("LOG_TO_FILE", false)
	LogJSON = getEnvBool("LOG_JSON", true)
	LogLevel = getEnvString("LOG_LEVEL", "info")
}
