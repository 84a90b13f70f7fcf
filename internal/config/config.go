package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yukikurage/team-task-api/internal/constants"
)

const (
	StoreBackendSQL   = "sql"
	StoreBackendMongo = "mongo"

	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const devJWTSecret = "dev-secret-change-me"

type Config struct {
	Port    string
	GinMode string

	JWTSecret string
	JWTTTL    time.Duration

	LogLevel string

	StoreBackend string
	DBDriver     string
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBDSN        string

	MongoURI      string
	MongoDatabase string

	RedisAddr     string
	RedisPassword string

	AuthRateLimitPerMinute  int
	AllowedOrigins          []string
	MemberLookupConcurrency int
	RequestTimeout          time.Duration
}

// Load reads configuration from the environment, after loading an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	ginMode := getEnv("GIN_MODE", "debug")

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" && ginMode != "release" {
		jwtSecret = devJWTSecret
	}

	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		GinMode:                 ginMode,
		JWTSecret:               jwtSecret,
		JWTTTL:                  getDurationEnv("JWT_TTL", constants.DefaultTokenTTL),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		StoreBackend:            strings.ToLower(getEnv("STORE_BACKEND", StoreBackendSQL)),
		DBDriver:                strings.ToLower(getEnv("DB_DRIVER", DriverMySQL)),
		DBHost:                  getEnv("DB_HOST", "localhost"),
		DBPort:                  getEnv("DB_PORT", "3306"),
		DBUser:                  getEnv("DB_USER", "taskuser"),
		DBPassword:              getEnv("DB_PASSWORD", "taskpassword"),
		DBName:                  getEnv("DB_NAME", "task_management"),
		DBDSN:                   getEnv("DB_DSN", ""),
		MongoURI:                getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:           getEnv("MONGO_DATABASE", "task_management"),
		RedisAddr:               getEnv("REDIS_ADDR", ""),
		RedisPassword:           getEnv("REDIS_PASSWORD", ""),
		AuthRateLimitPerMinute:  getIntEnv("AUTH_RATE_LIMIT_PER_MIN", 30),
		AllowedOrigins:          splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),
		MemberLookupConcurrency: getIntEnv("MEMBER_LOOKUP_CONCURRENCY", constants.DefaultMemberLookupConcurrency),
		RequestTimeout:          getDurationEnv("REQUEST_TIMEOUT", 10*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the values that have no safe fallback.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}

	switch c.StoreBackend {
	case StoreBackendSQL:
		switch c.DBDriver {
		case DriverMySQL, DriverPostgres, DriverSQLite:
		default:
			return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
		}
	case StoreBackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for the mongo backend")
		}
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", c.StoreBackend)
	}

	if c.MemberLookupConcurrency < 1 {
		c.MemberLookupConcurrency = constants.DefaultMemberLookupConcurrency
	}

	return nil
}

// ListenAddr returns the address passed to the HTTP server.
func (c *Config) ListenAddr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntEnv(key string, defaultValue int) int {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func splitCSV(input string) []string {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
