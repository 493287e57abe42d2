package config

import (
	"errors"  // For validation errors
	"fmt"     // For DSN formatting
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For list parsing
	"time"    // For durations

	"github.com/joho/godotenv" // For loading .env files
)

// Supported database drivers
const (
	DriverMySQL    = "mysql"    // gorm.io/driver/mysql
	DriverPostgres = "postgres" // gorm.io/driver/postgres
	DriverMemory   = "memory"   // in-process repositories (tests, local dev)
)

// Config holds the application configuration
type Config struct {
	AppPort           string        // Application port
	DBDriver          string        // Database driver: mysql, postgres or memory
	DBUser            string        // Database user
	DBPassword        string        // Database password
	DBHost            string        // Database host
	DBPort            string        // Database port
	DBName            string        // Database name
	DBSSLMode         string        // PostgreSQL sslmode
	JWTSecret         string        // JWT secret key
	JWTTTL            time.Duration // Lifetime of issued tokens
	RedisAddr         string        // Redis server address, empty disables Redis
	RedisPass         string        // Redis password
	RedisDB           int           // Redis database number
	CacheTTL          time.Duration // TTL of cached public profiles
	AnalyticsCacheTTL time.Duration // TTL of cached analytics summaries
	TrackRate         string        // Rate for public click tracking, ulule format ("60-M")
	AutoMigrate       bool          // Run AutoMigrate on server start
	IsProd            bool          // Is production environment
	LogLevel          string        // logrus level name
	TrustedProxies    []string      // Proxies trusted by gin
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:           getEnv("APP_PORT", "5000"),                         // Application port
		DBDriver:          strings.ToLower(getEnv("DB_DRIVER", DriverMySQL)),  // Database driver
		DBUser:            os.Getenv("DB_USER"),                               // Database user
		DBPassword:        os.Getenv("DB_PASSWORD"),                           // Database password
		DBHost:            getEnv("DB_HOST", "localhost"),                     // Database host
		DBPort:            os.Getenv("DB_PORT"),                               // Database port
		DBName:            getEnv("DB_NAME", "onesi"),                         // Database name
		DBSSLMode:         getEnv("DB_SSLMODE", "disable"),                    // PostgreSQL sslmode
		JWTSecret:         os.Getenv("JWT_SECRET"),                            // JWT secret key
		JWTTTL:            getDuration("JWT_TTL", 30*24*time.Hour),            // Tokens live 30 days
		RedisAddr:         os.Getenv("REDIS_ADDR"),                            // Redis server address
		RedisPass:         os.Getenv("REDIS_PASS"),                            // Redis password
		RedisDB:           redisDB,                                            // Redis database number
		CacheTTL:          getDuration("CACHE_TTL", 60*time.Second),           // Public profile cache TTL
		AnalyticsCacheTTL: getDuration("ANALYTICS_CACHE_TTL", 30*time.Second), // Analytics cache TTL
		TrackRate:         getEnv("TRACK_RATE", "120-M"),                      // Track rate limit
		AutoMigrate:       os.Getenv("AUTO_MIGRATE") == "true",                // Migrate on start
		IsProd:            os.Getenv("IS_PROD") == "true",                     // Is production environment
		LogLevel:          getEnv("LOG_LEVEL", "info"),                        // Log level
		TrustedProxies:    splitList(getEnv("TRUSTED_PROXIES", "127.0.0.1")),  // Trusted proxies
	}
}

// Validate reports configuration that cannot be served
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		if c.IsProd {
			return errors.New("JWT_SECRET must be set in production")
		}
		c.JWTSecret = "dev-secret" // Development fallback only
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	return nil
}

// DSN builds the data source name for the configured SQL driver
func (c *Config) DSN() string {
	if c.DBDriver == DriverPostgres {
		port := c.DBPort
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			c.DBHost, c.DBUser, c.DBPassword, c.DBName, port, c.DBSSLMode)
	}
	port := c.DBPort
	if port == "" {
		port = "3306"
	}
	// parseTime lets DATE()/DATETIME columns scan into time.Time; loc keeps them UTC
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + port + ")/" + c.DBName + "?parseTime=true&loc=UTC&charset=utf8mb4"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
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
