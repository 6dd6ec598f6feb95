package config

import (
	"fmt"     // Error formatting
	"reflect" // Parser registration
	"strconv" // Day counts
	"strings" // String manipulation
	"time"    // Durations

	"github.com/caarlos0/env/v11" // Struct-tag env parsing
	"github.com/joho/godotenv"    // For loading .env files
)

// Supported database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds the application configuration
type Config struct {
	AppPort         string        `env:"APP_PORT" envDefault:"3001"`          // Application port
	BasePath        string        `env:"API_BASE_PATH"`                       // Prefix for every route, e.g. /api
	IsProd          bool          `env:"IS_PROD"`                             // Is production environment
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`   // Grace period for in-flight requests
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`         // logrus level
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"text"`        // text or json
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"` // Allowed CORS origins

	DBDriver          string        `env:"DB_DRIVER" envDefault:"mysql"`          // mysql, postgres or sqlite
	DBUser            string        `env:"DB_USER"`                               // Database user
	DBPassword        string        `env:"DB_PASSWORD"`                           // Database password
	DBHost            string        `env:"DB_HOST" envDefault:"localhost"`        // Database host
	DBPort            string        `env:"DB_PORT"`                               // Database port
	DBName            string        `env:"DB_NAME"`                               // Database name
	DBDSN             string        `env:"DB_DSN"`                                // Full DSN, overrides the fields above
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`     // Pool size
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`      // Idle connections kept
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"` // Connection recycling

	JWTSecret  string        `env:"JWT_SECRET"`                  // JWT secret key
	JWTExpire  time.Duration `env:"JWT_EXPIRE" envDefault:"24h"` // Token lifetime, "7d" allowed
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"` // Password hashing work factor

	RedisAddr string        `env:"REDIS_ADDR"`                 // Redis server address, empty disables caching
	RedisPass string        `env:"REDIS_PASS"`                 // Redis password
	RedisDB   int           `env:"REDIS_DB"`                   // Redis database number
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"60s"` // Lifetime of cached listings
}

// LoadConfig loads configuration from a .env file (if present) and environment variables
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	var cfg Config
	opts := env.Options{FuncMap: map[reflect.Type]env.ParserFunc{
		reflect.TypeOf(time.Duration(0)): func(v string) (any, error) { return ParseDuration(v) },
	}}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.BasePath = strings.TrimRight(cfg.BasePath, "/")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseDuration accepts Go durations ("24h", "1h30m") and a leading day
// count ("7d", "1d12h") as older deployments set JWT_EXPIRE.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	days, rest, found := strings.Cut(s, "d")
	if !found {
		return time.ParseDuration(s)
	}
	n, err := strconv.Atoi(days)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	d := time.Duration(n) * 24 * time.Hour
	if rest != "" {
		extra, err := time.ParseDuration(rest)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		d += extra
	}
	return d, nil
}

// Validate checks settings that cannot be defaulted
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.JWTExpire <= 0 {
		return fmt.Errorf("JWT_EXPIRE must be positive")
	}
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres:
		if c.DBDSN == "" && c.DBName == "" {
			return fmt.Errorf("DB_NAME or DB_DSN is required for %s", c.DBDriver)
		}
	case DriverSQLite:
		if c.DBDSN == "" && c.DBName == "" {
			return fmt.Errorf("DB_DSN or DB_NAME (file path) is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// DSN returns the data source name for the configured driver
func (c *Config) DSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	switch c.DBDriver {
	case DriverPostgres:
		port := c.DBPort
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			c.DBHost, port, c.DBUser, c.DBPassword, c.DBName)
	case DriverSQLite:
		return c.DBName
	default:
		port := c.DBPort
		if port == "" {
			port = "3306"
		}
		// Database Source Name (DSN) for MySQL connection
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + port + ")/" + c.DBName + "?parseTime=true&clientFoundRows=true"
	}
}
