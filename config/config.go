package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	App      AppConfig
	Client   ClientConfig
}

type ServerConfig struct {
	Port           string   `env:"PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	WriteRateLimit float64  `env:"WRITE_RATE_LIMIT" envDefault:"5"`
	WriteRateBurst int      `env:"WRITE_RATE_BURST" envDefault:"10"`
}

type DatabaseConfig struct {
	Driver       string        `env:"STORE_DRIVER" envDefault:"postgres"`
	DSN          string        `env:"DB_DSN"`
	MaxConns     int           `env:"DB_MAX_CONNS" envDefault:"10"`
	MinConns     int           `env:"DB_MIN_CONNS" envDefault:"2"`
	SQLitePath   string        `env:"SQLITE_PATH" envDefault:"portfolio.db"`
	StoreTimeout time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`
}

// RedisConfig enables the list cache when Addr is set.
type RedisConfig struct {
	Addr         string        `env:"REDIS_ADDR"`
	Password     string        `env:"REDIS_PASSWORD"`
	DB           int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL     time.Duration `env:"CACHE_TTL" envDefault:"10m"`
	WarmSchedule string        `env:"CACHE_WARM_SCHEDULE" envDefault:"@every 5m"`
}

type AppConfig struct {
	Name        string `env:"APP_NAME" envDefault:"portfolio-backend"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Version     string `env:"APP_VERSION" envDefault:"1.0.0"`
}

// ClientConfig is only read by portfolioctl.
type ClientConfig struct {
	APIBaseURL string        `env:"API_BASE_URL" envDefault:"http://localhost:8080/api"`
	Timeout    time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
}

func Load() (*Config, error) {
	cfg, err := parse()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadClient reads the configuration without the server-side checks, for
// tools that only talk to the API.
func LoadClient() (*Config, error) {
	return parse()
}

func parse() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("DB_DSN is required when STORE_DRIVER=%s", DriverPostgres)
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when STORE_DRIVER=%s", DriverSQLite)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Database.Driver)
	}

	if c.Database.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive")
	}

	if c.Server.WriteRateLimit <= 0 || c.Server.WriteRateBurst <= 0 {
		return fmt.Errorf("WRITE_RATE_LIMIT and WRITE_RATE_BURST must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
