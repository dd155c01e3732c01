package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment overrides: PORTFOLIO_DB_PATH -> db_path.
const EnvPrefix = "PORTFOLIO_"

// Backend selects the key-value store that holds visitor state.
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendRedis    Backend = "redis"
	BackendMemory   Backend = "memory"
)

var validBackends = map[Backend]bool{
	BackendSQLite:   true,
	BackendPostgres: true,
	BackendRedis:    true,
	BackendMemory:   true,
}

type Config struct {
	Port     string `koanf:"port"`
	Env      string `koanf:"env"`
	LogLevel string `koanf:"log_level"`
	Version  string `koanf:"version"`

	StorageBackend Backend `koanf:"storage_backend"`
	DBPath         string  `koanf:"db_path"`
	RedisAddr      string  `koanf:"redis_addr"`
	PostgresDSN    string  `koanf:"postgres_dsn"`

	WeatherAPIKey  string `koanf:"weather_api_key"`
	WeatherBaseURL string `koanf:"weather_base_url"`
	DefaultCity    string `koanf:"default_city"`

	GitHubUser       string  `koanf:"github_user"`
	GitHubToken      string  `koanf:"github_token"`
	GitHubBaseURL    string  `koanf:"github_base_url"`
	GitHubRatePerMin float64 `koanf:"github_rate_per_min"`

	HTTPTimeout  time.Duration `koanf:"http_timeout"`
	SessionIdle  time.Duration `koanf:"session_idle"`
	AllowOrigins []string      `koanf:"allow_origins"`

	AdminUsername string `koanf:"admin_username"`
	AdminPassword string `koanf:"admin_password"`

	SMTPHost  string `koanf:"smtp_host"`
	SMTPPort  string `koanf:"smtp_port"`
	SMTPUser  string `koanf:"smtp_user"`
	SMTPPass  string `koanf:"smtp_pass"`
	ContactTo string `koanf:"contact_to"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Port:             "8080",
		Env:              "development",
		LogLevel:         "info",
		Version:          "1.0.0",
		StorageBackend:   BackendSQLite,
		DBPath:           "data/portfolio.db",
		RedisAddr:        "localhost:6379",
		WeatherBaseURL:   "https://api.openweathermap.org",
		DefaultCity:      "Dhahran",
		GitHubUser:       "Clawzd",
		GitHubBaseURL:    "https://api.github.com",
		GitHubRatePerMin: 30,
		HTTPTimeout:      10 * time.Second,
		SessionIdle:      30 * time.Minute,
		SMTPHost:         "smtp.gmail.com",
		SMTPPort:         "587",
	}
}

// Load reads .env into the environment, then layers the optional YAML file
// at path and PORTFOLIO_* variables over the defaults.
func Load(path string) (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Hosting platforms set a bare PORT.
	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if !validBackends[c.StorageBackend] {
		return fmt.Errorf("invalid storage_backend %q: must be one of sqlite, postgres, redis, memory", c.StorageBackend)
	}
	if c.StorageBackend == BackendSQLite && c.DBPath == "" {
		return fmt.Errorf("db_path is required for the sqlite backend")
	}
	if c.StorageBackend == BackendPostgres && c.PostgresDSN == "" {
		return fmt.Errorf("postgres_dsn is required for the postgres backend")
	}
	if c.StorageBackend == BackendRedis && c.RedisAddr == "" {
		return fmt.Errorf("redis_addr is required for the redis backend")
	}
	if c.LogLevel != "debug" && c.LogLevel != "info" {
		return fmt.Errorf("invalid log_level %q: must be debug or info", c.LogLevel)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive")
	}
	if c.SessionIdle <= 0 {
		return fmt.Errorf("session_idle must be positive")
	}
	if c.GitHubRatePerMin < 0 {
		return fmt.Errorf("github_rate_per_min must be non-negative")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// GinMode is release in production unless log_level asks for debug output.
func (c *Config) GinMode() string {
	if c.IsProduction() && c.LogLevel != "debug" {
		return "release"
	}
	return "debug"
}
