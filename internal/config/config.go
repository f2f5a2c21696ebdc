package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// Storage backends
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config holds the whole application configuration
type Config struct {
	Server    ServerConfig    // HTTP server settings
	Storage   StorageConfig   // where the scoreboard lives
	Database  DatabaseConfig  // PostgreSQL connection, used by the postgres backend
	Session   SessionConfig   // login sessions
	Game      GameConfig      // teams and money goal
	Log       LogConfig       // logging
	Bootstrap BootstrapConfig // optional first administrator
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string `envconfig:"SERVER_PORT" default:"5000"`
	Host string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
}

// StorageConfig selects the persistence backend
type StorageConfig struct {
	Backend  string `envconfig:"STORAGE_BACKEND" default:"file"`
	DataFile string `envconfig:"DATA_FILE" default:"gincana.json"`
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	URL      string `envconfig:"DATABASE_URL"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"gincana"`
	Password string `envconfig:"DB_PASSWORD"`
	Name     string `envconfig:"DB_NAME" default:"gincana"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"1"`
}

// SessionConfig holds session token settings
type SessionConfig struct {
	Secret   string `envconfig:"SESSION_SECRET" required:"true"`
	TTLHours int    `envconfig:"SESSION_TTL_HOURS" default:"12"`
	Secure   bool   `envconfig:"SESSION_COOKIE_SECURE" default:"false"`
}

// GameConfig describes the competition
type GameConfig struct {
	Teams []string        `envconfig:"TEAMS" default:"Boys,Girls"`
	Goal  decimal.Decimal `envconfig:"GOAL" default:"2000"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

// BootstrapConfig creates an administrator at startup when it does not exist yet
type BootstrapConfig struct {
	AdminUsername string `envconfig:"ADMIN_USERNAME"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`
}

// GetTTL returns the session lifetime as time.Duration
func (s SessionConfig) GetTTL() time.Duration {
	return time.Duration(s.TTLHours) * time.Hour
}

// DSN returns the PostgreSQL connection string; DATABASE_URL wins when set
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// Addr returns host:port for the HTTP listener
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

// Validate checks settings envconfig cannot express
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.DataFile == "" {
			return fmt.Errorf("DATA_FILE is required for the %s backend", BackendFile)
		}
	case BackendPostgres:
		if c.Database.URL == "" && c.Database.Password == "" {
			return fmt.Errorf("DATABASE_URL or DB_PASSWORD is required for the %s backend", BackendPostgres)
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}

	teams := make([]string, 0, len(c.Game.Teams))
	for _, name := range c.Game.Teams {
		if name = strings.TrimSpace(name); name != "" {
			teams = append(teams, name)
		}
	}
	if len(teams) == 0 {
		return fmt.Errorf("TEAMS must name at least one team")
	}
	c.Game.Teams = teams

	if c.Game.Goal.IsNegative() {
		return fmt.Errorf("GOAL must not be negative")
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET must not be empty")
	}
	if c.Session.TTLHours <= 0 {
		return fmt.Errorf("SESSION_TTL_HOURS must be positive")
	}
	if (c.Bootstrap.AdminUsername == "") != (c.Bootstrap.AdminPassword == "") {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}
	return nil
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
