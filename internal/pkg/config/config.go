package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Temporal  TemporalConfig  `mapstructure:"temporal"`
	Routing   RoutingConfig   `mapstructure:"routing"`
	Proximity ProximityConfig `mapstructure:"proximity"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	CORSOrigins  string `mapstructure:"cors_origins"`
	RateLimit    int    `mapstructure:"rate_limit"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName  string `mapstructure:"service_name"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	Enabled      bool   `mapstructure:"enabled"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
	// AutoPublish lets the review workflow publish submissions that have no
	// duplicate instead of leaving them for a moderator.
	AutoPublish bool `mapstructure:"auto_publish"`
}

// RoutingConfig parameterises the linear travel cost model.
type RoutingConfig struct {
	MinutesPerKm float64 `mapstructure:"minutes_per_km"`
	PricePerKm   float64 `mapstructure:"price_per_km"`
	Currency     string  `mapstructure:"currency"`
	Disclaimer   string  `mapstructure:"disclaimer"`
}

type ProximityConfig struct {
	DefaultRadiusKm   float64 `mapstructure:"default_radius_km"`
	MaxRadiusKm       float64 `mapstructure:"max_radius_km"`
	MaxResults        int     `mapstructure:"max_results"`
	DuplicateRadiusKm float64 `mapstructure:"duplicate_radius_km"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from defaults, an optional config.yaml, an
// optional .env file and KAMERTOUR_* environment variables, in increasing
// order of precedence.
func Load(service string) (*Config, error) {
	// .env is a development convenience; absence is fine.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v, service)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// KAMERTOUR_DATABASE_HOST → database.host
	v.SetEnvPrefix("KAMERTOUR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, service string) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.cors_origins", "http://localhost:3000, http://localhost:5173")
	v.SetDefault("server.rate_limit", 120)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "kamertour")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "kamertour")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.otlp_endpoint", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "kamertour-moderation")
	v.SetDefault("temporal.auto_publish", false)
	v.SetDefault("routing.minutes_per_km", 2)
	v.SetDefault("routing.price_per_km", 100)
	v.SetDefault("routing.currency", "FCFA")
	v.SetDefault("routing.disclaimer", "Route calculée en ligne droite. Les conditions réelles peuvent varier.")
	v.SetDefault("proximity.default_radius_km", 50)
	v.SetDefault("proximity.max_radius_km", 1000)
	v.SetDefault("proximity.max_results", 50)
	v.SetDefault("proximity.duplicate_radius_km", 0.1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Database.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}
	if c.Database.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Routing.MinutesPerKm < 0 || c.Routing.PricePerKm < 0 {
		errs = append(errs, "routing rates must not be negative")
	}
	if c.Routing.Currency == "" {
		errs = append(errs, "routing.currency is required")
	}
	if c.Proximity.MaxRadiusKm <= 0 {
		errs = append(errs, "proximity.max_radius_km must be positive")
	}
	if c.Proximity.DefaultRadiusKm <= 0 || c.Proximity.DefaultRadiusKm > c.Proximity.MaxRadiusKm {
		errs = append(errs, fmt.Sprintf("proximity.default_radius_km must be in (0, %g]", c.Proximity.MaxRadiusKm))
	}
	if c.Proximity.MaxResults <= 0 {
		errs = append(errs, "proximity.max_results must be positive")
	}
	if c.Proximity.DuplicateRadiusKm < 0 {
		errs = append(errs, "proximity.duplicate_radius_km must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
