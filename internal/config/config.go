package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// DatabaseConfig holds relational database connection settings.
type DatabaseConfig struct {
	Driver             string `env:"DRIVER" envDefault:"mysql"`
	Host               string `env:"HOST" envDefault:"localhost"`
	Port               int    `env:"PORT" envDefault:"3306"`
	Name               string `env:"NAME" envDefault:"ayopa_shop"`
	User               string `env:"USER" envDefault:"root"`
	Password           string `env:"PASSWORD"`
	SSLMode            string `env:"SSLMODE"`
	ConnectTimeoutSec  int    `env:"CONNECT_TIMEOUT_SEC" envDefault:"5"`
	ConnMaxLifetimeSec int    `env:"CONN_MAX_LIFETIME_SEC" envDefault:"0"`
	// ExecPolicy selects how statement failures are reported: "propagate" or "log".
	ExecPolicy string `env:"EXEC_POLICY" envDefault:"propagate"`
}

// LogConfig holds logger settings. An empty File logs to the console only.
type LogConfig struct {
	Level      string `env:"LEVEL" envDefault:"info"`
	File       string `env:"FILE"`
	MaxSizeMB  int    `env:"MAX_SIZE_MB" envDefault:"50"`
	MaxBackups int    `env:"MAX_BACKUPS" envDefault:"5"`
	MaxAgeDays int    `env:"MAX_AGE_DAYS" envDefault:"30"`
}

// TracingConfig mirrors the standard OTEL_* variables the tracer provider reads.
type TracingConfig struct {
	Disabled    bool   `env:"OTEL_SDK_DISABLED" envDefault:"false"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"ayopa-shop"`
	Protocol    string `env:"OTEL_EXPORTER_OTLP_PROTOCOL" envDefault:"grpc"`
	Endpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Sampler     string `env:"OTEL_TRACES_SAMPLER" envDefault:"parentbased_traceidratio"`
	SamplerArg  string `env:"OTEL_TRACES_SAMPLER_ARG" envDefault:"1.0"`
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables; a .env file is honored when
// the entrypoint imports github.com/joho/godotenv/autoload.
type AppConfig struct {
	Port        string         `env:"PORT" envDefault:"8080"`
	FixtureSeed bool           `env:"FIXTURE_SEED" envDefault:"false"`
	Log         LogConfig      `envPrefix:"LOG_"`
	Database    DatabaseConfig `envPrefix:"DB_"`
	Tracing     TracingConfig
}

// Load reads configuration from environment variables.
func Load() (*AppConfig, error) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// DefaultDatabase returns the built-in connection parameters of the shop
// database: localhost:3306/ayopa_shop as root with an empty password.
func DefaultDatabase() DatabaseConfig {
	return DatabaseConfig{
		Driver:            "mysql",
		Host:              "localhost",
		Port:              3306,
		Name:              "ayopa_shop",
		User:              "root",
		Password:          "",
		ConnectTimeoutSec: 5,
		ExecPolicy:        "propagate",
	}
}
