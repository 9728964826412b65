package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the main config struct
type Config struct {
	Environment string         `yaml:"environment" env:"ENVIRONMENT" env-default:"production" env-description:"Environment name"`
	Secret      string         `yaml:"secret" env:"SECRET" env-default:"" env-description:"Bearer token for the admin API"`
	Verbose     string         `yaml:"verbose" env:"VERBOSE" env-default:"info" env-description:"Verbose mode for debug output"`
	Discord     DiscordConfig  `yaml:"discord"`
	Database    DatabaseConfig `yaml:"database"`
	Archiver    ArchiverConfig `yaml:"archiver"`
	API         APIConfig      `yaml:"api"`
	Proxy       ProxyConfig    `yaml:"proxy"`
	Metrics     MetricsConfig  `yaml:"metrics"`
	OTEL        OTELConfig     `yaml:"otel"`
}

// Discord gateway config
type DiscordConfig struct {
	Token                 string        `yaml:"token" env:"DISCORD_TOKEN" env-required:"true" env-description:"Discord bot token"`
	DisableMessageContent bool          `yaml:"disable_message_content" env:"DISCORD_DISABLE_MESSAGE_CONTENT" env-default:"false" env-description:"Do not request the privileged message content intent"`
	LogLevel              string        `yaml:"log_level" env:"DISCORD_LOG_LEVEL" env-default:"warn" env-description:"Log level of the gateway client"`
	Timeout               time.Duration `yaml:"timeout" env:"DISCORD_TIMEOUT" env-default:"20s" env-description:"REST client timeout"`
}

// Document store config
type DatabaseConfig struct {
	// Driver is the database driver to use.
	// Supported drivers are "mongodb", "sqlite", "sqlite3", "postgres", "mysql", "mariadb" and "tidb".
	Driver     string        `yaml:"driver" env:"DATABASE_DRIVER" env-default:"sqlite" env-description:"Database driver to use"`
	Connection string        `yaml:"connection" env:"DATABASE_CONNECTION" env-default:"archive.db" env-description:"Database connection string"`
	Name       string        `yaml:"name" env:"DATABASE_NAME" env-default:"discor" env-description:"Database name, used by mongodb"`
	Timeout    time.Duration `yaml:"timeout" env:"DATABASE_TIMEOUT" env-default:"10s" env-description:"Timeout of a single store operation"`
}

// Archiver config
type ArchiverConfig struct {
	// Guilds to archive, empty means all of them.
	Whitelist             []string `yaml:"whitelist" env:"ARCHIVER_WHITELIST" env-description:"Archive only these guilds"`
	IgnoredGuilds         []string `yaml:"ignored_guilds" env:"ARCHIVER_IGNORED_GUILDS" env-description:"Guilds to skip"`
	IgnoredChannels       []string `yaml:"ignored_channels" env:"ARCHIVER_IGNORED_CHANNELS" env-description:"Channels to skip"`
	DecomposeBulkDelete   bool     `yaml:"decompose_bulk_delete" env:"ARCHIVER_DECOMPOSE_BULK_DELETE" env-default:"false" env-description:"Handle a bulk delete as single deletes"`
	DisablePerMessageLock bool     `yaml:"disable_per_message_lock" env:"ARCHIVER_DISABLE_PER_MESSAGE_LOCK" env-default:"false" env-description:"Do not serialize events of the same message"`
}

// API config
type APIConfig struct {
	Disabled     bool          `yaml:"disabled" env:"API_DISABLED" env-default:"false" env-description:"Do not serve the admin API"`
	Host         string        `yaml:"host" env:"API_HOST" env-default:"localhost" env-description:"API host address to bind to"`
	Port         int           `yaml:"port" env:"API_PORT" env-default:"8080" env-description:"API port to bind to"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"API_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"API_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"API_IDLE_TIMEOUT" env-default:"15s"`
}

// SOCKS5 proxy config
type ProxyConfig struct {
	Address  string `yaml:"address" env:"PROXY_ADDRESS" env-default:"" env-description:"Proxy address"`
	Port     int    `yaml:"port" env:"PROXY_PORT" env-default:"0" env-description:"Proxy port"`
	Username string `yaml:"username" env:"PROXY_USERNAME" env-default:"" env-description:"Proxy username"`
	Password string `yaml:"password" env:"PROXY_PASSWORD" env-default:"" env-description:"Proxy password"`
}

// Metrics config
type MetricsConfig struct {
	// Driver is one of "none", "influx" or "prometheus".
	Driver string `yaml:"driver" env:"METRICS_DRIVER" env-default:"none" env-description:"Metrics backend"`
	URL    string `yaml:"url" env:"METRICS_URL" env-default:"" env-description:"InfluxDB URL"`
	Token  string `yaml:"token" env:"METRICS_TOKEN" env-default:"" env-description:"InfluxDB token"`
	Org    string `yaml:"org" env:"METRICS_ORG" env-default:"" env-description:"InfluxDB organization"`
	Bucket string `yaml:"bucket" env:"METRICS_BUCKET" env-default:"" env-description:"InfluxDB bucket"`
}

// OpenTelemetry tracing config
type OTELConfig struct {
	Enabled     bool    `yaml:"enabled" env:"OTEL_ENABLED" env-default:"false" env-description:"Export traces"`
	Endpoint    string  `yaml:"endpoint" env:"OTEL_ENDPOINT" env-default:"localhost:4317" env-description:"OTLP gRPC collector endpoint"`
	TLS         bool    `yaml:"tls" env:"OTEL_TLS" env-default:"false" env-description:"Use TLS to the collector"`
	ServiceName string  `yaml:"service_name" env:"OTEL_SERVICE_NAME" env-default:"foxy-archive-server" env-description:"Service name resource attribute"`
	SampleRatio float64 `yaml:"sample_ratio" env:"OTEL_SAMPLE_RATIO" env-default:"1" env-description:"Fraction of traces to sample"`
}

var (
	databaseDrivers = []string{"mongodb", "sqlite", "sqlite3", "postgres", "mysql", "mariadb", "tidb"}
	metricsDrivers  = []string{"none", "influx", "prometheus"}
)

// ConfigError - config loading or validation failure
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// Validate - check the values cleanenv can not check by itself
func (c *Config) Validate() error {
	if !slices.Contains(databaseDrivers, strings.ToLower(c.Database.Driver)) {
		return &ConfigError{Message: fmt.Sprintf("Unsupported database driver: %s", c.Database.Driver)}
	}
	if c.Database.Timeout <= 0 {
		return &ConfigError{Message: "Database timeout must be positive"}
	}
	if !slices.Contains(metricsDrivers, strings.ToLower(c.Metrics.Driver)) {
		return &ConfigError{Message: fmt.Sprintf("Unsupported metrics driver: %s", c.Metrics.Driver)}
	}
	if strings.EqualFold(c.Metrics.Driver, "influx") && (c.Metrics.URL == "" || c.Metrics.Bucket == "") {
		return &ConfigError{Message: "Influx metrics require url and bucket"}
	}
	if c.OTEL.SampleRatio < 0 || c.OTEL.SampleRatio > 1 {
		return &ConfigError{Message: "OTEL sample ratio must be within [0, 1]"}
	}
	return nil
}

// MustLoadConfig - read .env (if any), then the YAML file at CONFIG_PATH (if any),
// then environment variables.
func MustLoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, &ConfigError{
			Message: fmt.Sprintf("Cannot read .env file: %s", err),
		}
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yml"
	}

	var config Config

	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, &config); err != nil {
			return nil, &ConfigError{
				Message: fmt.Sprintf("Cannot read config file: %s", err),
			}
		}
	} else if err := cleanenv.ReadEnv(&config); err != nil {
		return nil, &ConfigError{
			Message: fmt.Sprintf("Cannot read environment: %s", err),
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
