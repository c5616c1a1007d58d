package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the registry client
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	LogFormat   string `mapstructure:"LOG_FORMAT"`

	// Gateway configuration
	GatewayURL        string `mapstructure:"GATEWAY_URL"`
	GatewayTimeoutSec int    `mapstructure:"GATEWAY_TIMEOUT_SEC"`
	APIToken          string `mapstructure:"API_TOKEN"`

	// Push channel configuration
	PushTransport        string `mapstructure:"PUSH_TRANSPORT"`
	PushWebSocketURL     string `mapstructure:"PUSH_WS_URL"`
	PushReconnectDelayMs int    `mapstructure:"PUSH_RECONNECT_DELAY_MS"`
	NATSURL              string `mapstructure:"NATS_URL"`
	NATSSubjectPrefix    string `mapstructure:"NATS_SUBJECT_PREFIX"`

	// List synchronization configuration
	PollIntervalMs       int `mapstructure:"POLL_INTERVAL_MS"`
	HistoryPollInitialMs int `mapstructure:"HISTORY_POLL_INITIAL_MS"`
	HistoryPollMaxMs     int `mapstructure:"HISTORY_POLL_MAX_MS"`
	PageSize             int `mapstructure:"PAGE_SIZE"`

	// Coordinates bounds policy, unbounded when unset
	CoordinatesMaxX          *int64 `mapstructure:"COORDINATES_MAX_X"`
	CoordinatesMinYExclusive *int64 `mapstructure:"COORDINATES_MIN_Y_EXCLUSIVE"`
}

// Push transports
const (
	PushTransportStomp = "stomp"
	PushTransportNATS  = "nats"
	PushTransportNone  = "none"
)

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	return load(v)
}

// LoadFile reads configuration from the given file plus environment variables
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	// Set default values
	setDefaults(v)

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Override with environment variables
	v.AutomaticEnv()
	for _, key := range []string{"API_TOKEN", "NATS_URL", "COORDINATES_MAX_X", "COORDINATES_MIN_Y_EXCLUSIVE"} {
		_ = v.BindEnv(key)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Derive the push URL from the gateway if not provided
	if config.PushWebSocketURL == "" {
		config.PushWebSocketURL = buildWebSocketURL(config.GatewayURL)
	}

	// Validate required fields
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")

	// Gateway defaults
	v.SetDefault("GATEWAY_URL", "http://localhost:35000")
	v.SetDefault("GATEWAY_TIMEOUT_SEC", 15)

	// Push defaults
	v.SetDefault("PUSH_TRANSPORT", PushTransportStomp)
	v.SetDefault("PUSH_WS_URL", "")
	v.SetDefault("PUSH_RECONNECT_DELAY_MS", 5000)
	v.SetDefault("NATS_SUBJECT_PREFIX", "registry.changes")

	// List defaults
	v.SetDefault("POLL_INTERVAL_MS", 1000)
	v.SetDefault("HISTORY_POLL_INITIAL_MS", 4000)
	v.SetDefault("HISTORY_POLL_MAX_MS", 30000)
	v.SetDefault("PAGE_SIZE", 10)
}

func buildWebSocketURL(gatewayURL string) string {
	u, err := url.Parse(gatewayURL)
	if err != nil || u.Host == "" {
		return ""
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return fmt.Sprintf("%s://%s/ws", scheme, u.Host)
}

func validate(config *Config) error {
	u, err := url.Parse(config.GatewayURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("GATEWAY_URL must be an absolute http(s) URL, got %q", config.GatewayURL)
	}

	switch config.PushTransport {
	case PushTransportStomp:
		if config.PushWebSocketURL == "" {
			return fmt.Errorf("PUSH_WS_URL is required for the stomp push transport")
		}
	case PushTransportNATS:
		if config.NATSURL == "" {
			return fmt.Errorf("NATS_URL is required for the nats push transport")
		}
	case PushTransportNone:
	default:
		return fmt.Errorf("unknown PUSH_TRANSPORT %q", config.PushTransport)
	}

	if config.GatewayTimeoutSec <= 0 || config.PollIntervalMs <= 0 || config.HistoryPollInitialMs <= 0 ||
		config.HistoryPollMaxMs <= 0 || config.PushReconnectDelayMs <= 0 {
		return fmt.Errorf("timeouts and intervals must be positive")
	}

	if config.HistoryPollMaxMs < config.HistoryPollInitialMs {
		return fmt.Errorf("HISTORY_POLL_MAX_MS must not be smaller than HISTORY_POLL_INITIAL_MS")
	}

	if config.PageSize <= 0 || config.PageSize > 100 {
		return fmt.Errorf("PAGE_SIZE must be between 1 and 100")
	}

	return nil
}

// GatewayTimeout returns the per-request Gateway timeout
func (c *Config) GatewayTimeout() time.Duration {
	return time.Duration(c.GatewayTimeoutSec) * time.Second
}

// PollInterval returns the live list refresh interval
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// HistoryPollBounds returns the initial and maximal history refresh interval
func (c *Config) HistoryPollBounds() (time.Duration, time.Duration) {
	return time.Duration(c.HistoryPollInitialMs) * time.Millisecond, time.Duration(c.HistoryPollMaxMs) * time.Millisecond
}

// PushReconnectDelay returns the initial push reconnect delay
func (c *Config) PushReconnectDelay() time.Duration {
	return time.Duration(c.PushReconnectDelayMs) * time.Millisecond
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
