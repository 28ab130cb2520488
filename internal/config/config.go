package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig   `envPrefix:"SERVER_"`
	Amazon   AmazonConfig   `envPrefix:"AMAZON_"`
	Flipkart FlipkartConfig `envPrefix:"FLIPKART_"`
	Search   SearchConfig   `envPrefix:"SEARCH_"`
	Session  SessionConfig  `envPrefix:"SESSION_"`
	Database DatabaseConfig `envPrefix:"DATABASE_"`
	Kafka    KafkaConfig    `envPrefix:"KAFKA_"`

	// RapidAPIKey is the shared gateway credential, overridden per provider.
	RapidAPIKey string `env:"RAPIDAPI_KEY"`
}

type ServerConfig struct {
	Port          string `env:"PORT" envDefault:"8080"`
	Host          string `env:"HOST" envDefault:"0.0.0.0"`
	Pprof         bool   `env:"PPROF" envDefault:"false"`
	CORSOrigins   string `env:"CORS_ORIGINS" envDefault:"^$"`
	StatsdAddress string `env:"STATSD_ADDRESS"`
}

func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

type AmazonConfig struct {
	BaseURL string        `env:"BASE_URL" envDefault:"https://real-time-amazon-data.p.rapidapi.com"`
	Host    string        `env:"HOST" envDefault:"real-time-amazon-data.p.rapidapi.com"`
	APIKey  string        `env:"API_KEY"`
	Country string        `env:"COUNTRY" envDefault:"IN"`
	SortBy  string        `env:"SORT_BY" envDefault:"RELEVANCE"`
	Page    int           `env:"PAGE" envDefault:"1"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`
	Retries int           `env:"RETRIES" envDefault:"0"`
}

type FlipkartConfig struct {
	BaseURL string        `env:"BASE_URL" envDefault:"https://real-time-flipkart-api.p.rapidapi.com"`
	Host    string        `env:"HOST" envDefault:"real-time-flipkart-api.p.rapidapi.com"`
	APIKey  string        `env:"API_KEY"`
	Page    int           `env:"PAGE" envDefault:"1"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`
	Retries int           `env:"RETRIES" envDefault:"0"`
}

type SearchConfig struct {
	Limit           int           `env:"LIMIT" envDefault:"5"`
	MaxQueryLength  int           `env:"MAX_QUERY_LENGTH" envDefault:"200"`
	// ProviderTimeout bounds one provider call including retries.
	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"20s"`
}

type SessionConfig struct {
	TTL           time.Duration `env:"TTL" envDefault:"30m"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`
	Secret        string        `env:"SECRET"`
	Cookie        string        `env:"COOKIE" envDefault:"pc_session"`
}

type DatabaseConfig struct {
	Enabled  bool   `env:"ENABLED" envDefault:"false"`
	URI      string `env:"URI" envDefault:"mongodb://localhost:27017"`
	Database string `env:"DATABASE" envDefault:"price_compare"`
}

type KafkaConfig struct {
	Enabled bool     `env:"ENABLED" envDefault:"false"`
	Brokers []string `env:"BROKERS" envSeparator:","`
	Topic   string   `env:"TOPIC" envDefault:"price-compare.searches"`
}

// Load reads an optional .env file and then parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.Amazon.APIKey == "" {
		cfg.Amazon.APIKey = cfg.RapidAPIKey
	}
	if cfg.Flipkart.APIKey == "" {
		cfg.Flipkart.APIKey = cfg.RapidAPIKey
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("load config: %v", err))
	}
	return cfg
}

func (c *Config) validate() error {
	if c.Search.Limit <= 0 {
		return fmt.Errorf("SEARCH_LIMIT must be positive, got %d", c.Search.Limit)
	}
	if c.Search.MaxQueryLength <= 0 {
		return fmt.Errorf("SEARCH_MAX_QUERY_LENGTH must be positive, got %d", c.Search.MaxQueryLength)
	}
	if c.Search.ProviderTimeout <= 0 {
		return fmt.Errorf("SEARCH_PROVIDER_TIMEOUT must be positive, got %s", c.Search.ProviderTimeout)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED=true")
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive, got %s", c.Session.SweepInterval)
	}
	return nil
}
