package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Events   EventsConfig   `yaml:"events"`
	Auth     AuthConfig     `yaml:"auth"`
	Flights  FlightsConfig  `yaml:"flights"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers      []string `yaml:"brokers"`
	FlightsTopic string   `yaml:"flights_topic"`
	GroupID      string   `yaml:"group_id"`
}

// EventsConfig configures the outbound HTTP webhook channel.
type EventsConfig struct {
	BaseURL        string `yaml:"base_url"`
	Path           string `yaml:"path"`
	APIKey         string `yaml:"api_key"`
	Producer       string `yaml:"producer"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

type FlightsConfig struct {
	DefaultCurrency string `yaml:"default_currency"`
	AllowPastSearch bool   `yaml:"allow_past_search"`
	UniqueCode      bool   `yaml:"unique_code"`
	PageSize        int    `yaml:"page_size"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Flights.DefaultCurrency == "" {
		cfg.Flights.DefaultCurrency = "ARS"
	}
	if cfg.Flights.PageSize <= 0 {
		cfg.Flights.PageSize = 8
	}
	if cfg.Events.Producer == "" {
		cfg.Events.Producer = "flights-service"
	}
	if cfg.Events.TimeoutSeconds <= 0 {
		cfg.Events.TimeoutSeconds = 10
	}

	return &cfg, nil
}
