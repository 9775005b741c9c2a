// Package config loads storefront settings from an optional YAML file and
// the environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// EnvFile names the YAML file loaded by FromEnv.
const EnvFile = "STOREFRONT_CONFIG"

// Config is the full runtime configuration.
type Config struct {
	ServiceName string        `yaml:"service_name"`
	LogLevel    string        `yaml:"log_level"`
	API         APIConfig     `yaml:"api"`
	HTTP        HTTPConfig    `yaml:"http"`
	Storage     StorageConfig `yaml:"storage"`
	Kafka       KafkaConfig   `yaml:"kafka"`
	Tracing     TracingConfig `yaml:"tracing"`
	AddressURL  string        `yaml:"address_url"`
}

// APIConfig points at the storefront backend.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// HTTPConfig is the BFF listener. TLS is used when both files are set.
type HTTPConfig struct {
	Addr         string `yaml:"addr"`
	TLSCert      string `yaml:"tls_cert"`
	TLSKey       string `yaml:"tls_key"`
	SessionTTL   string `yaml:"session_ttl"`
	SecureCookie bool   `yaml:"secure_cookie"`
}

// StorageConfig selects where carts and sessions are persisted.
type StorageConfig struct {
	Driver    string `yaml:"driver"`
	DSN       string `yaml:"dsn"`
	RedisAddr string `yaml:"redis_addr"`
}

// KafkaConfig enables order events when Brokers is not empty.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// TracingConfig enables OTLP export when Host is set.
type TracingConfig struct {
	Host        string  `yaml:"host"`
	Probability float64 `yaml:"probability"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		ServiceName: "storefront",
		LogLevel:    "info",
		API: APIConfig{
			Timeout: "30s",
		},
		HTTP: HTTPConfig{
			Addr:       ":8443",
			SessionTTL: "24h",
		},
		Storage: StorageConfig{
			Driver: StorageMemory,
		},
		Kafka: KafkaConfig{
			Topic: "storefront.orders",
		},
		Tracing: TracingConfig{
			Probability: 1.0,
		},
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// FromEnv is Load with the file named by STOREFRONT_CONFIG.
func FromEnv() (*Config, error) {
	return Load(os.Getenv(EnvFile))
}

func (c *Config) applyEnv() {
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.API.BaseURL, "API_BASE_URL")
	setString(&c.API.Timeout, "API_TIMEOUT")
	setString(&c.HTTP.Addr, "HTTP_ADDR")
	setString(&c.HTTP.TLSCert, "TLS_CERT")
	setString(&c.HTTP.TLSKey, "TLS_KEY")
	setString(&c.Storage.Driver, "STORAGE_DRIVER")
	setString(&c.Storage.RedisAddr, "REDIS_ADDR")
	setString(&c.Kafka.Topic, "KAFKA_TOPIC")
	setString(&c.Tracing.Host, "OTEL_HOST")
	setString(&c.AddressURL, "ADDRESS_URL")

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		c.Storage.DSN = dsn
		if os.Getenv("STORAGE_DRIVER") == "" && c.Storage.Driver == StorageMemory {
			c.Storage.Driver = StoragePostgres
		}
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		c.Kafka.Brokers = splitList(brokers)
	}
	if p := os.Getenv("OTEL_PROBABILITY"); p != "" {
		if v, err := strconv.ParseFloat(p, 64); err == nil {
			c.Tracing.Probability = v
		}
	}
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// APITimeout parses API.Timeout, defaulting to 30s.
func (c *Config) APITimeout() time.Duration {
	return parseDuration(c.API.Timeout, 30*time.Second)
}

// SessionTTL parses HTTP.SessionTTL, defaulting to 24h.
func (c *Config) SessionTTL() time.Duration {
	return parseDuration(c.HTTP.SessionTTL, 24*time.Hour)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// TLS reports whether both certificate files are configured.
func (c *Config) TLS() bool {
	return c.HTTP.TLSCert != "" && c.HTTP.TLSKey != ""
}

// Validate checks the settings that would otherwise fail at first use.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory:
	case StorageRedis:
		if c.Storage.RedisAddr == "" {
			return errors.New("storage driver redis requires REDIS_ADDR")
		}
	case StoragePostgres, StorageSQLite:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage driver %s requires a dsn", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q (valid: memory, redis, postgres, sqlite)", c.Storage.Driver)
	}
	if (c.HTTP.TLSCert == "") != (c.HTTP.TLSKey == "") {
		return errors.New("tls needs both certificate and key")
	}
	if c.Tracing.Probability < 0 || c.Tracing.Probability > 1 {
		return fmt.Errorf("tracing probability %v out of range [0,1]", c.Tracing.Probability)
	}
	return nil
}
