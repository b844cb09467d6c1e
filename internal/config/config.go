// Package config loads daemon configuration from an optional YAML file with
// environment-variable overrides. Flags parsed in main take precedence over
// both.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Env var prefix for overrides.
const envPrefix = "LED_SCHEDULER_"

// Config covers process-level configuration.
type Config struct {
	// StoreURL is the schedule store base URL.
	StoreURL string `yaml:"store_url"`
	// CredentialsFile is the service-account credentials bundle for the
	// privileged store strategy. Empty or unreadable falls back to REST.
	CredentialsFile string `yaml:"credentials_file"`
	// ActuatorURL is the LED server base URL.
	ActuatorURL string `yaml:"actuator_url"`

	Interval        time.Duration `yaml:"interval"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout"`
	ActuatorTimeout time.Duration `yaml:"actuator_timeout"`
	// Heartbeat is the system-event interval; 0 disables.
	Heartbeat time.Duration `yaml:"heartbeat"`

	// Broker is the MQTT broker address; empty disables event publishing.
	Broker string `yaml:"broker"`
	// HTTPAddr is the status server bind address; empty disables it.
	HTTPAddr string `yaml:"http_addr"`

	LogLevel  string `yaml:"log_level"`
	LogPretty bool   `yaml:"log_pretty"`
}

// Default returns the configuration defaults.
func Default() Config {
	return Config{
		Interval:        60 * time.Second,
		FetchTimeout:    10 * time.Second,
		ActuatorTimeout: 5 * time.Second,
		Heartbeat:       15 * time.Minute,
		HTTPAddr:        ":8090",
		LogLevel:        "info",
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// non-empty), then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.StoreURL, "STORE_URL")
	setString(&c.CredentialsFile, "CREDENTIALS_FILE")
	setString(&c.ActuatorURL, "ACTUATOR_URL")
	setString(&c.Broker, "BROKER")
	setString(&c.HTTPAddr, "HTTP_ADDR")
	setString(&c.LogLevel, "LOG_LEVEL")

	for _, d := range []struct {
		dst *time.Duration
		key string
	}{
		{&c.Interval, "INTERVAL"},
		{&c.FetchTimeout, "FETCH_TIMEOUT"},
		{&c.ActuatorTimeout, "ACTUATOR_TIMEOUT"},
		{&c.Heartbeat, "HEARTBEAT"},
	} {
		if err := setDuration(d.dst, d.key); err != nil {
			return err
		}
	}

	if v, ok := os.LookupEnv(envPrefix + "LOG_PRETTY"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse %sLOG_PRETTY: %w", envPrefix, err)
		}
		c.LogPretty = b
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(envPrefix + key); ok {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("parse %s%s: %w", envPrefix, key, err)
	}
	*dst = d
	return nil
}

// Validate checks the configuration for the poll loop to be runnable.
func (c Config) Validate() error {
	if c.StoreURL == "" {
		return fmt.Errorf("store_url is required")
	}
	if c.ActuatorURL == "" {
		return fmt.Errorf("actuator_url is required")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", c.Interval)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive, got %v", c.FetchTimeout)
	}
	if c.ActuatorTimeout <= 0 {
		return fmt.Errorf("actuator_timeout must be positive, got %v", c.ActuatorTimeout)
	}
	if c.Heartbeat < 0 {
		return fmt.Errorf("heartbeat must not be negative, got %v", c.Heartbeat)
	}
	return nil
}
