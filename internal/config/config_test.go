package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Interval != 60*time.Second {
		t.Errorf("Interval: got %v, want 60s", cfg.Interval)
	}
	if cfg.FetchTimeout != 10*time.Second {
		t.Errorf("FetchTimeout: got %v, want 10s", cfg.FetchTimeout)
	}
	if cfg.ActuatorTimeout != 5*time.Second {
		t.Errorf("ActuatorTimeout: got %v, want 5s", cfg.ActuatorTimeout)
	}
	if cfg.HTTPAddr != ":8090" {
		t.Errorf("HTTPAddr: got %q, want :8090", cfg.HTTPAddr)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel: got %q, want info", cfg.LogLevel)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Interval != 60*time.Second {
		t.Errorf("Interval: got %v, want default", cfg.Interval)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
store_url: https://store.example
actuator_url: http://device.local:8080
credentials_file: /etc/led-scheduler/credentials.json
interval: 30s
heartbeat: 0s
broker: tcp://192.168.1.200:1883
log_level: debug
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StoreURL != "https://store.example" {
		t.Errorf("StoreURL: got %q", cfg.StoreURL)
	}
	if cfg.Interval != 30*time.Second {
		t.Errorf("Interval: got %v, want 30s", cfg.Interval)
	}
	if cfg.Heartbeat != 0 {
		t.Errorf("Heartbeat: got %v, want 0", cfg.Heartbeat)
	}
	if cfg.Broker != "tcp://192.168.1.200:1883" {
		t.Errorf("Broker: got %q", cfg.Broker)
	}
	// Unset keys keep their defaults.
	if cfg.FetchTimeout != 10*time.Second {
		t.Errorf("FetchTimeout: got %v, want default 10s", cfg.FetchTimeout)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("store_url: https://file.example\ninterval: 30s\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LED_SCHEDULER_STORE_URL", "https://env.example")
	t.Setenv("LED_SCHEDULER_INTERVAL", "90s")
	t.Setenv("LED_SCHEDULER_LOG_PRETTY", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StoreURL != "https://env.example" {
		t.Errorf("StoreURL: got %q, want env value", cfg.StoreURL)
	}
	if cfg.Interval != 90*time.Second {
		t.Errorf("Interval: got %v, want 90s", cfg.Interval)
	}
	if !cfg.LogPretty {
		t.Error("LogPretty: got false, want true")
	}
}

func TestEnvBadDuration(t *testing.T) {
	t.Setenv("LED_SCHEDULER_INTERVAL", "soon")
	if _, err := Load(""); err == nil {
		t.Error("expected error for unparseable duration")
	}
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.StoreURL = "https://store.example"
	valid.ActuatorURL = "http://device.local:8080"
	if err := valid.Validate(); err != nil {
		t.Errorf("valid config: unexpected error %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing store", func(c *Config) { c.StoreURL = "" }, "store_url"},
		{"missing actuator", func(c *Config) { c.ActuatorURL = "" }, "actuator_url"},
		{"zero interval", func(c *Config) { c.Interval = 0 }, "interval"},
		{"zero fetch timeout", func(c *Config) { c.FetchTimeout = 0 }, "fetch_timeout"},
		{"zero actuator timeout", func(c *Config) { c.ActuatorTimeout = 0 }, "actuator_timeout"},
		{"negative heartbeat", func(c *Config) { c.Heartbeat = -time.Second }, "heartbeat"},
	}
	for _, tc := range cases {
		cfg := valid
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: expected error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: error %q should mention %q", tc.name, err, tc.want)
		}
	}
}
