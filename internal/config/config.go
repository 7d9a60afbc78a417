package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables recognized at load time.
const (
	EnvWebhookURL    = "DISCORD_WEBHOOK_URL"
	EnvCheckInterval = "CHECK_INTERVAL"
)

const (
	defaultInterval = 1800 * time.Second
	defaultTimeout  = 10 * time.Second
)

// Duration is a time.Duration that unmarshals from a YAML string like "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = dur
	return nil
}

// Service describes a single monitored service.
type Service struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Target     string `yaml:"target"`
	ExpectedIP string `yaml:"expected_ip"`
}

// ScanConfig holds probe loop settings.
type ScanConfig struct {
	Interval Duration `yaml:"interval"`
	Timeout  Duration `yaml:"timeout"`
}

// WebhookConfig holds notification webhook settings.
type WebhookConfig struct {
	URL string `yaml:"url"`
}

// ServerConfig holds status API server settings. An empty address disables
// the server.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// Config is the root application configuration.
type Config struct {
	Services []Service     `yaml:"services"`
	Scan     ScanConfig    `yaml:"scan"`
	Webhook  WebhookConfig `yaml:"webhook"`
	Server   ServerConfig  `yaml:"server"`
}

var validTypes = map[string]bool{
	"http": true,
	"dns":  true,
	"tcp":  true,
}

// DefaultServices returns the built-in service registry used when no config
// file is present.
func DefaultServices() []Service {
	return []Service{
		{Name: "AWS", Type: "http", Target: "https://status.aws.amazon.com"},
		{Name: "Claude (Anthropic)", Type: "http", Target: "https://www.anthropic.com"},
		{Name: "Cloudflare", Type: "http", Target: "https://1.1.1.1"},
		{Name: "Google DNS", Type: "tcp", Target: "8.8.8.8:53"},
		{Name: "Microsoft Teams", Type: "http", Target: "https://teams.microsoft.com"},
		{Name: "Microsoft 365", Type: "http", Target: "https://www.microsoft.com/en-us/microsoft-365"},
		{Name: "OpenAI", Type: "http", Target: "https://www.openai.com"},
		{Name: "GitHub Copilot", Type: "http", Target: "https://github.com/features/copilot"},
		{Name: "Docker Hub", Type: "http", Target: "https://hub.docker.com"},
		{Name: "Pingdom", Type: "http", Target: "https://www.pingdom.com"},
		{Name: "GitHub (Bonus)", Type: "http", Target: "https://api.github.com"},
	}
}

// Load builds the configuration from the YAML file at path (if it exists)
// and the process environment. A missing file is not an error: the built-in
// service registry is used instead. Environment variables take precedence
// over file values.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Scan: ScanConfig{
			Interval: Duration{defaultInterval},
			Timeout:  Duration{defaultTimeout},
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Fall through to the built-in registry.
		case err != nil:
			return nil, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	if len(cfg.Services) == 0 {
		cfg.Services = DefaultServices()
	}
	if cfg.Scan.Interval.Duration <= 0 {
		cfg.Scan.Interval = Duration{defaultInterval}
	}
	if cfg.Scan.Timeout.Duration <= 0 {
		cfg.Scan.Timeout = Duration{defaultTimeout}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if url := os.Getenv(EnvWebhookURL); url != "" {
		cfg.Webhook.URL = url
	}
	if v := os.Getenv(EnvCheckInterval); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return fmt.Errorf("invalid %s %q: must be a positive number of seconds", EnvCheckInterval, v)
		}
		cfg.Scan.Interval = Duration{time.Duration(secs) * time.Second}
	}
	return nil
}

func validate(cfg *Config) error {
	names := make(map[string]bool, len(cfg.Services))
	for i, svc := range cfg.Services {
		if svc.Name == "" {
			return fmt.Errorf("service[%d]: name is required", i)
		}
		if names[svc.Name] {
			return fmt.Errorf("duplicate service name %q", svc.Name)
		}
		names[svc.Name] = true

		if svc.Target == "" {
			return fmt.Errorf("service %q: target is required", svc.Name)
		}
		if !validTypes[svc.Type] {
			return fmt.Errorf("service %q: invalid type %q (must be http, dns, or tcp)", svc.Name, svc.Type)
		}
		if svc.Type == "tcp" {
			if _, _, err := net.SplitHostPort(svc.Target); err != nil {
				return fmt.Errorf("service %q: tcp target must be host:port: %w", svc.Name, err)
			}
		}
		if svc.ExpectedIP != "" && svc.Type != "dns" {
			return fmt.Errorf("service %q: expected_ip is only valid for dns probes", svc.Name)
		}
	}
	return nil
}
