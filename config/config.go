// Package config loads DialogMesh runtime settings from YAML. Every field
// has a safe default, so an empty document yields a working development
// configuration; secrets are resolved from environment variables named in
// the file, never stored inline.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "300s"
// or "5m" (yaml.v3 has no native duration support).
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the standard library form.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// String implements fmt.Stringer.
func (d Duration) String() string { return time.Duration(d).String() }

// LLM configures the generation-service client.
type LLM struct {
	Provider    string  `yaml:"provider"` // "openai" or "anthropic"
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"` // env var holding the key
	Temperature float64 `yaml:"temperature"`
}

// Agent configures the orchestration loop and session lifecycle.
type Agent struct {
	Patience      int      `yaml:"patience"`       // generation round trips per turn
	HistoryWindow int      `yaml:"history_window"` // prior turns replayed into prompts
	IdleTimeout   Duration `yaml:"idle_timeout"`   // session eviction threshold
	SweepInterval Duration `yaml:"sweep_interval"` // eviction cadence
}

// Server carries settings for the surrounding transport layer. The core
// parses but does not consume them.
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Config is the root document.
type Config struct {
	LLM    LLM    `yaml:"llm"`
	Agent  Agent  `yaml:"agent"`
	Server Server `yaml:"server"`
}

// Default returns the baseline configuration used when fields are absent.
func Default() Config {
	return Config{
		LLM: LLM{
			Provider:    "openai",
			Temperature: 0.7,
		},
		Agent: Agent{
			Patience:      3,
			HistoryWindow: 10,
			IdleTimeout:   Duration(300 * time.Second),
			SweepInterval: Duration(60 * time.Second),
		},
		Server: Server{
			Host: "0.0.0.0",
			Port: 8000,
		},
	}
}

// Load reads and parses the YAML file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return LoadBytes(data)
}

// LoadBytes parses YAML config data, applying defaults for absent fields.
func LoadBytes(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyDefaults restores baseline values for fields the document zeroed.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Agent.Patience <= 0 {
		c.Agent.Patience = def.Agent.Patience
	}
	if c.Agent.HistoryWindow <= 0 {
		c.Agent.HistoryWindow = def.Agent.HistoryWindow
	}
	if c.Agent.IdleTimeout <= 0 {
		c.Agent.IdleTimeout = def.Agent.IdleTimeout
	}
	if c.Agent.SweepInterval <= 0 {
		c.Agent.SweepInterval = def.Agent.SweepInterval
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = def.LLM.Provider
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = def.LLM.Temperature
	}
	if c.Server.Host == "" {
		c.Server.Host = def.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
}

// Validate rejects configurations the core cannot run with.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	if c.Agent.SweepInterval > c.Agent.IdleTimeout {
		return fmt.Errorf("sweep_interval %s exceeds idle_timeout %s", c.Agent.SweepInterval, c.Agent.IdleTimeout)
	}
	return nil
}

// APIKey resolves the generation-service key from the configured
// environment variable. An empty name defers to the SDK's own resolution.
func (l LLM) APIKey() string {
	if l.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(l.APIKeyEnv)
}
