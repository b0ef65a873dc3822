// Package config provides YAML-based configuration loading for Quotewire.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level Quotewire configuration, loaded from quotewire.yaml.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	Extract   ExtractConfig   `yaml:"extract"`
	Notify    NotifyConfig    `yaml:"notify"`
	Companies []CompanyConfig `yaml:"companies"`
}

// DatabaseConfig holds connection settings for the MySQL server.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Database string `yaml:"database"`
}

// ServerConfig holds webhook server settings.
type ServerConfig struct {
	Port    int    `yaml:"port"`
	BaseURL string `yaml:"base_url"`
}

// TransportConfig holds credentials and addresses for the telephony and
// chat message provider.
type TransportConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
	ChatFrom   string `yaml:"chat_from"`
}

// ExtractConfig tunes the extraction pipeline. The keyword vocabularies are
// data, not code: deployments override them per industry.
type ExtractConfig struct {
	APIKey        string   `yaml:"api_key"` // language-model key; empty disables the AI path
	Model         string   `yaml:"model"`
	ItemKeywords  []string `yaml:"item_keywords"`
	PositiveWords []string `yaml:"positive_words"`
	NegativeWords []string `yaml:"negative_words"`
	MaxRetries    int      `yaml:"max_retries"`
	RetryDelaySec int      `yaml:"retry_delay_sec"`
}

// NotifyConfig holds ops notification settings.
type NotifyConfig struct {
	SlackToken     string `yaml:"slack_token"`
	SlackChannel   string `yaml:"slack_channel"`
	DiscordToken   string `yaml:"discord_token"`
	DiscordChannel string `yaml:"discord_channel"`
}

// CompanyConfig describes one requesting company on whose behalf calls are
// placed. Read-only input to the conversation engine.
type CompanyConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Industry string `yaml:"industry"`
	Priority string `yaml:"priority"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config back to path as YAML. The file is written with
// owner-only permissions because it carries provider credentials.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// DefaultItemKeywords is the stock vocabulary for laboratory-supply
// procurement. Deployments targeting other industries override it in YAML.
var DefaultItemKeywords = []string{
	"slides", "petri", "gloves", "reagent", "chemical",
	"syringe", "tube", "kit", "beaker", "flask",
}

// DefaultPositiveWords and DefaultNegativeWords drive the fallback
// sentiment vote. Mixed English/Hindi, matching vendor speech.
var (
	DefaultPositiveWords = []string{
		"yes", "available", "good", "quality", "best",
		"haan", "milega", "accha",
	}
	DefaultNegativeWords = []string{
		"no", "not available", "sorry", "cannot",
		"nahi", "nahin", "nope",
	}
)

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Database.Host == "" {
		c.Database.Host = "127.0.0.1"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 3306
	}
	if c.Database.User == "" {
		c.Database.User = "root"
	}
	if c.Database.Database == "" {
		c.Database.Database = "quotewire"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Extract.Model == "" {
		c.Extract.Model = "gemini-1.5-flash-8b"
	}
	if c.Extract.MaxRetries == 0 {
		c.Extract.MaxRetries = 3
	}
	if c.Extract.RetryDelaySec == 0 {
		c.Extract.RetryDelaySec = 1
	}
	if len(c.Extract.ItemKeywords) == 0 {
		c.Extract.ItemKeywords = DefaultItemKeywords
	}
	if len(c.Extract.PositiveWords) == 0 {
		c.Extract.PositiveWords = DefaultPositiveWords
	}
	if len(c.Extract.NegativeWords) == 0 {
		c.Extract.NegativeWords = DefaultNegativeWords
	}
	for i := range c.Companies {
		if c.Companies[i].Priority == "" {
			c.Companies[i].Priority = "normal"
		}
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if len(c.Companies) == 0 {
		errs = append(errs, "at least one company is required")
	}
	for i, co := range c.Companies {
		if co.ID == "" {
			errs = append(errs, fmt.Sprintf("companies[%d].id is required", i))
		}
		if co.Name == "" {
			errs = append(errs, fmt.Sprintf("companies[%d].name is required", i))
		}
		if co.Industry == "" {
			errs = append(errs, fmt.Sprintf("companies[%d].industry is required", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
