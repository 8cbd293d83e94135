package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	Gemini struct {
		Model string `yaml:"model"`
	} `yaml:"gemini"`
	Retry struct {
		MaxRetries  int `yaml:"max_retries"`
		BaseDelayMS int `yaml:"base_delay_ms"`
	} `yaml:"retry"`
	Limits struct {
		// MaxDocumentBytes caps a single attachment; 0 disables the cap.
		MaxDocumentBytes int64 `yaml:"max_document_bytes"`
	} `yaml:"limits"`
	Chat struct {
		SystemPrompt   string `yaml:"system_prompt"`
		WelcomeMessage string `yaml:"welcome_message"`
	} `yaml:"chat"`
}

// DefaultSystemPrompt is the domain instruction sent with every request.
const DefaultSystemPrompt = "You are a knowledgeable and friendly financial advisor. " +
	"Help the user understand their finances, budgeting, saving, investing, and any " +
	"documents they share, such as bank statements or spreadsheets. Give clear, " +
	"practical answers and note when professional advice is needed."

// DefaultWelcomeMessage greets the user at session start.
const DefaultWelcomeMessage = "Hello! I'm your financial advisor. Ask me anything " +
	"about your finances, or attach a statement and I'll take a look."

// Load loads configuration from file or returns defaults
func Load() (*Config, error) {
	cfg := Default()

	configPath := filepath.Join(os.Getenv("HOME"), ".financial-advisor", "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to file
func (c *Config) Save() error {
	configDir := filepath.Join(os.Getenv("HOME"), ".financial-advisor")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// Default returns default configuration
func Default() *Config {
	cfg := &Config{}

	cfg.Gemini.Model = "gemini-1.5-flash"
	cfg.Retry.MaxRetries = 2
	cfg.Retry.BaseDelayMS = 1000
	cfg.Limits.MaxDocumentBytes = 0
	cfg.Chat.SystemPrompt = DefaultSystemPrompt
	cfg.Chat.WelcomeMessage = DefaultWelcomeMessage

	return cfg
}

// BaseDelay returns the configured retry base delay as a duration.
func (c *Config) BaseDelay() time.Duration {
	if c.Retry.BaseDelayMS <= 0 {
		return time.Second
	}
	return time.Duration(c.Retry.BaseDelayMS) * time.Millisecond
}
