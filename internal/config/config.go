package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
}

// AnthropicConfig holds Anthropic API configuration
type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
}

// Config holds all application configuration
type Config struct {
	OpenAI      OpenAIConfig
	Anthropic   AnthropicConfig
	DBPath      string
	SettingsDir string
	ShowsPath   string
	ListenAddr  string

	// MaxChainLength caps automatic character-to-character turns;
	// 0 means the default
	MaxChainLength int

	// TurnDelay paces chained responses; negative means the default,
	// 0 disables the delay
	TurnDelay time.Duration
}

// Load loads configuration from environment and files
func Load() (*Config, error) {
	settingsDir := os.Getenv("SETTINGS_DIR")
	if settingsDir == "" {
		settingsDir = "settings"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "data/app.db"
	}

	listenAddr := os.Getenv("LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = ":8080"
	}

	cfg := &Config{
		DBPath:         dbPath,
		SettingsDir:    settingsDir,
		ShowsPath:      os.Getenv("SHOWS_PATH"),
		ListenAddr:     listenAddr,
		MaxChainLength: 0,
		TurnDelay:      -1,
	}

	if v := os.Getenv("MAX_CHAIN_LENGTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid MAX_CHAIN_LENGTH %q", v)
		}
		cfg.MaxChainLength = n
	}

	if v := os.Getenv("TURN_DELAY_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 0 {
			return nil, fmt.Errorf("invalid TURN_DELAY_MS %q", v)
		}
		cfg.TurnDelay = time.Duration(ms) * time.Millisecond
	}

	// OpenAI is the default provider and must be configured
	openaiCfg, err := loadOpenAIConfig(filepath.Join(settingsDir, "secrets", "openai.yaml"))
	if err != nil {
		return nil, err
	}
	cfg.OpenAI = *openaiCfg

	// Anthropic is optional; claude models fall back to OpenAI without it
	anthropicCfg, err := loadAnthropicConfig(filepath.Join(settingsDir, "secrets", "anthropic.yaml"))
	if err == nil {
		cfg.Anthropic = *anthropicCfg
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	return cfg, nil
}

// loadOpenAIConfig loads OpenAI configuration from a YAML file
func loadOpenAIConfig(path string) (*OpenAIConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg OpenAIConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadAnthropicConfig loads Anthropic configuration from a YAML file
func loadAnthropicConfig(path string) (*AnthropicConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg AnthropicConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
