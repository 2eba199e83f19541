package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSecrets(t *testing.T, files map[string]string) string {
	t.Helper()
	tmpDir := t.TempDir()
	secretsDir := filepath.Join(tmpDir, "secrets")
	if err := os.MkdirAll(secretsDir, 0755); err != nil {
		t.Fatalf("failed to create secrets dir: %v", err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(secretsDir, name), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return tmpDir
}

func TestLoadOpenAIConfig_ValidFile(t *testing.T) {
	tmpDir := writeSecrets(t, map[string]string{
		"openai.yaml": `api_key: "test-api-key-12345"`,
	})

	cfg, err := loadOpenAIConfig(filepath.Join(tmpDir, "secrets", "openai.yaml"))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.APIKey != "test-api-key-12345" {
		t.Errorf("expected api_key 'test-api-key-12345', got '%s'", cfg.APIKey)
	}
}

func TestLoadOpenAIConfig_FileNotFound(t *testing.T) {
	_, err := loadOpenAIConfig("/nonexistent/path/openai.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoad_WithEnvVars(t *testing.T) {
	tmpDir := writeSecrets(t, map[string]string{
		"openai.yaml":    `api_key: "env-test-key"`,
		"anthropic.yaml": `api_key: "anthropic-test-key"`,
	})

	os.Setenv("SETTINGS_DIR", tmpDir)
	os.Setenv("DB_PATH", "/custom/db/path.db")
	os.Setenv("MAX_CHAIN_LENGTH", "5")
	os.Setenv("TURN_DELAY_MS", "0")
	defer func() {
		os.Unsetenv("SETTINGS_DIR")
		os.Unsetenv("DB_PATH")
		os.Unsetenv("MAX_CHAIN_LENGTH")
		os.Unsetenv("TURN_DELAY_MS")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.DBPath != "/custom/db/path.db" {
		t.Errorf("expected DB_PATH '/custom/db/path.db', got '%s'", cfg.DBPath)
	}

	if cfg.OpenAI.APIKey != "env-test-key" {
		t.Errorf("expected OpenAI API key 'env-test-key', got '%s'", cfg.OpenAI.APIKey)
	}

	if cfg.Anthropic.APIKey != "anthropic-test-key" {
		t.Errorf("expected Anthropic API key 'anthropic-test-key', got '%s'", cfg.Anthropic.APIKey)
	}

	if cfg.MaxChainLength != 5 {
		t.Errorf("expected MAX_CHAIN_LENGTH 5, got %d", cfg.MaxChainLength)
	}

	if cfg.TurnDelay != 0 {
		t.Errorf("expected zero turn delay, got %v", cfg.TurnDelay)
	}
}

func TestLoad_AnthropicOptional(t *testing.T) {
	tmpDir := writeSecrets(t, map[string]string{
		"openai.yaml": `api_key: "only-openai"`,
	})

	os.Setenv("SETTINGS_DIR", tmpDir)
	defer os.Unsetenv("SETTINGS_DIR")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Anthropic.APIKey != "" {
		t.Errorf("expected empty Anthropic key, got '%s'", cfg.Anthropic.APIKey)
	}

	if cfg.TurnDelay >= 0 {
		t.Errorf("unset turn delay should be negative, got %v", cfg.TurnDelay)
	}
}

func TestLoad_InvalidChainLength(t *testing.T) {
	tmpDir := writeSecrets(t, map[string]string{
		"openai.yaml": `api_key: "k"`,
	})

	os.Setenv("SETTINGS_DIR", tmpDir)
	os.Setenv("MAX_CHAIN_LENGTH", "zero")
	defer func() {
		os.Unsetenv("SETTINGS_DIR")
		os.Unsetenv("MAX_CHAIN_LENGTH")
	}()

	if _, err := Load(); err == nil {
		t.Error("expected error for non-numeric MAX_CHAIN_LENGTH")
	}
}
