package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URI", "postgres://localhost/paisatrack")
	t.Setenv("PORT", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("AI_BASE_URL", "")
	t.Setenv("AI_MODEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DatabaseURI != "postgres://localhost/paisatrack" {
		t.Errorf("DatabaseURI = %q", cfg.DatabaseURI)
	}
	if cfg.Port != "4000" {
		t.Errorf("Port = %q, want default 4000", cfg.Port)
	}
	if cfg.AIBaseURL != "https://openrouter.ai/api/v1" {
		t.Errorf("AIBaseURL = %q", cfg.AIBaseURL)
	}
	if cfg.AIModel != "openai/gpt-4o-mini" {
		t.Errorf("AIModel = %q", cfg.AIModel)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("AI_MODEL", "openai/gpt-4o")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.AIModel != "openai/gpt-4o" {
		t.Errorf("AIModel = %q", cfg.AIModel)
	}
	if cfg.TelegramToken != "123:abc" {
		t.Errorf("TelegramToken = %q", cfg.TelegramToken)
	}
}
