package config_test

import (
	"testing"
	"time"

	"github.com/mendel-gtm/gtm-api/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %s, want 5m", cfg.CacheTTL)
	}
	if cfg.Defaults.Language != "es" {
		t.Errorf("Defaults.Language = %q, want %q", cfg.Defaults.Language, "es")
	}
	if cfg.Defaults.Tenant != "mendel" {
		t.Errorf("Defaults.Tenant = %q, want %q", cfg.Defaults.Tenant, "mendel")
	}
	if cfg.TaxRecoveryCountry != "MX" {
		t.Errorf("TaxRecoveryCountry = %q, want %q", cfg.TaxRecoveryCountry, "MX")
	}
	if cfg.MaxTokens.Research != 2048 || cfg.MaxTokens.Snippet != 150 {
		t.Errorf("MaxTokens = %+v", cfg.MaxTokens)
	}
	if cfg.RemoteEnabled() {
		t.Error("RemoteEnabled() = true without a DSN")
	}
	if cfg.DB.MaxOpenConns != 10 || cfg.DB.ConnMaxLifetime != 30*time.Minute {
		t.Errorf("DB pool = %d/%s, want 10/30m", cfg.DB.MaxOpenConns, cfg.DB.ConnMaxLifetime)
	}
	if cfg.LLM.Provider != "" {
		t.Errorf("LLM.Provider = %q, want generation disabled by default", cfg.LLM.Provider)
	}
}

func TestLoad_Provider(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GTM_LLM_PROVIDER", " Anthropic ")
	t.Setenv("GTM_LLM_API_KEY", "sk-test")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.Provider != "anthropic" {
		t.Errorf("LLM.Provider = %q, want anthropic", cfg.LLM.Provider)
	}
}

func TestLoad_ProviderBehindBaseURL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GTM_LLM_PROVIDER", "openai")
	t.Setenv("GTM_LLM_BASE_URL", "http://localhost:11434")

	if _, err := config.Load(); err != nil {
		t.Errorf("Load: %v, want a keyless self-hosted provider accepted", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GTM_DB_DRIVER", "sqlite3")
	t.Setenv("GTM_DB_DSN", "file:test.db")
	t.Setenv("GTM_CACHE_TTL", "30s")
	t.Setenv("GTM_TAX_RECOVERY_COUNTRY", "co")
	t.Setenv("GTM_MAX_TOKENS_EMAIL", "512")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.RemoteEnabled() {
		t.Error("RemoteEnabled() = false, want true")
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("CacheTTL = %s, want 30s", cfg.CacheTTL)
	}
	if cfg.TaxRecoveryCountry != "CO" {
		t.Errorf("TaxRecoveryCountry = %q, want %q", cfg.TaxRecoveryCountry, "CO")
	}
	if cfg.MaxTokens.Email != 512 {
		t.Errorf("MaxTokens.Email = %d, want 512", cfg.MaxTokens.Email)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"driver without dsn", map[string]string{"GTM_DB_DRIVER": "postgres"}},
		{"bad ttl", map[string]string{"GTM_CACHE_TTL": "soon"}},
		{"zero ttl", map[string]string{"GTM_CACHE_TTL": "0s"}},
		{"bad conn lifetime", map[string]string{"GTM_DB_CONN_MAX_LIFETIME": "forever"}},
		{"provider without key", map[string]string{"GTM_LLM_PROVIDER": "anthropic"}},
		{"gemini without key", map[string]string{"GTM_LLM_PROVIDER": "gemini"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := config.Load(); err == nil {
				t.Error("Load() succeeded, want error")
			}
		})
	}
}
