package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// MaxTokens holds the per-task upper bound passed to the generation provider.
type MaxTokens struct {
	Email    int
	Research int
	Scoring  int
	Generate int
	Snippet  int
}

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver          string
		DSN             string
		MaxOpenConns    int
		ConnMaxLifetime time.Duration
	}
	LLM struct {
		Provider string
		Model    string
		APIKey   string
		BaseURL  string
	}
	Defaults struct {
		Language string
		Tenant   string
		Country  string
	}
	// TaxRecoveryCountry is the only market where invoice recovery and
	// deductibility claims may appear in a prompt.
	TaxRecoveryCountry string
	CacheTTL           time.Duration
	MaxTokens          MaxTokens
	LogLevel           string
}

// RemoteEnabled reports whether a remote store is configured. Without one the
// service runs on the bundled fallback dataset only.
func (c *Config) RemoteEnabled() bool {
	return c.DB.Driver != "" && c.DB.DSN != ""
}

// Load reads config from environment (GTM_ prefix) and optional gtm-api.yaml.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GTM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("gtm-api")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("http.addr", ":3000")
	v.SetDefault("cache.ttl", "5m")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("defaults.language", "es")
	v.SetDefault("defaults.tenant", "mendel")
	v.SetDefault("defaults.country", "MX")
	v.SetDefault("tax_recovery_country", "MX")
	v.SetDefault("max_tokens.email", 1024)
	v.SetDefault("max_tokens.research", 2048)
	v.SetDefault("max_tokens.scoring", 1024)
	v.SetDefault("max_tokens.generate", 1024)
	v.SetDefault("max_tokens.snippet", 150)
	v.SetDefault("log.level", "info")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.DB.MaxOpenConns = v.GetInt("db.max_open_conns")
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(v.GetString("llm.provider")))
	cfg.LLM.Model = v.GetString("llm.model")
	cfg.LLM.APIKey = v.GetString("llm.api_key")
	cfg.LLM.BaseURL = v.GetString("llm.base_url")
	cfg.Defaults.Language = strings.ToLower(v.GetString("defaults.language"))
	cfg.Defaults.Tenant = v.GetString("defaults.tenant")
	cfg.Defaults.Country = strings.ToUpper(v.GetString("defaults.country"))
	cfg.TaxRecoveryCountry = strings.ToUpper(v.GetString("tax_recovery_country"))
	cfg.MaxTokens = MaxTokens{
		Email:    v.GetInt("max_tokens.email"),
		Research: v.GetInt("max_tokens.research"),
		Scoring:  v.GetInt("max_tokens.scoring"),
		Generate: v.GetInt("max_tokens.generate"),
		Snippet:  v.GetInt("max_tokens.snippet"),
	}
	cfg.LogLevel = v.GetString("log.level")

	ttl, err := time.ParseDuration(v.GetString("cache.ttl"))
	if err != nil {
		return nil, fmt.Errorf("invalid GTM_CACHE_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("GTM_CACHE_TTL must be positive, got %s", ttl)
	}
	cfg.CacheTTL = ttl

	lifetime, err := time.ParseDuration(v.GetString("db.conn_max_lifetime"))
	if err != nil {
		return nil, fmt.Errorf("invalid GTM_DB_CONN_MAX_LIFETIME: %w", err)
	}
	cfg.DB.ConnMaxLifetime = lifetime

	// A driver without a DSN (or the reverse) is a misconfiguration, not the
	// fallback-only mode.
	if (cfg.DB.Driver == "") != (cfg.DB.DSN == "") {
		return nil, fmt.Errorf("GTM_DB_DRIVER and GTM_DB_DSN must be set together")
	}
	// Generation stays disabled unless a provider is named. A named provider
	// needs a key, except behind a self-hosted base URL.
	if p := cfg.LLM.Provider; p != "" && p != "none" && cfg.LLM.APIKey == "" && cfg.LLM.BaseURL == "" {
		return nil, fmt.Errorf("GTM_LLM_API_KEY is required for provider %q", p)
	}
	if cfg.Defaults.Tenant == "" {
		return nil, fmt.Errorf("GTM_DEFAULTS_TENANT must not be empty")
	}

	return cfg, nil
}
