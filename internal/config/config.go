// Package config loads gateway configuration from the environment and
// an optional YAML file.
//
// Precedence: environment variables win over file values, file values
// win over built-in defaults. A missing .env file is not an error.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all process-wide settings. Supabase values here are the
// process defaults; per-request override headers may replace any of
// them (see the creds package).
type Config struct {
	SupabaseURL        string `env:"SUPABASE_URL" yaml:"supabase_url"`
	SupabaseAnonKey    string `env:"SUPABASE_ANON_KEY" yaml:"supabase_anon_key"`
	SupabaseServiceKey string `env:"SUPABASE_SERVICE_ROLE_KEY" yaml:"supabase_service_role_key"`

	Port          int    `env:"PORT" yaml:"port"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL" yaml:"public_base_url"`
	StaticDir     string `env:"STATIC_DIR" yaml:"static_dir"`
	LogLevel      string `env:"LOG_LEVEL" yaml:"log_level"`

	// CORSAllowedOrigins is a comma-separated list; empty means allow all.
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" yaml:"cors_allowed_origins"`
}

// Load builds the config from defaults, an optional YAML file, and the
// environment, in that order. path may be empty.
func Load(path string) (*Config, error) {
	// Best effort: a missing .env is fine, same as the dotenv convention.
	_ = godotenv.Load()

	cfg := &Config{
		Port:      DefaultPort,
		StaticDir: DefaultStaticDir,
		LogLevel:  DefaultLogLevel,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	cfg.SupabaseURL = strings.TrimRight(strings.TrimSpace(cfg.SupabaseURL), "/")
	return cfg, nil
}

// HasSupabaseDefaults reports whether the anonymous client can be built
// from process configuration alone.
func (c *Config) HasSupabaseDefaults() bool {
	return c.SupabaseURL != "" && c.SupabaseAnonKey != ""
}

// AllowedOrigins returns the parsed CORS origin list, nil for allow-all.
func (c *Config) AllowedOrigins() []string {
	if strings.TrimSpace(c.CORSAllowedOrigins) == "" {
		return nil
	}
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
