package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultStaticDir, cfg.StaticDir)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co/")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "service")
	t.Setenv("PORT", "8090")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://proj.supabase.co", cfg.SupabaseURL, "trailing slash stripped")
	assert.Equal(t, "anon", cfg.SupabaseAnonKey)
	assert.Equal(t, "service", cfg.SupabaseServiceKey)
	assert.Equal(t, 8090, cfg.Port)
	assert.True(t, cfg.HasSupabaseDefaults())
}

func TestLoadYAMLFileEnvWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"supabase_url: https://file.supabase.co\nport: 4000\nlog_level: debug\n"), 0o600))

	t.Setenv("SUPABASE_URL", "https://env.supabase.co")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.supabase.co", cfg.SupabaseURL, "environment wins over file")
	assert.Equal(t, 4000, cfg.Port, "file wins over defaults")
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &Config{}
	assert.Nil(t, cfg.AllowedOrigins())

	cfg.CORSAllowedOrigins = "https://a.test, https://b.test,"
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.AllowedOrigins())
}
