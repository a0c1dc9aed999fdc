package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("GRPC_ADDR", ":6000")
	t.Setenv("DATABASE_DSN", "postgres://x")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("APP_ENV", "production")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,,")

	c := &Config{}
	c.LoadDefaults()
	parseEnv(c)

	assert.Equal(t, ":9999", c.EndpointAddrHTTP)
	assert.Equal(t, ":6000", c.EndpointAddrGRPC)
	assert.Equal(t, "postgres://x", c.DatabaseDSN)
	assert.Equal(t, "from-env", c.SecretKey)
	assert.Equal(t, "production", c.Environment)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.CORSAllowedOrigins)
}

func TestParseEnv_EmptySecretKeepsCurrent(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	c := &Config{SecretKey: "kept"}
	parseEnv(c)

	assert.Equal(t, "kept", c.SecretKey)
}

func TestParseEnv_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GRPC_ADDR=:7777\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	// godotenv never overrides variables that are already set.
	t.Setenv("GRPC_ADDR", "")
	require.NoError(t, os.Unsetenv("GRPC_ADDR"))

	c := &Config{}
	parseEnv(c)
	assert.Equal(t, ":7777", c.EndpointAddrGRPC)
}
