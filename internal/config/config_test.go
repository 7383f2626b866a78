package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://mast.stsci.edu", cfg.Server.Endpoint)
	assert.Equal(t, "Mast.Name.Lookup", cfg.Server.Resolver)
	assert.Equal(t, 600*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "AWS", cfg.Cloud.Provider)
	assert.Equal(t, "stpubdata", cfg.Cloud.Bucket)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Server.Token)
}

func TestLoadFromFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
server:
  endpoint: https://masttest.stsci.edu
  timeout: 30s
logging:
  level: debug
`), 0644))

	cfg, err := Load(configFile)
	require.NoError(t, err)

	assert.Equal(t, "https://masttest.stsci.edu", cfg.Server.Endpoint)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Unset values keep their defaults
	assert.Equal(t, "stpubdata", cfg.Cloud.Bucket)
}

func TestLoadBindsTokenEnvironment(t *testing.T) {
	t.Setenv("MAST_API_TOKEN", "env-token")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Server.Token)
}

func TestValidateRejectsBadEndpoint(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Endpoint = "not a url"

	require.Error(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Timeout = 0

	require.Error(t, cfg.Validate())
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
logging:
  level: shouting
`), 0644))

	_, err := Load(configFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log level")
}

func TestGetServerHostname(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "mast.stsci.edu", cfg.GetServerHostname())

	cfg.Server.Endpoint = "https://masttest.stsci.edu:8443/base"
	assert.Equal(t, "masttest.stsci.edu", cfg.GetServerHostname())
}
