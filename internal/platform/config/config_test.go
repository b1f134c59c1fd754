package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DevDefaults(t *testing.T) {
	t.Setenv("CREW_AUTH_MODE", "dev")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, StorageMemory, cfg.StorageBackend)
	assert.Equal(t, 4, cfg.MatchWorkers)
	assert.Equal(t, 30*time.Second, cfg.JWT.ClockSkew)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	path := writeConfig(t, `
port: 9090
authMode: jwt
storageBackend: sqlite
sqlitePath: /tmp/crew.db
logLevel: debug
matchWorkers: 8
jwt:
  issuer: https://issuer.example
  audience: crew-api
  jwksUrl: https://issuer.example/jwks.json
  clockSkew: 1m
`)
	t.Setenv("CREW_PORT", "7070")
	t.Setenv("CREW_JWT_AUDIENCE", "crew-api-staging")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port, "env wins over file")
	assert.Equal(t, StorageSQLite, cfg.StorageBackend)
	assert.Equal(t, "/tmp/crew.db", cfg.SQLitePath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 8, cfg.MatchWorkers)
	assert.Equal(t, "crew-api-staging", cfg.JWT.Audience)
	assert.Equal(t, time.Minute, cfg.JWT.ClockSkew)
	assert.Equal(t, 5*time.Minute, cfg.JWT.JWKSRefreshInterval, "unset keys keep defaults")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"jwt without endpoints", "authMode: jwt\n"},
		{"unknown backend", "authMode: dev\nstorageBackend: redis\n"},
		{"postgres without url", "authMode: dev\nstorageBackend: postgres\n"},
		{"zero workers", "authMode: dev\nmatchWorkers: 0\n"},
		{"bad log level", "authMode: dev\nlogLevel: loud\n"},
		{"unknown key", "authMode: dev\nmatchWorker: 3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
