package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("server:\n  port: \"9000\"\ndatabase:\n  host: db.internal\n  name: pos\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "pos", cfg.Database.Name)
	// Fields absent from the file keep their defaults.
	assert.Equal(t, "5432", cfg.Database.Port)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"9000\"\n"), 0o644))

	t.Setenv("PORT", "7777")
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7777", cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Database.Password)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [broken"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=n sslmode=disable", d.DSN())
}
