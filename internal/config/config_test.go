package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	content := `
listen: ":9000"
log_level: debug
host:
  name: Rhino
document:
  path: /tmp/model.json
accounts:
  db: /tmp/accounts.db
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))

	cfg, err := Load(viper.New(), file)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "Rhino", cfg.Host.Name)
	assert.Equal(t, "/tmp/model.json", cfg.Document.Path)
	assert.Equal(t, "/tmp/model.json.clients.json", cfg.Document.ClientsPath)
	assert.Equal(t, "/tmp/accounts.db", cfg.Accounts.DB)
	assert.Equal(t, []string{"localhost:*", "127.0.0.1:*"}, cfg.UI.OriginPatterns)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CADBRIDGE_DOCUMENT_PATH", "/data/doc.json")
	t.Setenv("CADBRIDGE_HOST_NAME", "Revit")

	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("listen: \":1\"\n"), 0o644))

	cfg, err := Load(viper.New(), file)
	require.NoError(t, err)
	assert.Equal(t, "/data/doc.json", cfg.Document.Path)
	assert.Equal(t, "Revit", cfg.Host.Name)
}

func TestLoad_MissingDocument(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("listen: \":1\"\n"), 0o644))

	_, err := Load(viper.New(), file)
	assert.ErrorContains(t, err, "document path is required")
}

func TestLoad_BadFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
