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

	assert.Equal(t, "nats://localhost:4222", cfg.NATSURL)
	assert.Equal(t, "winpredict", cfg.NATSStream)
	assert.Equal(t, "winpredict.db", cfg.DBPath)
	assert.Equal(t, "models_storage", cfg.ModelDir)
	assert.Equal(t, 100, cfg.Trees)
	assert.Equal(t, 5, cfg.MinSamples)
	assert.Equal(t, int64(42), cfg.Seed)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("WINPREDICT_NATS_URL", "nats://broker:4222")
	t.Setenv("WINPREDICT_MODELS_DIR", "/var/lib/winpredict/models")
	t.Setenv("WINPREDICT_TRAINING_TREES", "250")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "nats://broker:4222", cfg.NATSURL)
	assert.Equal(t, "/var/lib/winpredict/models", cfg.ModelDir)
	assert.Equal(t, 250, cfg.Trees)
	assert.Equal(t, 5, cfg.MinSamples, "unset keys keep their defaults")
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("db:\n  path: /data/bids.db\ntraining:\n  min_samples: 10\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/bids.db", cfg.DBPath)
	assert.Equal(t, 10, cfg.MinSamples)
	assert.Equal(t, "winpredict", cfg.NATSStream)
}

func TestLoadMissingFileIsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
