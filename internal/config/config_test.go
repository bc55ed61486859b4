package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/emotext"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{EnvDataset, EnvLogLevel, EnvTestSize, EnvSeed, EnvMaxFeatures, EnvC, EnvAlgorithm} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, emotext.DefaultDatasetPath, cfg.DatasetPath)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, emotext.DefaultTrainingConfig(), cfg.Training)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv(EnvDataset, "/data/emotions.csv")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvTestSize, "0.3")
	t.Setenv(EnvSeed, "7")
	t.Setenv(EnvMaxFeatures, "500")
	t.Setenv(EnvC, "2.5")
	t.Setenv(EnvAlgorithm, "centroid")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/data/emotions.csv", cfg.DatasetPath)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 0.3, cfg.Training.TestSize)
	assert.Equal(t, int64(7), cfg.Training.Seed)
	assert.Equal(t, 500, cfg.Training.MaxFeatures)
	assert.Equal(t, 2.5, cfg.Training.C)
	assert.Equal(t, emotext.AlgorithmCentroid, cfg.Training.Algorithm)
}

func TestFromEnvInvalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{EnvLogLevel, "loud"},
		{EnvTestSize, "1.5"},
		{EnvTestSize, "abc"},
		{EnvSeed, "x"},
		{EnvMaxFeatures, "0"},
		{EnvC, "-1"},
		{EnvAlgorithm, "forest"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := FromEnv()
			assert.ErrorContains(t, err, tt.key)
		})
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("EMOTEXT_SEED=99\nEMOTEXT_C=3\n"), 0o644))

	t.Setenv(EnvSeed, "")
	t.Setenv(EnvC, "5")
	os.Unsetenv(EnvSeed)

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "99", os.Getenv(EnvSeed))
	assert.Equal(t, "5", os.Getenv(EnvC), "existing variables are not overridden")
}

func TestLoadEnvMissingFile(t *testing.T) {
	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), "absent.env")))
	assert.NoError(t, LoadEnv(""))
}
