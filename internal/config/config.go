// Package config reads the emotext process settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/subosito/gotenv"

	"github.com/tsawler/emotext"
	"github.com/tsawler/emotext/internal/logging"
)

// Environment variable names.
const (
	EnvDataset     = "EMOTEXT_DATASET"
	EnvLogLevel    = "EMOTEXT_LOG_LEVEL"
	EnvTestSize    = "EMOTEXT_TEST_SIZE"
	EnvSeed        = "EMOTEXT_SEED"
	EnvMaxFeatures = "EMOTEXT_MAX_FEATURES"
	EnvC           = "EMOTEXT_C"
	EnvAlgorithm   = "EMOTEXT_ALGORITHM"
)

// Config holds everything the emotext command needs to start.
type Config struct {
	DatasetPath string
	LogLevel    slog.Level
	Training    emotext.TrainingConfig
}

// LoadEnv loads a dotenv file into the process environment. A missing file
// is not an error; variables already set are not overridden.
func LoadEnv(path string) error {
	if path == "" {
		return nil
	}
	err := gotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("no .env file found, using OS environment", slog.String("path", path))
		return nil
	}
	return err
}

// FromEnv builds a Config from environment variables, starting from the
// library defaults.
func FromEnv() (Config, error) {
	cfg := Config{
		DatasetPath: emotext.DefaultDatasetPath,
		LogLevel:    slog.LevelInfo,
		Training:    emotext.DefaultTrainingConfig(),
	}

	if v := os.Getenv(EnvDataset); v != "" {
		cfg.DatasetPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		level, err := logging.ParseLevel(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = level
	}
	if v := os.Getenv(EnvTestSize); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f >= 1 {
			return cfg, fmt.Errorf("%s: want a fraction in [0, 1), got %q", EnvTestSize, v)
		}
		cfg.Training.TestSize = f
	}
	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvSeed, err)
		}
		cfg.Training.Seed = seed
	}
	if v := os.Getenv(EnvMaxFeatures); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("%s: want a positive integer, got %q", EnvMaxFeatures, v)
		}
		cfg.Training.MaxFeatures = n
	}
	if v := os.Getenv(EnvC); v != "" {
		c, err := strconv.ParseFloat(v, 64)
		if err != nil || c <= 0 {
			return cfg, fmt.Errorf("%s: want a positive number, got %q", EnvC, v)
		}
		cfg.Training.C = c
	}
	if v := os.Getenv(EnvAlgorithm); v != "" {
		switch alg := emotext.Algorithm(v); alg {
		case emotext.AlgorithmLogistic, emotext.AlgorithmCentroid:
			cfg.Training.Algorithm = alg
		default:
			return cfg, fmt.Errorf("%s: unknown algorithm %q", EnvAlgorithm, v)
		}
	}
	return cfg, nil
}
