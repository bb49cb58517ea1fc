package infrastructure

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ensemble-calibration/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadConfig(t *testing.T) {
	reader := NewYAMLConfigReader(zap.NewNop())

	t.Run("full config", func(t *testing.T) {
		path := writeConfig(t, `family: truncated-gaussian
training_days: 15
validity_hour: 4
min_cases: 5
tolerance: 0.001
max_iterations: 500
max_evaluations: 800
pooling: domain
workers: 2
decimals: 6
log_level: debug
metrics_addr: ":9102"
`)
		config, err := reader.ReadConfig(path, domain.ConfigOverrides{})
		require.NoError(t, err)

		assert.Equal(t, "truncated-gaussian", config.Family)
		assert.Equal(t, domain.FamilyTruncatedGaussian, config.GetFamily())
		assert.Equal(t, 15, config.TrainingDays)
		assert.Equal(t, 4, config.ValidityHour)
		assert.Equal(t, 5, config.MinCases)
		assert.InDelta(t, 0.001, config.Tolerance, 1e-12)
		assert.Equal(t, 500, config.MaxIterations)
		assert.Equal(t, 800, config.MaxEvaluations)
		assert.Equal(t, domain.PoolDomain, config.GetPooling())
		assert.Equal(t, 2, config.Workers)
		assert.Equal(t, 6, config.Decimals)
		assert.Equal(t, "debug", config.LogLevel)
		assert.Equal(t, ":9102", config.MetricsAddr)
	})

	t.Run("defaults fill missing fields", func(t *testing.T) {
		path := writeConfig(t, "validity_hour: 12\n")
		config, err := reader.ReadConfig(path, domain.ConfigOverrides{})
		require.NoError(t, err)

		assert.Equal(t, "gaussian", config.Family)
		assert.Equal(t, domain.FamilyGaussian, config.GetFamily())
		assert.Equal(t, 30, config.TrainingDays)
		assert.Equal(t, 3, config.MinCases)
		assert.InDelta(t, 0.0001, config.Tolerance, 1e-12)
		assert.Equal(t, 1000, config.MaxIterations)
		assert.Equal(t, 2000, config.MaxEvaluations)
		assert.Equal(t, "point", config.Pooling)
		assert.Equal(t, domain.PoolPerPoint, config.GetPooling())
		assert.GreaterOrEqual(t, config.Workers, 1)
		assert.Equal(t, 4, config.Decimals)
		assert.Equal(t, "info", config.LogLevel)
	})

	t.Run("command line overrides win", func(t *testing.T) {
		path := writeConfig(t, "family: gaussian\npooling: point\nworkers: 8\nlog_level: warn\n")
		config, err := reader.ReadConfig(path, domain.ConfigOverrides{
			Family:   "truncated-gaussian",
			Pooling:  "domain",
			Workers:  2,
			LogLevel: "debug",
		})
		require.NoError(t, err)

		assert.Equal(t, "truncated-gaussian", config.Family)
		assert.Equal(t, "domain", config.Pooling)
		assert.Equal(t, 2, config.Workers)
		assert.Equal(t, "debug", config.LogLevel)
	})

	t.Run("empty overrides keep file values", func(t *testing.T) {
		path := writeConfig(t, "family: truncated-gaussian\nworkers: 8\n")
		config, err := reader.ReadConfig(path, domain.ConfigOverrides{})
		require.NoError(t, err)

		assert.Equal(t, "truncated-gaussian", config.Family)
		assert.Equal(t, 8, config.Workers)
	})

	t.Run("unknown family rejected", func(t *testing.T) {
		path := writeConfig(t, "family: lognormal\n")
		_, err := reader.ReadConfig(path, domain.ConfigOverrides{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config validation")
	})

	t.Run("validity hour out of range", func(t *testing.T) {
		path := writeConfig(t, "validity_hour: 24\n")
		_, err := reader.ReadConfig(path, domain.ConfigOverrides{})
		require.Error(t, err)
	})

	t.Run("negative tolerance rejected", func(t *testing.T) {
		path := writeConfig(t, "tolerance: -0.5\n")
		_, err := reader.ReadConfig(path, domain.ConfigOverrides{})
		require.Error(t, err)
	})

	t.Run("unknown pooling rejected", func(t *testing.T) {
		path := writeConfig(t, "pooling: tiles\n")
		_, err := reader.ReadConfig(path, domain.ConfigOverrides{})
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := reader.ReadConfig(filepath.Join(t.TempDir(), "absent.yaml"), domain.ConfigOverrides{})
		require.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "family: [unclosed\n")
		_, err := reader.ReadConfig(path, domain.ConfigOverrides{})
		require.Error(t, err)
	})
}
