package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/config"
)

func TestDefaultUsesIterativeOracleAndNeutralBias(t *testing.T) {
	cfg := config.Default()
	require.Equal(t, "iterative", cfg.Oracle.Type)
	require.Equal(t, "neutral", cfg.Bias.Type)
	require.Equal(t, -1, cfg.Oracle.UnrelaxVariable)
}

func TestLoadOverridesDefaultsFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policytest.yaml")
	yaml := `
oracle:
  type: unrelax
  unrelax_operations_per_state: 6
bias:
  type: loopiness
novelty_width: 2
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "unrelax", cfg.Oracle.Type)
	require.Equal(t, 6, cfg.Oracle.UnrelaxOperationsPerState)
	require.Equal(t, "loopiness", cfg.Bias.Type)
	require.Equal(t, 2, cfg.NoveltyWidth)
	// Fields the YAML doesn't mention keep Default's values.
	require.Equal(t, 1000, cfg.MaxWalkLength)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
