package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// OracleConfig selects and tunes the oracle the engine drives.
type OracleConfig struct {
	// Type is one of "iterative", "unrelax", or "composite".
	Type string `mapstructure:"type"`

	ReportParents        bool `mapstructure:"report_parents"`
	ConsiderIntermediate bool `mapstructure:"consider_intermediate"`

	// Iterative-improvement oracle knobs.
	UpdateParents       bool `mapstructure:"update_parents"`
	MaxStateComparisons int  `mapstructure:"max_state_comparisons"`

	Lookahead LookaheadConfig `mapstructure:"lookahead"`

	// Unrelaxation oracle knobs.
	UnrelaxOperationsPerState int `mapstructure:"unrelax_operations_per_state"`
	// UnrelaxVariable restricts AtomicUnrelaxationOracle to a single
	// variable; -1 (the default) enumerates every variable.
	UnrelaxVariable int `mapstructure:"unrelax_variable"`

	// Composite oracle: each entry is itself a full OracleConfig.
	Composite []OracleConfig `mapstructure:"composite"`
}

// LookaheadConfig configures the iterative oracle's optional Phase E
// best-first search (spec.md §4.5).
type LookaheadConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Comparator is one of "g+h" or "h".
	Comparator     string `mapstructure:"comparator"`
	MaxVisits      int    `mapstructure:"max_visits"`
	MaxComparisons int    `mapstructure:"max_comparisons"`
}

// BiasConfig selects the fuzzing generator's scoring function.
type BiasConfig struct {
	// Type is one of "neutral", "loopiness", or "plan_length".
	Type string `mapstructure:"type"`
}

// DominanceConfig locates the precomputed numeric dominance relation.
type DominanceConfig struct {
	// File, if non-empty, is a path to a zlib-compressed encoded
	// TableDominance (internal/dominance.Encode's format). If empty, a
	// table sized to the state registry's current state count is used that
	// carries no dominance information (D(s,t)=NegativeInfinity for s!=t,
	// D(s,s)=0), so the oracles run, if uninformed.
	File string `mapstructure:"file"`
}

// Config is the full engine/oracle/bias parameter set bound from a YAML
// file via viper (SPEC_FULL.md §A2); CLI flags for the handful of options
// that also have flags take precedence (applied by the caller after Load).
type Config struct {
	Oracle             OracleConfig    `mapstructure:"oracle"`
	Bias               BiasConfig      `mapstructure:"bias"`
	Dominance          DominanceConfig `mapstructure:"dominance"`
	MemoryPaddingBytes int             `mapstructure:"memory_padding_bytes"`
	MaxWalkLength      int             `mapstructure:"max_walk_length"`
	BiasBudget         int             `mapstructure:"bias_budget"`
	NoveltyWidth       int             `mapstructure:"novelty_width"`
}

// Default returns the configuration used when no --config file is given:
// a single iterative-improvement oracle with no lookahead, a neutral
// bias, and an uninformed dominance relation (no dominance file).
func Default() *Config {
	return &Config{
		Oracle: OracleConfig{
			Type:                "iterative",
			ReportParents:       true,
			MaxStateComparisons: 8,
			UnrelaxVariable:     -1,
		},
		Bias:          BiasConfig{Type: "neutral"},
		MaxWalkLength: 1000,
		BiasBudget:    32,
	}
}

// Load reads a YAML configuration file at path into a Config seeded with
// Default's values, so a config file only needs to mention the fields it
// overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	vp := viper.New()
	vp.SetConfigFile(filepath.Base(path))
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return nil, err
	}
	if err := vp.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
